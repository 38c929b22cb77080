package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ShayCichocki/pagesmith/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify pagesmith configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/pagesmith/config.yaml
Project-specific overrides can be placed in .pagesmith.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// maskSecret hides a credential value while showing whether it is set.
func maskSecret(value string) string {
	if value == "" {
		return "(not set)"
	}
	return "****"
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("server.port: %d\n", cfg.Server.Port)
	fmt.Printf("server.shared_secret: %s\n", maskSecret(cfg.Server.SharedSecret))
	fmt.Printf("github.token: %s\n", maskSecret(cfg.GitHub.Token))
	fmt.Printf("github.owner: %s\n", cfg.GitHub.Owner)
	fmt.Printf("github.default_branch: %s\n", cfg.GitHub.DefaultBranch)
	fmt.Printf("anthropic.api_key: %s\n", maskSecret(cfg.Anthropic.APIKey))
	fmt.Printf("anthropic.model: %s\n", cfg.Anthropic.Model)
	fmt.Printf("anthropic.use_aws_bedrock: %t\n", cfg.Anthropic.UseAWSBedrock)
	fmt.Printf("anthropic.aws_region: %s\n", cfg.Anthropic.AWSRegion)
	fmt.Printf("anthropic.aws_profile: %s\n", cfg.Anthropic.AWSProfile)
	fmt.Printf("notify.max_retries: %d\n", cfg.Notify.MaxRetries)
	fmt.Printf("notify.base_delay: %s\n", cfg.Notify.BaseDelay)
	fmt.Printf("notify.timeout: %s\n", cfg.Notify.Timeout)
	fmt.Printf("logging.debug_log: %s\n", cfg.Logging.DebugLog)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "server.port":
		return strconv.Itoa(cfg.Server.Port), nil
	case "server.shared_secret":
		return maskSecret(cfg.Server.SharedSecret), nil
	case "github.token":
		return maskSecret(cfg.GitHub.Token), nil
	case "github.owner":
		return cfg.GitHub.Owner, nil
	case "github.default_branch":
		return cfg.GitHub.DefaultBranch, nil
	case "anthropic.api_key":
		return maskSecret(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.use_aws_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseAWSBedrock), nil
	case "anthropic.aws_region":
		return cfg.Anthropic.AWSRegion, nil
	case "anthropic.aws_profile":
		return cfg.Anthropic.AWSProfile, nil
	case "notify.max_retries":
		return strconv.Itoa(cfg.Notify.MaxRetries), nil
	case "notify.base_delay":
		return cfg.Notify.BaseDelay.String(), nil
	case "notify.timeout":
		return cfg.Notify.Timeout.String(), nil
	case "logging.debug_log":
		return cfg.Logging.DebugLog, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "server.port":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for server.port: %w", err)
		}
		cfg.Server.Port = n
	case "server.shared_secret":
		cfg.Server.SharedSecret = value
	case "github.token":
		cfg.GitHub.Token = value
	case "github.owner":
		cfg.GitHub.Owner = value
	case "github.default_branch":
		cfg.GitHub.DefaultBranch = value
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_aws_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for anthropic.use_aws_bedrock: %w", err)
		}
		cfg.Anthropic.UseAWSBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "notify.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for notify.max_retries: %w", err)
		}
		cfg.Notify.MaxRetries = n
	case "notify.base_delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for notify.base_delay: %w", err)
		}
		cfg.Notify.BaseDelay = d
	case "notify.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for notify.timeout: %w", err)
		}
		cfg.Notify.Timeout = d
	case "logging.debug_log":
		cfg.Logging.DebugLog = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
