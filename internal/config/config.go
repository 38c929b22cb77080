// Package config handles configuration loading and management for pagesmith.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for pagesmith.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	GitHub    GitHubConfig    `mapstructure:"github"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP front door settings.
type ServerConfig struct {
	// Port is the TCP port the front door listens on.
	Port int `mapstructure:"port"`
	// SharedSecret authenticates inbound deployment jobs.
	SharedSecret string `mapstructure:"shared_secret"`
}

// GitHubConfig holds repository host credentials.
type GitHubConfig struct {
	// Token is the personal access token used for all repository operations.
	Token string `mapstructure:"token"`
	// Owner is the account that owns the generated repositories.
	Owner string `mapstructure:"owner"`
	// DefaultBranch is the branch committed to and published via Pages.
	DefaultBranch string `mapstructure:"default_branch"`
}

// AnthropicConfig holds Anthropic API settings for the synthesis step.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	// Model is the Claude model used for document synthesis.
	Model string `mapstructure:"model"`
	// UseAWSBedrock routes synthesis calls through AWS Bedrock instead of the direct API.
	UseAWSBedrock bool `mapstructure:"use_aws_bedrock"`
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string `mapstructure:"aws_profile"`
}

// NotifyConfig holds delivery notifier settings.
type NotifyConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `mapstructure:"max_retries"`
	// BaseDelay is the backoff unit; the delay before retry i is BaseDelay * 2^(i-1).
	BaseDelay time.Duration `mapstructure:"base_delay"`
	// Timeout bounds each individual notification POST.
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds debug logging settings.
type LoggingConfig struct {
	// DebugLog is the path of the pipeline debug log. Empty disables it.
	DebugLog string `mapstructure:"debug_log"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (SHARED_SECRET, GITHUB_PAT, GITHUB_USERNAME, ANTHROPIC_API_KEY, LLM_MODEL, PORT)
// 2. Project config (.pagesmith.yaml in current directory or parent)
// 3. User config (~/.config/pagesmith/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides, matching the names the deployment
	// environment has always used.
	v.AutomaticEnv()
	v.BindEnv("server.shared_secret", "SHARED_SECRET")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("github.token", "GITHUB_PAT")
	v.BindEnv("github.owner", "GITHUB_USERNAME")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.model", "LLM_MODEL")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references in credential fields
	cfg.Server.SharedSecret = expandEnv(cfg.Server.SharedSecret)
	cfg.GitHub.Token = expandEnv(cfg.GitHub.Token)
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Server.SharedSecret = expandEnv(cfg.Server.SharedSecret)
	cfg.GitHub.Token = expandEnv(cfg.GitHub.Token)
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Validate checks that every credential required to serve is present.
// A missing credential is fatal at startup: the process refuses to serve.
func (c *Config) Validate() error {
	var missing []string

	if c.Server.SharedSecret == "" {
		missing = append(missing, "server.shared_secret (SHARED_SECRET)")
	}
	if c.GitHub.Token == "" {
		missing = append(missing, "github.token (GITHUB_PAT)")
	}
	if c.GitHub.Owner == "" {
		missing = append(missing, "github.owner (GITHUB_USERNAME)")
	}
	// Bedrock resolves credentials through the AWS config chain instead.
	if c.Anthropic.APIKey == "" && !c.Anthropic.UseAWSBedrock {
		missing = append(missing, "anthropic.api_key (ANTHROPIC_API_KEY)")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("server.port", cfg.Server.Port)
	v.Set("server.shared_secret", cfg.Server.SharedSecret)
	v.Set("github.token", cfg.GitHub.Token)
	v.Set("github.owner", cfg.GitHub.Owner)
	v.Set("github.default_branch", cfg.GitHub.DefaultBranch)
	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_aws_bedrock", cfg.Anthropic.UseAWSBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("notify.max_retries", cfg.Notify.MaxRetries)
	v.Set("notify.base_delay", cfg.Notify.BaseDelay.String())
	v.Set("notify.timeout", cfg.Notify.Timeout.String())
	v.Set("logging.debug_log", cfg.Logging.DebugLog)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.shared_secret", "")

	// GitHub defaults
	v.SetDefault("github.token", "")
	v.SetDefault("github.owner", "")
	v.SetDefault("github.default_branch", "main")

	// Anthropic defaults; an empty model falls back to the generator's default.
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_aws_bedrock", false)

	// Notifier defaults: 5 total attempts with 1s/2s/4s/8s backoff, 30s per call.
	v.SetDefault("notify.max_retries", 4)
	v.SetDefault("notify.base_delay", "1s")
	v.SetDefault("notify.timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.debug_log", "")
}

// getUserConfigDir returns the XDG config directory for pagesmith.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "pagesmith")
	}

	// Fall back to ~/.config/pagesmith
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "pagesmith")
	}
	return filepath.Join(home, ".config", "pagesmith")
}

// findProjectConfig searches for .pagesmith.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".pagesmith.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 3000,
		},
		GitHub: GitHubConfig{
			DefaultBranch: "main",
		},
		Notify: NotifyConfig{
			MaxRetries: 4,
			BaseDelay:  time.Second,
			Timeout:    30 * time.Second,
		},
	}
}
