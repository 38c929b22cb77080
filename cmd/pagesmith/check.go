package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/pagesmith/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the service is ready to run",
	Long: `Check that every credential and setting required to serve is present.

Reports each requirement with its source so a missing value can be fixed
either in the config file or the environment. Exits non-zero if any
required value is missing.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Println("Checking pagesmith configuration...")
	fmt.Println()

	ok := true

	if _, err := config.ResolveCredential(cfg, config.CredentialSharedSecret); err == nil {
		printStatus("✓", fmt.Sprintf("Shared secret is set (%s)",
			config.CredentialSourceOf(cfg, config.CredentialSharedSecret)), color.FgGreen)
	} else {
		printStatus("✗", "Shared secret missing (set SHARED_SECRET or server.shared_secret)", color.FgRed)
		ok = false
	}

	if token, err := config.ResolveCredential(cfg, config.CredentialGitHubToken); err == nil {
		printStatus("✓", fmt.Sprintf("GitHub token: %s (%s)",
			config.MaskCredential(token),
			config.CredentialSourceOf(cfg, config.CredentialGitHubToken)), color.FgGreen)
	} else {
		printStatus("✗", "GitHub token missing (set GITHUB_PAT or github.token)", color.FgRed)
		ok = false
	}

	if cfg.GitHub.Owner != "" {
		printStatus("✓", fmt.Sprintf("GitHub owner: %s", cfg.GitHub.Owner), color.FgGreen)
	} else {
		printStatus("✗", "GitHub owner missing (set GITHUB_USERNAME or github.owner)", color.FgRed)
		ok = false
	}

	if cfg.Anthropic.UseAWSBedrock {
		printStatus("✓", "Synthesis via AWS Bedrock (credentials resolved from AWS config)", color.FgGreen)
		if cfg.Anthropic.AWSRegion == "" {
			printStatus("⚠", "No AWS region configured; the default chain will decide", color.FgYellow)
		}
	} else if key, err := config.ResolveCredential(cfg, config.CredentialAnthropicKey); err == nil {
		if err := config.ValidateAnthropicKey(key); err != nil {
			printStatus("⚠", fmt.Sprintf("Anthropic API key looks malformed: %v", err), color.FgYellow)
		} else {
			printStatus("✓", fmt.Sprintf("Anthropic API key: %s (%s)",
				config.MaskCredential(key),
				config.CredentialSourceOf(cfg, config.CredentialAnthropicKey)), color.FgGreen)
		}
	} else {
		printStatus("✗", "Anthropic API key missing (set ANTHROPIC_API_KEY or anthropic.api_key)", color.FgRed)
		ok = false
	}

	if cfg.Anthropic.Model != "" {
		printStatus("✓", fmt.Sprintf("Model: %s", cfg.Anthropic.Model), color.FgGreen)
	} else {
		printStatus("⚠", "No model configured; using the built-in default", color.FgYellow)
	}

	fmt.Println()
	fmt.Printf("User config: %s\n", config.GetUserConfigPath())
	if project := config.GetProjectConfigPath(); project != "" {
		fmt.Printf("Project config: %s\n", project)
	}

	if !ok {
		fmt.Println()
		return fmt.Errorf("configuration incomplete")
	}

	fmt.Printf("\n%s Ready to serve on port %d\n", color.GreenString("✓"), cfg.Server.Port)
	return nil
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
