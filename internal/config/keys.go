package config

import (
	"errors"
	"os"
	"strings"
)

// ErrNoCredential is returned when a required credential is not configured.
var ErrNoCredential = errors.New("credential not configured")

// Credential names the secrets the service depends on.
type Credential string

const (
	CredentialSharedSecret Credential = "shared secret"
	CredentialGitHubToken  Credential = "github token"
	CredentialAnthropicKey Credential = "anthropic api key"
)

// CredentialSource reports where a credential was loaded from.
type CredentialSource string

const (
	SourceEnv    CredentialSource = "environment"
	SourceConfig CredentialSource = "config_file"
	SourceNone   CredentialSource = "none"
)

// envVarFor maps each credential to its environment variable.
var envVarFor = map[Credential]string{
	CredentialSharedSecret: "SHARED_SECRET",
	CredentialGitHubToken:  "GITHUB_PAT",
	CredentialAnthropicKey: "ANTHROPIC_API_KEY",
}

// ResolveCredential returns a credential's value, preferring the environment
// over the config file. An unresolved ${VAR} reference counts as unset.
func ResolveCredential(cfg *Config, cred Credential) (string, error) {
	if value := os.Getenv(envVarFor[cred]); value != "" {
		return value, nil
	}

	if value := configValueFor(cfg, cred); value != "" {
		expanded := os.ExpandEnv(value)
		if expanded != "" && !strings.HasPrefix(expanded, "${") {
			return expanded, nil
		}
	}

	return "", ErrNoCredential
}

// CredentialSourceOf reports where a credential would be resolved from.
func CredentialSourceOf(cfg *Config, cred Credential) CredentialSource {
	if os.Getenv(envVarFor[cred]) != "" {
		return SourceEnv
	}

	if value := configValueFor(cfg, cred); value != "" {
		expanded := os.ExpandEnv(value)
		if expanded != "" && !strings.HasPrefix(expanded, "${") {
			return SourceConfig
		}
	}

	return SourceNone
}

// ValidateAnthropicKey performs basic format validation on an Anthropic API
// key without contacting the API.
func ValidateAnthropicKey(key string) error {
	if key == "" {
		return ErrNoCredential
	}

	// Anthropic API keys start with "sk-ant-"
	if !strings.HasPrefix(key, "sk-ant-") {
		return errors.New("invalid API key format: expected 'sk-ant-' prefix")
	}

	if len(key) < 20 {
		return errors.New("invalid API key format: key too short")
	}

	return nil
}

// MaskCredential returns a display-safe version of a secret, showing the
// first 7 and last 4 characters of long values.
func MaskCredential(value string) string {
	if value == "" {
		return "(not set)"
	}

	if len(value) <= 15 {
		return "***"
	}

	return value[:7] + "..." + value[len(value)-4:]
}

func configValueFor(cfg *Config, cred Credential) string {
	if cfg == nil {
		return ""
	}

	switch cred {
	case CredentialSharedSecret:
		return cfg.Server.SharedSecret
	case CredentialGitHubToken:
		return cfg.GitHub.Token
	case CredentialAnthropicKey:
		return cfg.Anthropic.APIKey
	}
	return ""
}
