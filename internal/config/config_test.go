package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Server.Port)
	}

	if cfg.GitHub.DefaultBranch != "main" {
		t.Errorf("expected default branch 'main', got %q", cfg.GitHub.DefaultBranch)
	}

	if cfg.Notify.MaxRetries != 4 {
		t.Errorf("expected 4 max retries, got %d", cfg.Notify.MaxRetries)
	}

	if cfg.Notify.BaseDelay != time.Second {
		t.Errorf("expected base delay 1s, got %v", cfg.Notify.BaseDelay)
	}

	if cfg.Notify.Timeout != 30*time.Second {
		t.Errorf("expected notify timeout 30s, got %v", cfg.Notify.Timeout)
	}
}

func TestLoadFromPath(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 8080
  shared_secret: hush
github:
  token: ghp_test
  owner: octocat
  default_branch: trunk
anthropic:
  api_key: test-key
  model: claude-sonnet-4-20250514
notify:
  max_retries: 2
  base_delay: 500ms
  timeout: 10s
logging:
  debug_log: /tmp/pipeline.log
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}

	if cfg.Server.SharedSecret != "hush" {
		t.Errorf("expected shared secret 'hush', got %q", cfg.Server.SharedSecret)
	}

	if cfg.GitHub.Token != "ghp_test" {
		t.Errorf("expected token 'ghp_test', got %q", cfg.GitHub.Token)
	}

	if cfg.GitHub.Owner != "octocat" {
		t.Errorf("expected owner 'octocat', got %q", cfg.GitHub.Owner)
	}

	if cfg.GitHub.DefaultBranch != "trunk" {
		t.Errorf("expected branch 'trunk', got %q", cfg.GitHub.DefaultBranch)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Notify.MaxRetries != 2 {
		t.Errorf("expected 2 max retries, got %d", cfg.Notify.MaxRetries)
	}

	if cfg.Notify.BaseDelay != 500*time.Millisecond {
		t.Errorf("expected base delay 500ms, got %v", cfg.Notify.BaseDelay)
	}

	if cfg.Logging.DebugLog != "/tmp/pipeline.log" {
		t.Errorf("expected debug log path '/tmp/pipeline.log', got %q", cfg.Logging.DebugLog)
	}
}

func TestLoadFromPathDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Minimal config should still pick up notifier defaults.
	if err := os.WriteFile(configPath, []byte("server:\n  port: 9000\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}

	if cfg.Notify.MaxRetries != 4 {
		t.Errorf("expected default max retries 4, got %d", cfg.Notify.MaxRetries)
	}

	if cfg.GitHub.DefaultBranch != "main" {
		t.Errorf("expected default branch 'main', got %q", cfg.GitHub.DefaultBranch)
	}
}

func TestExpandEnvInCredentials(t *testing.T) {
	os.Setenv("PAGESMITH_TEST_TOKEN", "expanded-token")
	defer os.Unsetenv("PAGESMITH_TEST_TOKEN")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
github:
  token: ${PAGESMITH_TEST_TOKEN}
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.GitHub.Token != "expanded-token" {
		t.Errorf("expected expanded token, got %q", cfg.GitHub.Token)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "all credentials present",
			mutate: func(c *Config) {
				c.Server.SharedSecret = "s"
				c.GitHub.Token = "t"
				c.GitHub.Owner = "o"
				c.Anthropic.APIKey = "k"
			},
		},
		{
			name: "missing shared secret",
			mutate: func(c *Config) {
				c.GitHub.Token = "t"
				c.GitHub.Owner = "o"
				c.Anthropic.APIKey = "k"
			},
			wantErr: "SHARED_SECRET",
		},
		{
			name: "missing github credentials",
			mutate: func(c *Config) {
				c.Server.SharedSecret = "s"
				c.Anthropic.APIKey = "k"
			},
			wantErr: "GITHUB_PAT",
		},
		{
			name: "missing api key without bedrock",
			mutate: func(c *Config) {
				c.Server.SharedSecret = "s"
				c.GitHub.Token = "t"
				c.GitHub.Owner = "o"
			},
			wantErr: "ANTHROPIC_API_KEY",
		},
		{
			name: "bedrock does not require api key",
			mutate: func(c *Config) {
				c.Server.SharedSecret = "s"
				c.GitHub.Token = "t"
				c.GitHub.Owner = "o"
				c.Anthropic.UseAWSBedrock = true
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
