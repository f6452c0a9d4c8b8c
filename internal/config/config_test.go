// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
)

// TestLoad_Success tests successful loading of a valid config file
func TestLoad_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  host: "localhost"
  port: 9400

logging:
  level: "debug"
  format: "json"

limits:
  max_input_bytes: 2048
  max_output_bytes: 4096
  max_random_bytes: 128

sandbox:
  timeout: 10s
  keygen_timeout: 20s
  show_secrets: false
  max_concurrent: 8

metrics:
  enabled: false
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Host != "localhost" {
		t.Errorf("Server.Host = %q, want localhost", cfg.Server.Host)
	}
	if cfg.Server.Port != 9400 {
		t.Errorf("Server.Port = %d, want 9400", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Limits.MaxInputBytes != 2048 {
		t.Errorf("Limits.MaxInputBytes = %d, want 2048", cfg.Limits.MaxInputBytes)
	}
	if cfg.Sandbox.Timeout != 10*time.Second {
		t.Errorf("Sandbox.Timeout = %v, want 10s", cfg.Sandbox.Timeout)
	}
	if cfg.Sandbox.MaxConcurrent != 8 {
		t.Errorf("Sandbox.MaxConcurrent = %d, want 8", cfg.Sandbox.MaxConcurrent)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
}

// TestLoad_NoFile tests that defaults apply when no path is given
func TestLoad_NoFile(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 8400 {
		t.Errorf("Server.Port = %d, want 8400", cfg.Server.Port)
	}
	if cfg.Limits.MaxInputBytes != catalog.MaxInputSize {
		t.Errorf("Limits.MaxInputBytes = %d, want %d", cfg.Limits.MaxInputBytes, catalog.MaxInputSize)
	}
	if cfg.Sandbox.Timeout != catalog.ExecutionTimeout {
		t.Errorf("Sandbox.Timeout = %v, want %v", cfg.Sandbox.Timeout, catalog.ExecutionTimeout)
	}
	if cfg.Sandbox.ShowSecrets {
		t.Error("ShowSecrets must default to false")
	}
	if cfg.Sandbox.MaxConcurrent != 0 {
		t.Errorf("MaxConcurrent = %d, want 0 (unlimited)", cfg.Sandbox.MaxConcurrent)
	}
}

// TestLoad_MissingFile tests that an explicit missing path is an error
func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("Load() should fail for a missing explicit path")
	}
}

// TestLoad_InvalidYAML tests malformed config rejection
func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("server: [not a map"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("Load() should fail for malformed YAML")
	}
}

// TestLoad_EnvOverrides tests environment variable overrides
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	t.Setenv("VITRUVIAN_HOST", "127.0.0.1")
	t.Setenv("VITRUVIAN_PORT", "9999")
	t.Setenv("VITRUVIAN_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

// TestLoad_InvalidEnvPort tests that a bad port override keeps the default
func TestLoad_InvalidEnvPort(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	t.Setenv("VITRUVIAN_PORT", "not-a-port")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 8400 {
		t.Errorf("Server.Port = %d, want default 8400", cfg.Server.Port)
	}
}

// TestValidate tests validation failures
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too low", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"zero input limit", func(c *Config) { c.Limits.MaxInputBytes = 0 }},
		{"zero output limit", func(c *Config) { c.Limits.MaxOutputBytes = 0 }},
		{"zero random limit", func(c *Config) { c.Limits.MaxRandomBytes = 0 }},
		{"zero timeout", func(c *Config) { c.Sandbox.Timeout = 0 }},
		{"keygen below timeout", func(c *Config) { c.Sandbox.KeygenTimeout = c.Sandbox.Timeout - time.Second }},
		{"negative concurrency", func(c *Config) { c.Sandbox.MaxConcurrent = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should have failed")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}
