// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

// Package config loads the service configuration from YAML with environment
// variable overrides. Defaults are safe to run with no file at all.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
)

// ConfigPathEnv names the environment variable overriding the config path.
const ConfigPathEnv = "VITRUVIAN_CONFIG"

// Config represents the complete service configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Limits  LimitsConfig  `yaml:"limits"`
	Sandbox SandboxConfig `yaml:"sandbox"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig contains listener settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LimitsConfig bounds request and response sizes
type LimitsConfig struct {
	MaxInputBytes  int `yaml:"max_input_bytes"`
	MaxOutputBytes int `yaml:"max_output_bytes"`
	MaxRandomBytes int `yaml:"max_random_bytes"`
}

// SandboxConfig controls subprocess execution policy
type SandboxConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	KeygenTimeout time.Duration `yaml:"keygen_timeout"`
	// ShowSecrets switches response command text to the unredacted
	// rendering. Debugging only.
	ShowSecrets bool `yaml:"show_secrets"`
	// EnvPassthrough lists host environment variables forwarded to child
	// processes. Empty means the built-in provider-locating set.
	EnvPassthrough []string `yaml:"env_passthrough"`
	// MaxConcurrent bounds in-flight subprocess requests; 0 is unlimited.
	MaxConcurrent int `yaml:"max_concurrent"`
}

// MetricsConfig controls the metrics endpoint
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8400,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Limits: LimitsConfig{
			MaxInputBytes:  catalog.MaxInputSize,
			MaxOutputBytes: catalog.MaxOutputSize,
			MaxRandomBytes: catalog.MaxRandomBytes,
		},
		Sandbox: SandboxConfig{
			Timeout:       catalog.ExecutionTimeout,
			KeygenTimeout: catalog.KeygenTimeout,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from a YAML file and applies environment variable
// overrides. An empty path falls back to the VITRUVIAN_CONFIG environment
// variable, then to defaults with no file read at all.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		// #nosec G304 - Config file path is provided by the operator
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("VITRUVIAN_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("VITRUVIAN_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			log.Printf("Warning: invalid VITRUVIAN_PORT value %q, using default %d: %v",
				portStr, cfg.Server.Port, err)
		} else if port < 1 || port > 65535 {
			log.Printf("Warning: invalid VITRUVIAN_PORT value %q (out of range 1-65535), using default %d",
				portStr, cfg.Server.Port)
		} else {
			cfg.Server.Port = port
		}
	}
	if level := os.Getenv("VITRUVIAN_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("VITRUVIAN_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Limits.MaxInputBytes <= 0 {
		return fmt.Errorf("max_input_bytes must be positive")
	}
	if c.Limits.MaxOutputBytes <= 0 {
		return fmt.Errorf("max_output_bytes must be positive")
	}
	if c.Limits.MaxRandomBytes <= 0 {
		return fmt.Errorf("max_random_bytes must be positive")
	}
	if c.Sandbox.Timeout <= 0 {
		return fmt.Errorf("sandbox timeout must be positive")
	}
	if c.Sandbox.KeygenTimeout < c.Sandbox.Timeout {
		return fmt.Errorf("keygen_timeout must be at least the sandbox timeout")
	}
	if c.Sandbox.MaxConcurrent < 0 {
		return fmt.Errorf("max_concurrent cannot be negative")
	}
	return nil
}
