// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package cli

import (
	"fmt"

	"github.com/MoldoAndr/vitruvian-cipher/internal/config"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/logging"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/openssl"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/operations"
)

// loadConfig resolves the effective configuration for a CLI invocation. The
// --show-secrets flag overrides the file setting, nothing else does.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if showSecrets {
		cfg.Sandbox.ShowSecrets = true
	}
	return cfg, nil
}

// newLocalService builds an operations service the same way the server does,
// minus listeners and collectors. CLI commands run operations in-process.
func newLocalService(cfg *config.Config) *operations.Service {
	cat := catalog.Default().WithLimits(catalog.Limits{
		MaxInputSize:   cfg.Limits.MaxInputBytes,
		MaxOutputSize:  cfg.Limits.MaxOutputBytes,
		MaxRandomBytes: cfg.Limits.MaxRandomBytes,
	})

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger := logging.New(level, cfg.Logging.Format)

	sandboxCfg := openssl.DefaultConfig()
	sandboxCfg.Timeout = cfg.Sandbox.Timeout
	sandboxCfg.OutputCap = cfg.Limits.MaxOutputBytes
	sandboxCfg.ShowSecrets = cfg.Sandbox.ShowSecrets
	sandboxCfg.Logger = logger.With("component", "sandbox")
	if len(cfg.Sandbox.EnvPassthrough) > 0 {
		sandboxCfg.EnvPassthrough = cfg.Sandbox.EnvPassthrough
	}

	return operations.New(cat,
		operations.WithLogger(logger.With("component", "operations")),
		operations.WithSandboxConfig(sandboxCfg),
		operations.WithKeygenTimeout(cfg.Sandbox.KeygenTimeout),
	)
}
