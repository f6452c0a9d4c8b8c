// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

// Package server wires configuration, the operations service, health checks
// and metrics into one process and manages its lifecycle.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"
	"time"

	"github.com/MoldoAndr/vitruvian-cipher/internal/config"
	"github.com/MoldoAndr/vitruvian-cipher/internal/rest"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/health"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/logging"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/metrics"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/openssl"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/operations"
)

// Server runs the cryptographic execution service.
type Server struct {
	config  *config.Config
	logger  *logging.Logger
	service *operations.Service

	restServer *rest.Server

	healthChecker    *health.Checker
	metricsCollector *metrics.ResourceCollector

	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	shutdownCh chan struct{}
}

// New creates a server instance from validated configuration.
func New(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		config:     cfg,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		shutdownCh: make(chan struct{}),
	}

	s.initializeService()
	s.initializeHealth()

	return s, nil
}

// initializeService builds the operations service from configuration.
func (s *Server) initializeService() {
	cat := catalog.Default().WithLimits(catalog.Limits{
		MaxInputSize:   s.config.Limits.MaxInputBytes,
		MaxOutputSize:  s.config.Limits.MaxOutputBytes,
		MaxRandomBytes: s.config.Limits.MaxRandomBytes,
	})

	sandboxCfg := openssl.DefaultConfig()
	sandboxCfg.Timeout = s.config.Sandbox.Timeout
	sandboxCfg.OutputCap = s.config.Limits.MaxOutputBytes
	sandboxCfg.ShowSecrets = s.config.Sandbox.ShowSecrets
	sandboxCfg.Logger = s.logger.With("component", "sandbox")
	if len(s.config.Sandbox.EnvPassthrough) > 0 {
		sandboxCfg.EnvPassthrough = s.config.Sandbox.EnvPassthrough
	}

	s.service = operations.New(cat,
		operations.WithLogger(s.logger.With("component", "operations")),
		operations.WithSandboxConfig(sandboxCfg),
		operations.WithKeygenTimeout(s.config.Sandbox.KeygenTimeout),
		operations.WithMaxConcurrent(s.config.Sandbox.MaxConcurrent),
	)
}

// initializeHealth registers the toolchain readiness checks.
func (s *Server) initializeHealth() {
	s.healthChecker = health.NewChecker()

	// Toolchain check: the service is not ready if `openssl version` cannot
	// complete within a short deadline.
	s.healthChecker.RegisterCheck("toolchain", func(ctx context.Context) health.CheckResult {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		version, err := s.service.OpenSSLVersion(checkCtx)
		if err != nil {
			return health.CheckResult{
				Name:    "toolchain",
				Status:  health.StatusUnhealthy,
				Message: "toolchain is not responding",
				Error:   err.Error(),
			}
		}
		return health.CheckResult{
			Name:    "toolchain",
			Status:  health.StatusHealthy,
			Message: version,
		}
	})

	// Provider check: a missing post-quantum provider degrades the service
	// but classical operations keep working.
	s.healthChecker.RegisterCheck("pqc_provider", func(ctx context.Context) health.CheckResult {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		status, err := s.service.QueryPQCStatus(checkCtx)
		if err != nil {
			return health.CheckResult{
				Name:    "pqc_provider",
				Status:  health.StatusDegraded,
				Message: "provider introspection failed",
				Error:   err.Error(),
			}
		}
		metrics.SetPQCProviderLoaded(status.ProviderLoaded)
		if !status.ProviderLoaded {
			return health.CheckResult{
				Name:    "pqc_provider",
				Status:  health.StatusDegraded,
				Message: "oqsprovider not loaded; post-quantum operations unavailable",
			}
		}
		return health.CheckResult{
			Name:    "pqc_provider",
			Status:  health.StatusHealthy,
			Message: fmt.Sprintf("oqsprovider loaded (%d signature algorithms)", len(status.Signatures)),
		}
	})
}

// Service returns the operations service, exposed for the CLI.
func (s *Server) Service() *operations.Service {
	return s.service
}

// Start starts the HTTP listener and background collectors. It returns once
// startup is complete; use WaitForShutdown to block.
func (s *Server) Start() error {
	s.logger.Info("starting vitruvian-cipher server", "version", getBuildVersion())

	if s.config.Metrics.Enabled {
		metrics.Enable()
		s.metricsCollector = metrics.StartResourceCollector(s.ctx, 30*time.Second)
	} else {
		metrics.Disable()
	}

	restServer, err := rest.NewServer(&rest.Config{
		Host:           s.config.Server.Host,
		Port:           s.config.Server.Port,
		Executor:       s.service,
		Version:        getBuildVersion(),
		Logger:         s.logger.With("component", "rest"),
		MetricsEnabled: s.config.Metrics.Enabled,
	})
	if err != nil {
		return fmt.Errorf("failed to create REST server: %w", err)
	}
	restServer.SetHealthChecker(s.healthChecker)
	s.restServer = restServer

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := restServer.Start(); err != nil {
			s.logger.Errorf("REST server error: %v", err)
		}
	}()

	// Mark service as fully started for startup probes.
	s.healthChecker.MarkStarted()
	s.logger.Info("server started", "port", s.config.Server.Port)

	return nil
}

// Shutdown gracefully stops the listener and background collectors.
func (s *Server) Shutdown() error {
	s.logger.Info("shutting down server")

	if s.metricsCollector != nil {
		s.metricsCollector.Stop()
	}

	s.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.restServer != nil {
		if err := s.restServer.Stop(shutdownCtx); err != nil {
			s.logger.Errorf("error shutting down REST server: %v", err)
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("all listeners stopped")
	case <-shutdownCtx.Done():
		s.logger.Warn("shutdown timeout exceeded, forcing stop")
	}

	close(s.shutdownCh)
	s.logger.Info("server shutdown complete")
	return nil
}

// WaitForShutdown blocks until the server is shut down.
func (s *Server) WaitForShutdown() {
	<-s.shutdownCh
}

// RESTServer returns the REST server instance.
func (s *Server) RESTServer() *rest.Server {
	return s.restServer
}

// HealthChecker returns the server's health checker.
func (s *Server) HealthChecker() *health.Checker {
	return s.healthChecker
}

// SetupSignalHandler returns a context cancelled on SIGINT or SIGTERM.
func SetupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signalCh
		cancel()
	}()

	return ctx
}

// getBuildVersion retrieves the version from build information.
func getBuildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.version" && setting.Value != "" && setting.Value != "devel" {
			return setting.Value
		}
		if setting.Key == "vcs.revision" {
			if len(setting.Value) >= 7 {
				return setting.Value[:7]
			}
			return setting.Value
		}
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
