// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/health"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/logging"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/metrics"
)

// Server represents the REST API server.
type Server struct {
	server   *http.Server
	handlers *HandlerContext
	host     string
	port     int
	logger   *logging.Logger
	metrics  bool
}

// Config holds the REST server configuration.
type Config struct {
	// Host is the address to bind (default: all interfaces)
	Host string

	// Port is the HTTP port to listen on (default: 8400)
	Port int

	// Executor dispatches operations (required)
	Executor Executor

	// Version is the service version string
	Version string

	// Logger is the service logger (optional, defaults to text/info)
	Logger *logging.Logger

	// MetricsEnabled mounts the Prometheus endpoint at /metrics
	MetricsEnabled bool

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration
}

// NewServer creates a new REST API server.
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Executor == nil {
		return nil, fmt.Errorf("executor is required")
	}

	if cfg.Port == 0 {
		cfg.Port = 8400
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// Key generation can legitimately take tens of seconds.
		cfg.WriteTimeout = 90 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}

	log := cfg.Logger
	if log == nil {
		log = logging.DefaultLogger()
	}

	server := &Server{
		handlers: NewHandlerContext(cfg.Executor, cfg.Version),
		host:     cfg.Host,
		port:     cfg.Port,
		logger:   log,
		metrics:  cfg.MetricsEnabled,
	}

	router := server.setupRouter()

	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return server, nil
}

// setupRouter configures the chi router with all routes and middleware.
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(s.RecoveryMiddleware())
	r.Use(s.CorrelationMiddleware()) // correlation ID before logging
	r.Use(s.LoggingMiddleware())
	r.Use(metrics.HTTPMiddleware)
	r.Use(CORSMiddleware)

	r.Post("/execute", s.handlers.ExecuteHandler)
	r.Get("/operations", s.handlers.ListOperationsHandler)
	r.Get("/ciphers", s.handlers.ListCiphersHandler)

	r.Get("/health", s.handlers.HealthHandler)
	r.Head("/health", s.handlers.HealthHandler)
	r.Get("/health/live", s.handlers.LivenessHandler)
	r.Get("/health/ready", s.handlers.ReadinessHandler)
	r.Get("/health/startup", s.handlers.StartupHandler)
	r.Get("/pqc/health", s.handlers.PQCHealthHandler)

	if s.metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// Start starts the REST API server. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		"host", s.host,
		"port", s.port,
		"metrics", s.metrics)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the REST API server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Errorf("failed to shutdown server: %v", err)
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Handler returns the configured router, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// SetHealthChecker sets the health checker for the server.
func (s *Server) SetHealthChecker(checker *health.Checker) {
	s.handlers.SetHealthChecker(checker)
}
