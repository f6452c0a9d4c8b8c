// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/MoldoAndr/vitruvian-cipher/internal/config"
	"github.com/MoldoAndr/vitruvian-cipher/internal/server"
)

var (
	// Version information (set during build)
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("vitruvian-cipher server\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Git Commit: %s\n", commit)
		fmt.Printf("  Built:      %s\n", date)
		os.Exit(0)
	}

	slog.Info("Starting vitruvian-cipher server",
		"config", *configPath,
		"version", version)

	// Load configuration; an empty path falls back to VITRUVIAN_CONFIG,
	// then to built-in defaults.
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Configuration loaded successfully",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"metrics", cfg.Metrics.Enabled)

	srv, err := server.New(cfg)
	if err != nil {
		slog.Error("Failed to create server", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup signal handler for graceful shutdown
	shutdownCtx := server.SetupSignalHandler()

	if err := srv.Start(); err != nil {
		slog.Error("Failed to start server", slog.Any("error", err))
		os.Exit(1)
	}

	<-shutdownCtx.Done()
	slog.Info("Shutdown signal received")

	if err := srv.Shutdown(); err != nil {
		slog.Error("Error during server shutdown", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
