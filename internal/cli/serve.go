// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package cli

import (
	"github.com/spf13/cobra"

	"github.com/MoldoAndr/vitruvian-cipher/internal/server"
)

// serveCmd starts the HTTP service.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the vitruvian-cipher HTTP service",
	Long: `Start the HTTP service exposing the operation catalogue, health
probes and metrics. The service runs until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			handleError(err)
			return
		}

		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		if host != "" {
			cfg.Server.Host = host
		}
		if port != 0 {
			cfg.Server.Port = port
		}

		srv, err := server.New(cfg)
		if err != nil {
			handleError(err)
			return
		}

		if err := srv.Start(); err != nil {
			handleError(err)
			return
		}

		shutdownCtx := server.SetupSignalHandler()
		<-shutdownCtx.Done()

		if err := srv.Shutdown(); err != nil {
			handleError(err)
		}
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen address (overrides config)")
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
}
