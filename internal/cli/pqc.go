// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// pqcCmd groups post-quantum introspection commands.
var pqcCmd = &cobra.Command{
	Use:   "pqc",
	Short: "Inspect post-quantum toolchain support",
}

// pqcStatusCmd reports provider and algorithm availability.
var pqcStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show post-quantum provider status",
	Long: `Query the installed toolchain for its provider modules and report
whether oqsprovider is loaded, along with the allowlist-filtered signature
and KEM families it offers.`,
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)

		cfg, err := loadConfig()
		if err != nil {
			handleError(err)
			return
		}
		service := newLocalService(cfg)

		status, err := service.QueryPQCStatus(context.Background())
		if err != nil {
			handleError(err)
			return
		}
		if err := printer.PrintPQCStatus(status); err != nil {
			handleError(err)
		}
	},
}

func init() {
	pqcCmd.AddCommand(pqcStatusCmd)
}
