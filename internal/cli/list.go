// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
)

// operationsCmd lists the operation catalogue.
var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "List the supported operations",
	Long:  `List every operation in the catalogue with its parameters.`,
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)
		if err := printer.PrintOperations(catalog.Default().Operations()); err != nil {
			handleError(err)
		}
	},
}

// ciphersCmd lists the algorithm allowlists.
var ciphersCmd = &cobra.Command{
	Use:   "ciphers",
	Short: "List the allowlisted algorithms",
	Long: `List the symmetric ciphers, digest algorithms, RSA key sizes, EC
curves and post-quantum families the service is willing to use.`,
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)
		if err := printer.PrintCiphers(catalog.Default()); err != nil {
			handleError(err)
		}
	},
}
