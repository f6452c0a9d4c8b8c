// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

// Package cli implements the vitruvian command-line interface. Every command
// drives the same operations service the HTTP API uses; nothing here touches
// the toolchain directly.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile   string
	outputFormat string
	verbose      bool
	showSecrets  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vitruvian",
	Short: "vitruvian-cipher - cryptographic operations through the OpenSSL CLI",
	Long: `vitruvian-cipher executes cryptographic operations by driving the
OpenSSL command-line toolchain inside isolated sandboxes. Untrusted
parameters are validated against strict allowlists and never touch a
shell.

Operation families:
  - encoding:   base64 and hex, via openssl base64 and xxd
  - random:     CSPRNG bytes in raw, hex and base64 form
  - hashing:    digests and HMAC via openssl dgst
  - symmetric:  AES encrypt-then-MAC via openssl enc
  - asymmetric: RSA keygen, PSS-free sign/verify, OAEP via openssl pkeyutl
  - pqc:        ML-DSA and Falcon signatures via the oqsprovider module`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $VITRUVIAN_CONFIG or built-in defaults)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text",
		"output format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVar(&showSecrets, "show-secrets", false,
		"render secret arguments in executed commands (local use only)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(executeCmd)
	rootCmd.AddCommand(operationsCmd)
	rootCmd.AddCommand(ciphersCmd)
	rootCmd.AddCommand(pqcCmd)
}

// handleError prints an error and exits with code 1
func handleError(err error) {
	printer := NewPrinter(outputFormat, os.Stderr)
	_ = printer.PrintError(err)
	os.Exit(1)
}

// printVerbose prints a message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}
