// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// executeCmd runs one catalogue operation in-process.
var executeCmd = &cobra.Command{
	Use:   "execute <operation>",
	Short: "Run a cryptographic operation",
	Long: `Run one operation from the catalogue locally, without a server.

Parameters are given as repeated --param name=value flags or as a single
JSON object via --json. Integer-typed parameters such as 'bits' and
'length' are coerced from their textual form.`,
	Example: `  vitruvian execute hash --param data=hello --param algorithm=sha256
  vitruvian execute rsa_keygen --param bits=2048
  vitruvian execute base64_encode --json '{"data": "Hello, World!"}'`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		operation := args[0]
		printer := NewPrinter(outputFormat, os.Stdout)

		pairs, _ := cmd.Flags().GetStringArray("param")
		rawJSON, _ := cmd.Flags().GetString("json")

		params, err := buildParams(pairs, rawJSON)
		if err != nil {
			handleError(err)
			return
		}

		cfg, err := loadConfig()
		if err != nil {
			handleError(err)
			return
		}
		service := newLocalService(cfg)

		printVerbose("Executing %s with %d parameters", operation, len(params))

		resp, err := service.Execute(context.Background(), operation, params)
		if err != nil {
			handleError(err)
			return
		}
		if err := printer.PrintResponse(resp); err != nil {
			handleError(err)
		}
	},
}

func init() {
	executeCmd.Flags().StringArrayP("param", "p", nil,
		"operation parameter as name=value (repeatable)")
	executeCmd.Flags().String("json", "",
		"operation parameters as one JSON object")
}

// integerParams names the catalogue parameters with integer type; everything
// else stays a string even when it looks numeric.
var integerParams = map[string]bool{
	"bits":   true,
	"length": true,
}

// buildParams merges --param pairs over a --json object.
func buildParams(pairs []string, rawJSON string) (map[string]any, error) {
	params := map[string]any{}

	if rawJSON != "" {
		if err := json.Unmarshal([]byte(rawJSON), &params); err != nil {
			return nil, fmt.Errorf("invalid --json object: %w", err)
		}
	}

	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid --param %q, expected name=value", pair)
		}
		if integerParams[name] {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("parameter %s expects an integer: %w", name, err)
			}
			params[name] = n
		} else {
			params[name] = value
		}
	}

	return params, nil
}
