// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package openssl

import (
	"context"
	"strings"
)

// Version returns the toolchain version banner.
func Version(ctx context.Context, sb *Sandbox) (string, error) {
	result, err := sb.Run(ctx, OpenSSL().Arg("version"))
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", &ExecError{
			Command:  result.Redacted,
			ExitCode: result.ExitCode,
			Stderr:   string(result.Stderr),
		}
	}
	return strings.TrimSpace(string(result.Stdout)), nil
}

// ListProviders returns the names of the loaded provider modules. The listing
// is run with post-quantum provider activation so oqsprovider shows up when
// its module is installed.
func ListProviders(ctx context.Context, sb *Sandbox) ([]string, error) {
	result, err := sb.Run(ctx, OpenSSL().Arg("list").Arg("-providers").WithProviders())
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, &ExecError{
			Command:  result.Redacted,
			ExitCode: result.ExitCode,
			Stderr:   string(result.Stderr),
		}
	}

	// Provider names sit at the first indentation level; deeper lines are
	// per-provider attributes.
	var providers []string
	for _, line := range strings.Split(string(result.Stdout), "\n") {
		if strings.HasPrefix(line, "  ") && !strings.HasPrefix(line, "    ") {
			name := strings.TrimSpace(line)
			if name != "" && !strings.HasSuffix(name, ":") {
				providers = append(providers, name)
			}
		}
	}
	return providers, nil
}

// ListSignatureAlgorithms returns the signature algorithm names the toolchain
// reports with post-quantum providers active.
func ListSignatureAlgorithms(ctx context.Context, sb *Sandbox) ([]string, error) {
	return listAlgorithms(ctx, sb, "-signature-algorithms")
}

// ListKemAlgorithms returns the KEM algorithm names the toolchain reports
// with post-quantum providers active.
func ListKemAlgorithms(ctx context.Context, sb *Sandbox) ([]string, error) {
	return listAlgorithms(ctx, sb, "-kem-algorithms")
}

func listAlgorithms(ctx context.Context, sb *Sandbox, flag string) ([]string, error) {
	result, err := sb.Run(ctx, OpenSSL().Arg("list").Arg(flag).WithProviders())
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, &ExecError{
			Command:  result.Redacted,
			ExitCode: result.ExitCode,
			Stderr:   string(result.Stderr),
		}
	}

	var algorithms []string
	for _, line := range strings.Split(string(result.Stdout), "\n") {
		if name, ok := parseListName(line); ok {
			algorithms = append(algorithms, name)
		}
	}
	return algorithms, nil
}

// parseListName extracts an algorithm name from one line of `openssl list`
// output. Entries look like "  mldsa44 @ oqsprovider"; section headers end
// with a colon and description blocks open with a brace.
func parseListName(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasSuffix(trimmed, ":") {
		return "", false
	}
	name := strings.TrimSpace(strings.SplitN(trimmed, "@", 2)[0])
	if name == "" || strings.HasPrefix(name, "{") {
		return "", false
	}
	return name, true
}
