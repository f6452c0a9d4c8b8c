// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/operations"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
	default:
		_, werr := fmt.Fprintf(p.writer, "Error: %v\n", err)
		return werr
	}
}

// PrintResponse prints an operation response envelope.
func (p *Printer) PrintResponse(resp *operations.Response) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(resp)
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Operation: %s\n", resp.Operation)
		fmt.Fprintf(p.writer, "Command:   %s\n", resp.Command.Executed)

		raw, err := json.MarshalIndent(resp.Result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(p.writer, "Result:\n%s\n", raw)
		fmt.Fprintf(p.writer, "Took:      %.2fms (request %s)\n",
			resp.Metadata.ExecutionTimeMS, resp.Metadata.RequestID)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintOperations prints the operation catalogue.
func (p *Printer) PrintOperations(ops []catalog.Operation) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"operations": ops,
			"count":      len(ops),
		})
	case OutputFormatText:
		var category catalog.Category
		for _, op := range ops {
			if op.Category != category {
				category = op.Category
				fmt.Fprintf(p.writer, "\n%s:\n", category)
			}
			fmt.Fprintf(p.writer, "  %-18s %s\n", op.Name, op.Description)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintCiphers prints the algorithm allowlists.
func (p *Printer) PrintCiphers(cat *catalog.Config) error {
	switch p.format {
	case OutputFormatJSON:
		ciphers := make([]map[string]interface{}, 0)
		for _, cipher := range cat.Ciphers() {
			spec, ok := cat.CipherSpec(cipher)
			if !ok {
				continue
			}
			ciphers = append(ciphers, map[string]interface{}{
				"name":      cipher.String(),
				"key_bytes": spec.KeySize,
				"iv_bytes":  spec.IVSize,
				"mode":      spec.Mode,
				"legacy":    spec.Legacy,
			})
		}
		return p.printJSON(map[string]interface{}{
			"ciphers":        ciphers,
			"hashes":         cat.HashAlgorithms(),
			"rsa_key_sizes":  cat.RSAKeySizes(),
			"ec_curves":      cat.ECCurves(),
			"pqc_signatures": cat.PQCSignatureAlgorithms(),
			"pqc_kems":       cat.PQCKEMAlgorithms(),
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, "Ciphers:")
		for _, cipher := range cat.Ciphers() {
			spec, ok := cat.CipherSpec(cipher)
			if !ok {
				continue
			}
			legacy := ""
			if spec.Legacy {
				legacy = " (legacy)"
			}
			fmt.Fprintf(p.writer, "  %-14s key=%d iv=%d%s\n",
				cipher, spec.KeySize, spec.IVSize, legacy)
		}

		fmt.Fprintln(p.writer, "Hashes:")
		for _, algo := range cat.HashAlgorithms() {
			fmt.Fprintf(p.writer, "  %s\n", algo)
		}

		fmt.Fprintf(p.writer, "RSA key sizes: %v\n", cat.RSAKeySizes())
		fmt.Fprintf(p.writer, "EC curves:     %v\n", cat.ECCurves())

		fmt.Fprintln(p.writer, "PQC signatures:")
		for _, algo := range cat.PQCSignatureAlgorithms() {
			fmt.Fprintf(p.writer, "  %s\n", algo)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintPQCStatus prints the post-quantum provider status.
func (p *Printer) PrintPQCStatus(status *operations.PQCStatus) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"provider_loaded":      status.ProviderLoaded,
			"providers":            status.Providers,
			"signature_algorithms": status.Signatures,
			"kem_algorithms":       status.KEMs,
		})
	case OutputFormatText:
		if status.ProviderLoaded {
			fmt.Fprintln(p.writer, "oqsprovider: loaded")
		} else {
			fmt.Fprintln(p.writer, "oqsprovider: NOT loaded")
		}
		fmt.Fprintf(p.writer, "Providers:  %v\n", status.Providers)
		fmt.Fprintf(p.writer, "Signatures: %v\n", status.Signatures)
		fmt.Fprintf(p.writer, "KEMs:       %v\n", status.KEMs)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// printJSON marshals data as indented JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
