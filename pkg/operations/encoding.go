// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package operations

import (
	"context"
	"strings"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/openssl"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/validation"
)

type encodeParams struct {
	Data string
}

// base64Encode encodes data to standard base64.
// Command: openssl base64 -e -A
func (s *Service) base64Encode(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	data, verr := stringParam(params, "data")
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckSize("data", []byte(data), s.catalog.Limits().MaxInputSize); verr != nil {
		return nil, nil, verr
	}

	result, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("base64").Arg("-e").Arg("-A").
		WithStdin([]byte(data)))
	if err != nil {
		return nil, nil, err
	}

	return &EncodingResult{Output: strings.TrimSpace(string(result.Stdout))},
		[]*openssl.ExecutionResult{result}, nil
}

// base64Decode decodes standard base64.
// Command: openssl base64 -d -A
func (s *Service) base64Decode(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	encoded, verr := stringParam(params, "encoded")
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckSize("encoded", []byte(encoded), s.catalog.Limits().MaxInputSize); verr != nil {
		return nil, nil, verr
	}
	// Reject malformed input here so the caller gets a typed error rather
	// than toolchain stderr.
	if _, verr := validation.DecodeBase64("encoded", encoded); verr != nil {
		return nil, nil, verr
	}

	result, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("base64").Arg("-d").Arg("-A").
		WithStdin([]byte(encoded)))
	if err != nil {
		return nil, nil, err
	}

	return &EncodingResult{Output: string(result.Stdout)},
		[]*openssl.ExecutionResult{result}, nil
}

// hexEncode encodes data to lowercase hex.
// Command: xxd -p
func (s *Service) hexEncode(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	data, verr := stringParam(params, "data")
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckSize("data", []byte(data), s.catalog.Limits().MaxInputSize); verr != nil {
		return nil, nil, verr
	}

	result, err := s.runOK(ctx, sb, openssl.XXD().
		Arg("-p").
		WithStdin([]byte(data)))
	if err != nil {
		return nil, nil, err
	}

	// xxd wraps its output; the payload is the concatenation of lines.
	output := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, string(result.Stdout))

	return &EncodingResult{Output: output},
		[]*openssl.ExecutionResult{result}, nil
}

// hexDecode decodes hex to the original data.
// Command: xxd -r -p
func (s *Service) hexDecode(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	hexData, verr := stringParam(params, "hex")
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckSize("hex", []byte(hexData), s.catalog.Limits().MaxInputSize); verr != nil {
		return nil, nil, verr
	}
	if _, verr := validation.DecodeHex("hex", hexData); verr != nil {
		return nil, nil, verr
	}

	result, err := s.runOK(ctx, sb, openssl.XXD().
		Arg("-r").Arg("-p").
		WithStdin([]byte(hexData)))
	if err != nil {
		return nil, nil, err
	}

	return &EncodingResult{Output: string(result.Stdout)},
		[]*openssl.ExecutionResult{result}, nil
}
