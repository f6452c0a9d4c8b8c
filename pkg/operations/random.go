// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package operations

import (
	"context"
	"strconv"
	"strings"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/openssl"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/validation"
)

// randBase64 and randHex run the rand subcommand with the requested length
// after bounding it. The length argument is rendered from a validated int, so
// no untrusted text reaches the argv.

func (s *Service) randomBytes(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	return s.randBase64(ctx, sb, params)
}

func (s *Service) randomBase64(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	return s.randBase64(ctx, sb, params)
}

// randBase64 generates random bytes, base64 encoded.
// Command: openssl rand -base64 N
func (s *Service) randBase64(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	length, verr := intParam(params, "length")
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckRandomLength(length, s.catalog.Limits().MaxRandomBytes); verr != nil {
		return nil, nil, verr
	}

	result, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("rand").Arg("-base64").Arg(strconv.Itoa(length)))
	if err != nil {
		return nil, nil, err
	}

	// rand -base64 wraps long output; strip all whitespace.
	output := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, string(result.Stdout))

	return &RandomResult{Output: output, BytesGenerated: length},
		[]*openssl.ExecutionResult{result}, nil
}

// randomHex generates a random hex string.
// Command: openssl rand -hex N
func (s *Service) randomHex(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	length, verr := intParam(params, "length")
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckRandomLength(length, s.catalog.Limits().MaxRandomBytes); verr != nil {
		return nil, nil, verr
	}

	result, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("rand").Arg("-hex").Arg(strconv.Itoa(length)))
	if err != nil {
		return nil, nil, err
	}

	return &RandomResult{
			Output:         strings.TrimSpace(string(result.Stdout)),
			BytesGenerated: length,
		},
		[]*openssl.ExecutionResult{result}, nil
}
