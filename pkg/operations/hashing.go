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

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/openssl"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/validation"
)

type hashParams struct {
	Data      string
	Algorithm catalog.HashAlgorithm
}

func (s *Service) parseHashParams(params map[string]any) (*hashParams, *validation.Error) {
	data, verr := stringParam(params, "data")
	if verr != nil {
		return nil, verr
	}
	if verr := validation.CheckSize("data", []byte(data), s.catalog.Limits().MaxInputSize); verr != nil {
		return nil, verr
	}
	name, verr := optionalStringParam(params, "algorithm", catalog.HashSHA256.String())
	if verr != nil {
		return nil, verr
	}
	algo := catalog.ParseHash(name)
	if algo == "" {
		return nil, validation.UnsupportedAlgorithm("algorithm", name)
	}
	return &hashParams{Data: data, Algorithm: algo}, nil
}

// hash computes a message digest over stdin data.
// Command: openssl dgst -<algo> -r
func (s *Service) hash(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	p, verr := s.parseHashParams(params)
	if verr != nil {
		return nil, nil, verr
	}

	result, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("dgst").Arg("-"+p.Algorithm.String()).Arg("-r").
		WithStdin([]byte(p.Data)))
	if err != nil {
		return nil, nil, err
	}

	return &HashResult{
			Hash:      digestToken(result.Stdout),
			Algorithm: p.Algorithm.String(),
		},
		[]*openssl.ExecutionResult{result}, nil
}

// hmac computes an HMAC over stdin data with a raw string key.
// Command: openssl dgst -<algo> -hmac <key> -r
func (s *Service) hmac(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	p, verr := s.parseHashParams(params)
	if verr != nil {
		return nil, nil, verr
	}
	key, verr := stringParam(params, "key")
	if verr != nil {
		return nil, nil, verr
	}
	// The key is passed as literal argument text, so it gets the
	// injection guard in addition to the secrecy tag.
	if verr := validation.CheckInjection("key", key); verr != nil {
		return nil, nil, verr
	}

	result, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("dgst").Arg("-"+p.Algorithm.String()).
		Arg("-hmac").SecretArg(key).
		Arg("-r").
		WithStdin([]byte(p.Data)))
	if err != nil {
		return nil, nil, err
	}

	return &HmacResult{
			Mac:       digestToken(result.Stdout),
			Algorithm: p.Algorithm.String(),
		},
		[]*openssl.ExecutionResult{result}, nil
}

// hmacHexKey computes an HMAC over raw bytes with a hex key. Shared by the
// authenticated encryption protocols.
// Command: openssl dgst -sha256 -mac hmac -macopt hexkey:<key> -r
func (s *Service) hmacHexKey(ctx context.Context, sb *openssl.Sandbox, data []byte, keyHex string) (string, *openssl.ExecutionResult, error) {
	result, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("dgst").Arg("-sha256").
		Arg("-mac").Arg("hmac").
		Arg("-macopt").SecretArg("hexkey:"+keyHex).
		Arg("-r").
		WithStdin(data))
	if err != nil {
		return "", nil, err
	}
	return digestToken(result.Stdout), result, nil
}

// digestToken extracts the digest from `dgst -r` output, which renders as
// "<hex> *stdin".
func digestToken(stdout []byte) string {
	fields := strings.Fields(string(stdout))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
