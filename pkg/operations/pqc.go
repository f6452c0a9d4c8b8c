// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package operations

import (
	"context"
	"encoding/base64"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/openssl"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/validation"
)

// Post-quantum signature operations. Every invocation activates the
// oqsprovider module alongside the default provider; algorithm names are
// canonicalized through the alias table before touching an argv.

func (s *Service) parsePQCAlgorithm(params map[string]any) (catalog.PQCSignatureAlgorithm, *validation.Error) {
	name, verr := optionalStringParam(params, "algorithm", catalog.DefaultPQCSignature.String())
	if verr != nil {
		return "", verr
	}
	algo := catalog.ParsePQCSignature(name)
	if algo == "" {
		return "", validation.UnsupportedAlgorithm("algorithm", name)
	}
	return algo, nil
}

// pqcKeygen generates a post-quantum signature keypair.
// Commands:
//  1. openssl genpkey -provider oqsprovider -provider default -algorithm <algo> -out private.pem
//  2. openssl pkey -provider oqsprovider -provider default -pubout -in private.pem
func (s *Service) pqcKeygen(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	algo, verr := s.parsePQCAlgorithm(params)
	if verr != nil {
		return nil, nil, verr
	}

	keygenResult, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("genpkey").WithProviders().
		Arg("-algorithm").Arg(algo.String()).
		Arg("-out").Arg("private.pem"))
	if err != nil {
		return nil, nil, err
	}

	privateKey, err := sb.ReadFile("private.pem")
	if err != nil {
		return nil, nil, err
	}

	pubResult, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("pkey").WithProviders().
		Arg("-pubout").
		Arg("-in").Arg("private.pem"))
	if err != nil {
		return nil, nil, err
	}

	return &PqcKeygenResult{
			PrivateKeyPEM: string(privateKey),
			PublicKeyPEM:  string(pubResult.Stdout),
			Algorithm:     algo.String(),
		},
		[]*openssl.ExecutionResult{keygenResult, pubResult}, nil
}

// pqcSign signs raw data with a post-quantum private key.
// Command: openssl pkeyutl -provider oqsprovider -provider default -sign
// -inkey private.pem -rawin -in data.bin -out signature.bin
func (s *Service) pqcSign(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	algo, verr := s.parsePQCAlgorithm(params)
	if verr != nil {
		return nil, nil, verr
	}

	data, verr := stringParam(params, "data")
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckSize("data", []byte(data), s.catalog.Limits().MaxInputSize); verr != nil {
		return nil, nil, verr
	}

	privateKey, verr := stringParam(params, "private_key")
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckPEM("private_key", privateKey); verr != nil {
		return nil, nil, verr
	}

	if err := sb.WriteFile("private.pem", []byte(privateKey)); err != nil {
		return nil, nil, err
	}
	if err := sb.WriteFile("data.bin", []byte(data)); err != nil {
		return nil, nil, err
	}

	result, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("pkeyutl").WithProviders().
		Arg("-sign").
		Arg("-inkey").Arg("private.pem").
		Arg("-rawin").
		Arg("-in").Arg("data.bin").
		Arg("-out").Arg("signature.bin"))
	if err != nil {
		return nil, nil, err
	}

	signature, err := sb.ReadFile("signature.bin")
	if err != nil {
		return nil, nil, err
	}

	return &PqcSignResult{
			SignatureBase64: base64.StdEncoding.EncodeToString(signature),
			Algorithm:       algo.String(),
		},
		[]*openssl.ExecutionResult{result}, nil
}

// pqcVerify checks a post-quantum signature. Validity is the exit code alone;
// nonzero exit is valid=false, not an execution error.
// Command: openssl pkeyutl -provider oqsprovider -provider default -verify
// -pubin -inkey public.pem -sigfile signature.bin -rawin -in data.bin
func (s *Service) pqcVerify(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	algo, verr := s.parsePQCAlgorithm(params)
	if verr != nil {
		return nil, nil, verr
	}

	data, verr := stringParam(params, "data")
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckSize("data", []byte(data), s.catalog.Limits().MaxInputSize); verr != nil {
		return nil, nil, verr
	}

	publicKey, verr := stringParam(params, "public_key")
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckPEM("public_key", publicKey); verr != nil {
		return nil, nil, verr
	}

	encoded, verr := stringParam(params, "signature")
	if verr != nil {
		return nil, nil, verr
	}
	signature, verr := validation.DecodeBase64("signature", encoded)
	if verr != nil {
		return nil, nil, verr
	}

	if err := sb.WriteFile("public.pem", []byte(publicKey)); err != nil {
		return nil, nil, err
	}
	if err := sb.WriteFile("signature.bin", signature); err != nil {
		return nil, nil, err
	}
	if err := sb.WriteFile("data.bin", []byte(data)); err != nil {
		return nil, nil, err
	}

	result, err := s.runner.Run(ctx, sb, openssl.OpenSSL().
		Arg("pkeyutl").WithProviders().
		Arg("-verify").
		Arg("-pubin").Arg("-inkey").Arg("public.pem").
		Arg("-sigfile").Arg("signature.bin").
		Arg("-rawin").
		Arg("-in").Arg("data.bin"))
	if err != nil {
		return nil, nil, err
	}

	return &PqcVerifyResult{
			Valid:     result.ExitCode == 0,
			Algorithm: algo.String(),
		},
		[]*openssl.ExecutionResult{result}, nil
}
