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
	"fmt"
	"strconv"
	"strings"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/openssl"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/validation"
)

// rsaKeygen generates an RSA keypair and derives the public half.
// Commands:
//  1. openssl genpkey -algorithm RSA -pkeyopt rsa_keygen_bits:<bits> -out private.pem
//  2. openssl pkey -pubout -in private.pem
func (s *Service) rsaKeygen(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	bits, verr := intParam(params, "bits")
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckRSABits(s.catalog, bits); verr != nil {
		return nil, nil, verr
	}

	keygenResult, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("genpkey").
		Arg("-algorithm").Arg("RSA").
		Arg("-pkeyopt").Arg("rsa_keygen_bits:"+strconv.Itoa(bits)).
		Arg("-out").Arg("private.pem"))
	if err != nil {
		return nil, nil, err
	}

	privateKey, err := sb.ReadFile("private.pem")
	if err != nil {
		return nil, nil, err
	}

	pubResult, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("pkey").Arg("-pubout").
		Arg("-in").Arg("private.pem"))
	if err != nil {
		return nil, nil, err
	}

	return &RsaKeygenResult{
			PrivateKeyPEM: string(privateKey),
			PublicKeyPEM:  string(pubResult.Stdout),
			Bits:          bits,
		},
		[]*openssl.ExecutionResult{keygenResult, pubResult}, nil
}

// rsaPubkey derives the public key from a private key.
// Command: openssl pkey -pubout -in private.pem
func (s *Service) rsaPubkey(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
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

	result, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("pkey").Arg("-pubout").
		Arg("-in").Arg("private.pem"))
	if err != nil {
		return nil, nil, err
	}

	return &RsaPubkeyResult{PublicKeyPEM: string(result.Stdout)},
		[]*openssl.ExecutionResult{result}, nil
}

type rsaSignParams struct {
	Data     string
	Key      string
	HashAlgo catalog.HashAlgorithm
}

func (s *Service) parseRsaSignParams(params map[string]any, keyField string) (*rsaSignParams, *validation.Error) {
	data, verr := stringParam(params, "data")
	if verr != nil {
		return nil, verr
	}
	if verr := validation.CheckSize("data", []byte(data), s.catalog.Limits().MaxInputSize); verr != nil {
		return nil, verr
	}

	key, verr := stringParam(params, keyField)
	if verr != nil {
		return nil, verr
	}
	if verr := validation.CheckPEM(keyField, key); verr != nil {
		return nil, verr
	}

	name, verr := optionalStringParam(params, "hash_algo", catalog.HashSHA256.String())
	if verr != nil {
		return nil, verr
	}
	algo := catalog.ParseHash(name)
	if algo == "" {
		return nil, validation.UnsupportedAlgorithm("hash_algo", name)
	}

	return &rsaSignParams{Data: data, Key: key, HashAlgo: algo}, nil
}

// rsaSign produces a detached signature.
// Command: openssl dgst -<algo> -sign private.pem -out signature.bin data.bin
func (s *Service) rsaSign(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	p, verr := s.parseRsaSignParams(params, "private_key")
	if verr != nil {
		return nil, nil, verr
	}
	if err := sb.WriteFile("private.pem", []byte(p.Key)); err != nil {
		return nil, nil, err
	}
	if err := sb.WriteFile("data.bin", []byte(p.Data)); err != nil {
		return nil, nil, err
	}

	result, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("dgst").Arg("-"+p.HashAlgo.String()).
		Arg("-sign").Arg("private.pem").
		Arg("-out").Arg("signature.bin").
		Arg("data.bin"))
	if err != nil {
		return nil, nil, err
	}

	signature, err := sb.ReadFile("signature.bin")
	if err != nil {
		return nil, nil, err
	}

	return &RsaSignResult{
			SignatureBase64: base64.StdEncoding.EncodeToString(signature),
			HashAlgo:        p.HashAlgo.String(),
		},
		[]*openssl.ExecutionResult{result}, nil
}

// rsaVerify checks a detached signature. Success requires both a zero exit
// code and the "Verified OK" banner; any other outcome is valid=false, not
// an execution error.
// Command: openssl dgst -<algo> -verify public.pem -signature signature.bin data.bin
func (s *Service) rsaVerify(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	p, verr := s.parseRsaSignParams(params, "public_key")
	if verr != nil {
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

	if err := sb.WriteFile("public.pem", []byte(p.Key)); err != nil {
		return nil, nil, err
	}
	if err := sb.WriteFile("signature.bin", signature); err != nil {
		return nil, nil, err
	}
	if err := sb.WriteFile("data.bin", []byte(p.Data)); err != nil {
		return nil, nil, err
	}

	result, err := s.runner.Run(ctx, sb, openssl.OpenSSL().
		Arg("dgst").Arg("-"+p.HashAlgo.String()).
		Arg("-verify").Arg("public.pem").
		Arg("-signature").Arg("signature.bin").
		Arg("data.bin"))
	if err != nil {
		return nil, nil, err
	}

	valid := result.ExitCode == 0 &&
		strings.Contains(string(result.Stdout), "Verified OK")

	return &RsaVerifyResult{Valid: valid, HashAlgo: p.HashAlgo.String()},
		[]*openssl.ExecutionResult{result}, nil
}

// rsaKeyBits introspects a public key and parses the modulus size from the
// "(N bit)" marker in the text rendering.
// Command: openssl pkey -pubin -in public.pem -text -noout
func (s *Service) rsaKeyBits(ctx context.Context, sb *openssl.Sandbox) (int, *openssl.ExecutionResult, error) {
	result, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("pkey").Arg("-pubin").
		Arg("-in").Arg("public.pem").
		Arg("-text").Arg("-noout"))
	if err != nil {
		return 0, nil, err
	}

	for _, line := range strings.Split(string(result.Stdout), "\n") {
		open := strings.Index(line, "(")
		end := strings.Index(line, " bit")
		if open >= 0 && end > open {
			if bits, err := strconv.Atoi(strings.TrimSpace(line[open+1 : end])); err == nil {
				return bits, result, nil
			}
		}
	}
	return 0, nil, fmt.Errorf("unable to parse key size from toolchain output")
}

// rsaEncrypt encrypts with RSA-OAEP (SHA-256). The plaintext bound is derived
// from the actual key size before the encrypt invocation runs.
// Commands:
//  1. openssl pkey -pubin -in public.pem -text -noout
//  2. openssl pkeyutl -encrypt -pubin -inkey public.pem
//     -pkeyopt rsa_padding_mode:oaep -pkeyopt rsa_oaep_md:sha256
//     -in plaintext.bin -out ciphertext.bin
func (s *Service) rsaEncrypt(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	plaintext, verr := stringParam(params, "plaintext")
	if verr != nil {
		return nil, nil, verr
	}
	publicKey, verr := stringParam(params, "public_key")
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckPEM("public_key", publicKey); verr != nil {
		return nil, nil, verr
	}
	if err := sb.WriteFile("public.pem", []byte(publicKey)); err != nil {
		return nil, nil, err
	}

	bits, introspect, err := s.rsaKeyBits(ctx, sb)
	if err != nil {
		return nil, nil, err
	}
	maxPlaintext := bits/8 - 2*catalog.OAEPHashSize - 2
	if maxPlaintext <= 0 {
		return nil, nil, &validation.Error{
			Kind:    validation.KindUnsupportedKeySize,
			Field:   "public_key",
			Message: "key too small for OAEP",
		}
	}
	if verr := validation.CheckSize("plaintext", []byte(plaintext), maxPlaintext); verr != nil {
		return nil, nil, verr
	}

	if err := sb.WriteFile("plaintext.bin", []byte(plaintext)); err != nil {
		return nil, nil, err
	}

	encResult, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("pkeyutl").Arg("-encrypt").
		Arg("-pubin").Arg("-inkey").Arg("public.pem").
		Arg("-pkeyopt").Arg("rsa_padding_mode:oaep").
		Arg("-pkeyopt").Arg("rsa_oaep_md:sha256").
		Arg("-in").Arg("plaintext.bin").
		Arg("-out").Arg("ciphertext.bin"))
	if err != nil {
		return nil, nil, err
	}

	ciphertext, err := sb.ReadFile("ciphertext.bin")
	if err != nil {
		return nil, nil, err
	}

	return &RsaEncryptResult{
			CiphertextBase64: base64.StdEncoding.EncodeToString(ciphertext),
		},
		[]*openssl.ExecutionResult{introspect, encResult}, nil
}

// rsaDecrypt mirrors rsaEncrypt.
// Command: openssl pkeyutl -decrypt -inkey private.pem
// -pkeyopt rsa_padding_mode:oaep -pkeyopt rsa_oaep_md:sha256
// -in ciphertext.bin -out plaintext.bin
func (s *Service) rsaDecrypt(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	encoded, verr := stringParam(params, "ciphertext")
	if verr != nil {
		return nil, nil, verr
	}
	ciphertext, verr := validation.DecodeBase64("ciphertext", encoded)
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckSize("ciphertext", ciphertext, s.catalog.Limits().MaxInputSize); verr != nil {
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
	if err := sb.WriteFile("ciphertext.bin", ciphertext); err != nil {
		return nil, nil, err
	}

	result, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("pkeyutl").Arg("-decrypt").
		Arg("-inkey").Arg("private.pem").
		Arg("-pkeyopt").Arg("rsa_padding_mode:oaep").
		Arg("-pkeyopt").Arg("rsa_oaep_md:sha256").
		Arg("-in").Arg("ciphertext.bin").
		Arg("-out").Arg("plaintext.bin"))
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := sb.ReadFile("plaintext.bin")
	if err != nil {
		return nil, nil, err
	}

	return &RsaDecryptResult{Plaintext: string(plaintext)},
		[]*openssl.ExecutionResult{result}, nil
}
