// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package operations

import (
	"context"
	"crypto/hmac"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/openssl"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/validation"
)

// aesKeygen generates a cipher key, IV and HMAC key.
// Commands: openssl rand -hex <key>, openssl rand -hex 16, openssl rand -hex 32
func (s *Service) aesKeygen(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	bits, verr := optionalIntParam(params, "bits", 256)
	if verr != nil {
		return nil, nil, verr
	}
	if bits != 128 && bits != 192 && bits != 256 {
		return nil, nil, &validation.Error{
			Kind:    validation.KindUnsupportedKeySize,
			Field:   "bits",
			Message: "use 128, 192 or 256 bits",
		}
	}

	var execs []*openssl.ExecutionResult
	randHex := func(n int) (string, error) {
		result, err := s.runOK(ctx, sb, openssl.OpenSSL().
			Arg("rand").Arg("-hex").Arg(strconv.Itoa(n)))
		if err != nil {
			return "", err
		}
		execs = append(execs, result)
		return strings.TrimSpace(string(result.Stdout)), nil
	}

	key, err := randHex(bits / 8)
	if err != nil {
		return nil, nil, err
	}
	iv, err := randHex(16)
	if err != nil {
		return nil, nil, err
	}
	hmacKey, err := randHex(32)
	if err != nil {
		return nil, nil, err
	}

	return &AesKeygenResult{
		KeyHex:     key,
		IVHex:      iv,
		HmacKeyHex: hmacKey,
		KeyBits:    bits,
	}, execs, nil
}

type symmetricParams struct {
	Cipher  catalog.Cipher
	Spec    catalog.CipherSpec
	KeyHex  string
	HmacKey string
}

func (s *Service) parseSymmetricParams(params map[string]any) (*symmetricParams, *validation.Error) {
	name, verr := optionalStringParam(params, "cipher", catalog.DefaultCipher.String())
	if verr != nil {
		return nil, verr
	}
	cipher := catalog.ParseCipher(name)
	if cipher == "" {
		return nil, validation.UnsupportedAlgorithm("cipher", name)
	}
	spec, ok := s.catalog.CipherSpec(cipher)
	if !ok {
		return nil, validation.UnsupportedAlgorithm("cipher", name)
	}

	keyHex, verr := stringParam(params, "key")
	if verr != nil {
		return nil, verr
	}
	if _, verr := validation.CheckKey("key", keyHex, spec); verr != nil {
		return nil, verr
	}

	hmacKey, verr := stringParam(params, "hmac_key")
	if verr != nil {
		return nil, verr
	}
	if _, verr := validation.DecodeHex("hmac_key", hmacKey); verr != nil {
		return nil, verr
	}

	return &symmetricParams{
		Cipher:  cipher,
		Spec:    spec,
		KeyHex:  keyHex,
		HmacKey: hmacKey,
	}, nil
}

// aesEncrypt encrypts then authenticates: the cipher invocation strictly
// precedes the MAC invocation, and the MAC is computed over the ciphertext.
// Commands:
//  1. openssl enc -<cipher> -e -K <key> -iv <iv> -in plaintext.bin -out ciphertext.bin
//  2. openssl dgst -sha256 -mac hmac -macopt hexkey:<key> -r  (stdin = ciphertext)
func (s *Service) aesEncrypt(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	p, verr := s.parseSymmetricParams(params)
	if verr != nil {
		return nil, nil, verr
	}
	plaintext, verr := stringParam(params, "plaintext")
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.CheckSize("plaintext", []byte(plaintext), s.catalog.Limits().MaxInputSize); verr != nil {
		return nil, nil, verr
	}

	var execs []*openssl.ExecutionResult

	ivHex, verr := optionalStringParam(params, "iv", "")
	if verr != nil {
		return nil, nil, verr
	}
	if ivHex != "" {
		if _, verr := validation.CheckIV("iv", ivHex, p.Spec); verr != nil {
			return nil, nil, verr
		}
	} else {
		result, err := s.runOK(ctx, sb, openssl.OpenSSL().
			Arg("rand").Arg("-hex").Arg(strconv.Itoa(p.Spec.IVSize)))
		if err != nil {
			return nil, nil, err
		}
		execs = append(execs, result)
		ivHex = strings.TrimSpace(string(result.Stdout))
	}

	if err := sb.WriteFile("plaintext.bin", []byte(plaintext)); err != nil {
		return nil, nil, err
	}

	encResult, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("enc").Arg("-"+p.Cipher.String()).Arg("-e").
		Arg("-K").SecretArg(p.KeyHex).
		Arg("-iv").Arg(ivHex).
		Arg("-in").Arg("plaintext.bin").
		Arg("-out").Arg("ciphertext.bin"))
	if err != nil {
		return nil, nil, err
	}
	execs = append(execs, encResult)

	ciphertext, err := sb.ReadFile("ciphertext.bin")
	if err != nil {
		return nil, nil, err
	}

	mac, macResult, err := s.hmacHexKey(ctx, sb, ciphertext, p.HmacKey)
	if err != nil {
		return nil, nil, err
	}
	execs = append(execs, macResult)

	return &AesEncryptResult{
		CiphertextBase64: base64.StdEncoding.EncodeToString(ciphertext),
		IVHex:            ivHex,
		HmacHex:          mac,
		Cipher:           p.Cipher.String(),
	}, execs, nil
}

// aesDecrypt verifies the ciphertext MAC before any decryption. On mismatch
// the decrypt invocation is never issued.
// Commands:
//  1. openssl dgst -sha256 -mac hmac -macopt hexkey:<key> -r  (stdin = ciphertext)
//  2. openssl enc -<cipher> -d -K <key> -iv <iv> -in ciphertext.bin -out plaintext.bin
func (s *Service) aesDecrypt(ctx context.Context, sb *openssl.Sandbox, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	p, verr := s.parseSymmetricParams(params)
	if verr != nil {
		return nil, nil, verr
	}

	ivHex, verr := stringParam(params, "iv")
	if verr != nil {
		return nil, nil, verr
	}
	if _, verr := validation.CheckIV("iv", ivHex, p.Spec); verr != nil {
		return nil, nil, verr
	}

	macHex, verr := stringParam(params, "hmac")
	if verr != nil {
		return nil, nil, verr
	}
	expectedMAC, verr := validation.DecodeHex("hmac", macHex)
	if verr != nil {
		return nil, nil, verr
	}

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

	computedHex, macResult, err := s.hmacHexKey(ctx, sb, ciphertext, p.HmacKey)
	if err != nil {
		return nil, nil, err
	}
	execs := []*openssl.ExecutionResult{macResult}

	computedMAC, verr := validation.DecodeHex("hmac", computedHex)
	if verr != nil {
		return nil, nil, verr
	}
	if !hmac.Equal(expectedMAC, computedMAC) {
		return nil, nil, ErrAuthenticationFailed
	}

	if err := sb.WriteFile("ciphertext.bin", ciphertext); err != nil {
		return nil, nil, err
	}

	decResult, err := s.runOK(ctx, sb, openssl.OpenSSL().
		Arg("enc").Arg("-"+p.Cipher.String()).Arg("-d").
		Arg("-K").SecretArg(p.KeyHex).
		Arg("-iv").Arg(ivHex).
		Arg("-in").Arg("ciphertext.bin").
		Arg("-out").Arg("plaintext.bin"))
	if err != nil {
		return nil, nil, err
	}
	execs = append(execs, decResult)

	plaintext, err := sb.ReadFile("plaintext.bin")
	if err != nil {
		return nil, nil, err
	}

	return &AesDecryptResult{
		Plaintext:    string(plaintext),
		HmacVerified: true,
	}, execs, nil
}
