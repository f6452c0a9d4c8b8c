// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

// Package validation provides centralized input validation for all untrusted
// request parameters. Every parameter crosses this layer before it can appear
// in a toolchain invocation; nothing here performs I/O, so every check is a
// pure function of its arguments and the allowlist catalogue.
package validation

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindSizeLimitExceeded    Kind = "size_limit_exceeded"
	KindInvalidHex           Kind = "invalid_hex"
	KindInvalidBase64        Kind = "invalid_base64"
	KindInvalidKeyLength     Kind = "invalid_key_length"
	KindInvalidIVLength      Kind = "invalid_iv_length"
	KindUnsupportedAlgorithm Kind = "unsupported_algorithm"
	KindUnsupportedKeySize   Kind = "unsupported_key_size"
	KindInjectionDetected    Kind = "injection_detected"
	KindInvalidPEM           Kind = "invalid_pem"
	KindInvalidLength        Kind = "invalid_length"
	KindMissingParameter     Kind = "missing_parameter"
	KindInvalidParameterType Kind = "invalid_parameter_type"
)

// Error is a typed validation failure. The message carries metadata about why
// the value was rejected, never the rejected value itself.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func newError(kind Kind, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// MissingParameter reports an absent required parameter.
func MissingParameter(field string) *Error {
	return newError(KindMissingParameter, field, "required parameter is missing")
}

// InvalidParameterType reports a parameter of the wrong JSON type.
func InvalidParameterType(field, expected string) *Error {
	return newError(KindInvalidParameterType, field, "expected %s", expected)
}

// UnsupportedAlgorithm reports an algorithm outside the allowlist.
func UnsupportedAlgorithm(field, name string) *Error {
	return newError(KindUnsupportedAlgorithm, field, "algorithm %q is not supported", name)
}

var (
	// hexPattern matches non-empty strings of hex digits
	hexPattern = regexp.MustCompile(`^[0-9a-fA-F]+$`)

	// injectionPattern matches characters that would change meaning if an
	// argument ever reached a shell. Arguments are passed as an argv vector
	// so no shell is involved, but they are rejected regardless.
	injectionPattern = regexp.MustCompile("[;&|`$\n\r\\\\]")

	// pemPattern checks BEGIN/END armor framing only; the body is opaque
	// to this layer.
	pemPattern = regexp.MustCompile(`(?s)^\s*-----BEGIN [A-Z0-9 ]+-----.*-----END [A-Z0-9 ]+-----\s*$`)
)

// CheckSize rejects data longer than max bytes.
func CheckSize(field string, data []byte, max int) *Error {
	if len(data) > max {
		return newError(KindSizeLimitExceeded, field,
			"size %d exceeds maximum %d bytes", len(data), max)
	}
	return nil
}

// DecodeHex validates and decodes a hex string. The string must be non-empty,
// of even length, and contain only hex digits.
func DecodeHex(field, s string) ([]byte, *Error) {
	if s == "" {
		return nil, newError(KindInvalidHex, field, "empty hex string")
	}
	if len(s)%2 != 0 {
		return nil, newError(KindInvalidHex, field, "odd-length hex string")
	}
	if !hexPattern.MatchString(s) {
		return nil, newError(KindInvalidHex, field, "non-hex characters present")
	}
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil, newError(KindInvalidHex, field, "hex decode failed")
	}
	return out, nil
}

// DecodeBase64 validates and decodes standard-alphabet base64. Interior
// whitespace is stripped before decoding; unpadded input is accepted.
func DecodeBase64(field, s string) ([]byte, *Error) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	if compact == "" {
		return nil, newError(KindInvalidBase64, field, "empty base64 string")
	}
	if out, err := base64.StdEncoding.DecodeString(compact); err == nil {
		return out, nil
	}
	out, err := base64.RawStdEncoding.DecodeString(compact)
	if err != nil {
		return nil, newError(KindInvalidBase64, field, "base64 decode failed")
	}
	return out, nil
}

// CheckPEM validates the structural framing of a PEM block.
func CheckPEM(field, s string) *Error {
	if !pemPattern.MatchString(s) {
		return newError(KindInvalidPEM, field, "missing PEM BEGIN/END framing")
	}
	return nil
}

// CheckInjection rejects literal argument text containing shell
// metacharacters or embedded newlines.
func CheckInjection(field, s string) *Error {
	if injectionPattern.MatchString(s) {
		return newError(KindInjectionDetected, field, "forbidden character present")
	}
	return nil
}

// CheckKey hex-decodes a cipher key and verifies its length against the
// catalogue requirement for the cipher.
func CheckKey(field, keyHex string, spec catalog.CipherSpec) ([]byte, *Error) {
	key, err := DecodeHex(field, keyHex)
	if err != nil {
		return nil, err
	}
	if len(key) != spec.KeySize {
		return nil, newError(KindInvalidKeyLength, field,
			"expected %d bytes, got %d", spec.KeySize, len(key))
	}
	return key, nil
}

// CheckIV hex-decodes an IV and verifies its length against the catalogue
// requirement for the cipher.
func CheckIV(field, ivHex string, spec catalog.CipherSpec) ([]byte, *Error) {
	iv, err := DecodeHex(field, ivHex)
	if err != nil {
		return nil, err
	}
	if len(iv) != spec.IVSize {
		return nil, newError(KindInvalidIVLength, field,
			"expected %d bytes, got %d", spec.IVSize, len(iv))
	}
	return iv, nil
}

// CheckRSABits verifies the modulus size against the allowlist. Weak but
// otherwise valid sizes such as 1024 are rejected here.
func CheckRSABits(cfg *catalog.Config, bits int) *Error {
	if !cfg.AllowedRSABits(bits) {
		return newError(KindUnsupportedKeySize, "bits",
			"RSA key size %d is not supported", bits)
	}
	return nil
}

// CheckRandomLength bounds the requested random byte count.
func CheckRandomLength(length, max int) *Error {
	if length < 1 || length > max {
		return newError(KindInvalidLength, "length",
			"must be between 1 and %d", max)
	}
	return nil
}

// RedactSecret masks a secret for rendering. Values of eight characters or
// fewer are fully masked; longer values keep the first and last four
// characters. The output depends only on the input length and those eight
// characters, never on the hidden middle.
func RedactSecret(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + "..." + s[len(s)-4:]
}
