// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

// Package catalog defines the process-wide immutable catalogue of permitted
// algorithms, ciphers, key sizes and limits. Everything the service is willing
// to pass to the external toolchain is allowlisted here; anything not listed
// is rejected upstream by the validation layer.
//
// The catalogue is constructed once at startup via Default() and injected into
// the validation and operations layers. It is never mutated afterward.
package catalog

import (
	"strings"
	"time"
)

// =============================================================================
// Size and Time Limits
// =============================================================================

const (
	// MaxInputSize is the maximum accepted input size in bytes (1 MiB).
	MaxInputSize = 1 << 20

	// MaxOutputSize is the maximum captured output size in bytes (2 MiB).
	MaxOutputSize = 2 << 20

	// MaxRandomBytes is the maximum number of random bytes per request.
	MaxRandomBytes = 1024

	// ExecutionTimeout is the default wall-clock budget for one invocation.
	ExecutionTimeout = 30 * time.Second

	// KeygenTimeout is the budget for key generation operations, which can
	// take considerably longer due to prime generation.
	KeygenTimeout = 60 * time.Second

	// OAEPHashSize is the output size of the OAEP digest (SHA-256) in bytes.
	// Bounds the maximum RSA-OAEP plaintext: keyBytes - 2*OAEPHashSize - 2.
	OAEPHashSize = 32
)

// Limits carries the configurable size bounds enforced before any invocation.
type Limits struct {
	MaxInputSize   int
	MaxOutputSize  int
	MaxRandomBytes int
}

// DefaultLimits returns the stock size limits.
func DefaultLimits() Limits {
	return Limits{
		MaxInputSize:   MaxInputSize,
		MaxOutputSize:  MaxOutputSize,
		MaxRandomBytes: MaxRandomBytes,
	}
}

// =============================================================================
// Hash Algorithms
// =============================================================================

// HashAlgorithm is a canonical digest algorithm name as understood by the
// toolchain's dgst command.
type HashAlgorithm string

const (
	HashSHA256     HashAlgorithm = "sha256"
	HashSHA384     HashAlgorithm = "sha384"
	HashSHA512     HashAlgorithm = "sha512"
	HashSHA3_256   HashAlgorithm = "sha3-256"
	HashSHA3_512   HashAlgorithm = "sha3-512"
	HashMD5        HashAlgorithm = "md5" // legacy
	HashBLAKE2b512 HashAlgorithm = "blake2b512"
	HashBLAKE2s256 HashAlgorithm = "blake2s256"
)

// String returns the canonical name.
func (h HashAlgorithm) String() string { return string(h) }

// ParseHash canonicalizes a digest algorithm name. Lookup is
// case-insensitive; unknown names return the empty value.
func ParseHash(s string) HashAlgorithm {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sha256":
		return HashSHA256
	case "sha384":
		return HashSHA384
	case "sha512":
		return HashSHA512
	case "sha3-256":
		return HashSHA3_256
	case "sha3-512":
		return HashSHA3_512
	case "md5":
		return HashMD5
	case "blake2b512":
		return HashBLAKE2b512
	case "blake2s256":
		return HashBLAKE2s256
	default:
		return ""
	}
}

// =============================================================================
// Symmetric Ciphers
// =============================================================================

// Cipher is a canonical symmetric cipher name as understood by the
// toolchain's enc command.
type Cipher string

const (
	CipherAES128CBC Cipher = "aes-128-cbc"
	CipherAES192CBC Cipher = "aes-192-cbc"
	CipherAES256CBC Cipher = "aes-256-cbc"
	CipherChaCha20  Cipher = "chacha20"
	CipherDESEDE3   Cipher = "des-ede3-cbc" // legacy
)

// DefaultCipher is used when the caller does not name a cipher.
const DefaultCipher = CipherAES256CBC

// String returns the canonical name.
func (c Cipher) String() string { return string(c) }

// CipherSpec describes the fixed key and IV requirements of a cipher.
type CipherSpec struct {
	// KeySize is the required key length in bytes.
	KeySize int
	// IVSize is the required IV length in bytes.
	IVSize int
	// Mode is the block mode for catalogue listings.
	Mode string
	// Legacy marks ciphers kept only for interoperability.
	Legacy bool
}

// ParseCipher canonicalizes a symmetric cipher name. Lookup is
// case-insensitive; unknown names return the empty value.
func ParseCipher(s string) Cipher {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aes-128-cbc":
		return CipherAES128CBC
	case "aes-192-cbc":
		return CipherAES192CBC
	case "aes-256-cbc":
		return CipherAES256CBC
	case "chacha20":
		return CipherChaCha20
	case "des-ede3-cbc":
		return CipherDESEDE3
	default:
		return ""
	}
}

// =============================================================================
// Post-Quantum Algorithms
// =============================================================================

// PQCSignatureAlgorithm is a canonical post-quantum signature algorithm name
// as registered by the oqsprovider module (NIST-standardized spellings).
type PQCSignatureAlgorithm string

const (
	PQCSigMLDSA44          PQCSignatureAlgorithm = "mldsa44"
	PQCSigMLDSA65          PQCSignatureAlgorithm = "mldsa65"
	PQCSigMLDSA87          PQCSignatureAlgorithm = "mldsa87"
	PQCSigFalcon512        PQCSignatureAlgorithm = "falcon512"
	PQCSigFalcon1024       PQCSignatureAlgorithm = "falcon1024"
	PQCSigFalconPadded512  PQCSignatureAlgorithm = "falconpadded512"
	PQCSigFalconPadded1024 PQCSignatureAlgorithm = "falconpadded1024"
)

// DefaultPQCSignature is the signature family used when none is requested.
const DefaultPQCSignature = PQCSigMLDSA44

// String returns the canonical name.
func (a PQCSignatureAlgorithm) String() string { return string(a) }

// ParsePQCSignature canonicalizes a post-quantum signature algorithm name.
// Historical Dilithium and hyphenated Falcon spellings resolve to their
// standardized equivalents. Unknown names return the empty value.
func ParsePQCSignature(s string) PQCSignatureAlgorithm {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mldsa44", "dilithium2":
		return PQCSigMLDSA44
	case "mldsa65", "dilithium3":
		return PQCSigMLDSA65
	case "mldsa87", "dilithium5":
		return PQCSigMLDSA87
	case "falcon512", "falcon-512":
		return PQCSigFalcon512
	case "falcon1024", "falcon-1024":
		return PQCSigFalcon1024
	case "falconpadded512":
		return PQCSigFalconPadded512
	case "falconpadded1024":
		return PQCSigFalconPadded1024
	default:
		return ""
	}
}

// PQCKEMAlgorithm is a canonical post-quantum KEM algorithm name.
type PQCKEMAlgorithm string

const (
	PQCKEMMLKEM512  PQCKEMAlgorithm = "mlkem512"
	PQCKEMMLKEM768  PQCKEMAlgorithm = "mlkem768"
	PQCKEMMLKEM1024 PQCKEMAlgorithm = "mlkem1024"
)

// String returns the canonical name.
func (a PQCKEMAlgorithm) String() string { return string(a) }

// ParsePQCKEM canonicalizes a post-quantum KEM algorithm name. Historical
// Kyber spellings resolve to their ML-KEM equivalents.
func ParsePQCKEM(s string) PQCKEMAlgorithm {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mlkem512", "kyber512":
		return PQCKEMMLKEM512
	case "mlkem768", "kyber768":
		return PQCKEMMLKEM768
	case "mlkem1024", "kyber1024":
		return PQCKEMMLKEM1024
	default:
		return ""
	}
}

// =============================================================================
// Catalogue
// =============================================================================

// Config is the immutable allowlist catalogue. Construct it once with
// Default() and share it read-only between requests.
type Config struct {
	limits      Limits
	ciphers     map[Cipher]CipherSpec
	rsaKeySizes map[int]struct{}
	ecCurves    []string
}

// Default returns the stock catalogue.
func Default() *Config {
	return &Config{
		limits: DefaultLimits(),
		ciphers: map[Cipher]CipherSpec{
			CipherAES128CBC: {KeySize: 16, IVSize: 16, Mode: "CBC"},
			CipherAES192CBC: {KeySize: 24, IVSize: 16, Mode: "CBC"},
			CipherAES256CBC: {KeySize: 32, IVSize: 16, Mode: "CBC"},
			CipherChaCha20:  {KeySize: 32, IVSize: 16, Mode: "Stream"},
			CipherDESEDE3:   {KeySize: 24, IVSize: 8, Mode: "CBC", Legacy: true},
		},
		rsaKeySizes: map[int]struct{}{
			2048: {},
			3072: {},
			4096: {},
		},
		ecCurves: []string{"prime256v1", "secp384r1", "secp521r1"},
	}
}

// Limits returns the configured size bounds.
func (c *Config) Limits() Limits { return c.limits }

// WithLimits returns a copy of the catalogue with the given size bounds.
func (c *Config) WithLimits(l Limits) *Config {
	clone := *c
	clone.limits = l
	return &clone
}

// CipherSpec returns the key/IV requirements for a canonical cipher.
func (c *Config) CipherSpec(cipher Cipher) (CipherSpec, bool) {
	spec, ok := c.ciphers[cipher]
	return spec, ok
}

// Ciphers returns the allowlisted symmetric ciphers in a stable order.
func (c *Config) Ciphers() []Cipher {
	return []Cipher{
		CipherAES128CBC,
		CipherAES192CBC,
		CipherAES256CBC,
		CipherChaCha20,
		CipherDESEDE3,
	}
}

// HashAlgorithms returns the allowlisted digest algorithms in a stable order.
func (c *Config) HashAlgorithms() []HashAlgorithm {
	return []HashAlgorithm{
		HashSHA256,
		HashSHA384,
		HashSHA512,
		HashSHA3_256,
		HashSHA3_512,
		HashMD5,
		HashBLAKE2b512,
		HashBLAKE2s256,
	}
}

// AllowedRSABits reports whether the RSA modulus size is allowlisted.
// Weak-but-valid sizes such as 1024 are deliberately rejected.
func (c *Config) AllowedRSABits(bits int) bool {
	_, ok := c.rsaKeySizes[bits]
	return ok
}

// RSAKeySizes returns the allowlisted RSA modulus sizes in ascending order.
func (c *Config) RSAKeySizes() []int {
	return []int{2048, 3072, 4096}
}

// ECCurves returns the allowlisted elliptic curves for catalogue listings.
func (c *Config) ECCurves() []string {
	out := make([]string, len(c.ecCurves))
	copy(out, c.ecCurves)
	return out
}

// PQCSignatureAlgorithms returns the canonical post-quantum signature
// algorithm names in a stable order.
func (c *Config) PQCSignatureAlgorithms() []PQCSignatureAlgorithm {
	return []PQCSignatureAlgorithm{
		PQCSigMLDSA44,
		PQCSigMLDSA65,
		PQCSigMLDSA87,
		PQCSigFalcon512,
		PQCSigFalcon1024,
		PQCSigFalconPadded512,
		PQCSigFalconPadded1024,
	}
}

// PQCKEMAlgorithms returns the canonical post-quantum KEM algorithm names.
func (c *Config) PQCKEMAlgorithms() []PQCKEMAlgorithm {
	return []PQCKEMAlgorithm{
		PQCKEMMLKEM512,
		PQCKEMMLKEM768,
		PQCKEMMLKEM1024,
	}
}
