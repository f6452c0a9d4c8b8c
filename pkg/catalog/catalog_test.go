// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHash(t *testing.T) {
	tests := []struct {
		input    string
		expected HashAlgorithm
	}{
		{"sha256", HashSHA256},
		{"SHA256", HashSHA256},
		{"  sha512  ", HashSHA512},
		{"sha3-256", HashSHA3_256},
		{"blake2b512", HashBLAKE2b512},
		{"md5", HashMD5},
		{"sha1", ""},
		{"", ""},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseHash(tc.input))
		})
	}
}

func TestParseCipher(t *testing.T) {
	tests := []struct {
		input    string
		expected Cipher
	}{
		{"aes-256-cbc", CipherAES256CBC},
		{"AES-128-CBC", CipherAES128CBC},
		{"chacha20", CipherChaCha20},
		{"des-ede3-cbc", CipherDESEDE3},
		{"aes-256-gcm", ""},
		{"rc4", ""},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseCipher(tc.input))
		})
	}
}

func TestParsePQCSignatureAliases(t *testing.T) {
	tests := []struct {
		input    string
		expected PQCSignatureAlgorithm
	}{
		{"mldsa44", PQCSigMLDSA44},
		{"dilithium2", PQCSigMLDSA44},
		{"dilithium3", PQCSigMLDSA65},
		{"dilithium5", PQCSigMLDSA87},
		{"falcon-512", PQCSigFalcon512},
		{"falcon512", PQCSigFalcon512},
		{"falcon-1024", PQCSigFalcon1024},
		{"falconpadded512", PQCSigFalconPadded512},
		{"MLDSA65", PQCSigMLDSA65},
		{"sphincs", ""},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParsePQCSignature(tc.input))
		})
	}
}

func TestParsePQCKEMAliases(t *testing.T) {
	tests := []struct {
		input    string
		expected PQCKEMAlgorithm
	}{
		{"mlkem512", PQCKEMMLKEM512},
		{"kyber512", PQCKEMMLKEM512},
		{"kyber768", PQCKEMMLKEM768},
		{"kyber1024", PQCKEMMLKEM1024},
		{"ntru", ""},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParsePQCKEM(tc.input))
		})
	}
}

func TestCipherSpecLengths(t *testing.T) {
	cfg := Default()

	tests := []struct {
		cipher  Cipher
		keySize int
		ivSize  int
	}{
		{CipherAES128CBC, 16, 16},
		{CipherAES192CBC, 24, 16},
		{CipherAES256CBC, 32, 16},
		{CipherChaCha20, 32, 16},
		{CipherDESEDE3, 24, 8},
	}
	for _, tc := range tests {
		t.Run(tc.cipher.String(), func(t *testing.T) {
			spec, ok := cfg.CipherSpec(tc.cipher)
			assert.True(t, ok)
			assert.Equal(t, tc.keySize, spec.KeySize)
			assert.Equal(t, tc.ivSize, spec.IVSize)
		})
	}

	_, ok := cfg.CipherSpec("aes-256-gcm")
	assert.False(t, ok)
}

func TestAllowedRSABits(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.AllowedRSABits(2048))
	assert.True(t, cfg.AllowedRSABits(3072))
	assert.True(t, cfg.AllowedRSABits(4096))
	assert.False(t, cfg.AllowedRSABits(1024))
	assert.False(t, cfg.AllowedRSABits(8192))
	assert.False(t, cfg.AllowedRSABits(0))
}

func TestOperationCatalogue(t *testing.T) {
	cfg := Default()
	ops := cfg.Operations()
	assert.Len(t, ops, 21)

	seen := make(map[string]bool)
	for _, op := range ops {
		assert.False(t, seen[op.Name], "duplicate operation %s", op.Name)
		seen[op.Name] = true
		assert.NotEmpty(t, op.Description)
		assert.NotEmpty(t, op.Category)
	}

	assert.True(t, cfg.HasOperation("aes_encrypt"))
	assert.True(t, cfg.HasOperation("pqc_sig_verify"))
	assert.False(t, cfg.HasOperation("des_encrypt"))
}

func TestWithLimits(t *testing.T) {
	cfg := Default()
	custom := cfg.WithLimits(Limits{MaxInputSize: 1 << 10, MaxOutputSize: 1 << 11, MaxRandomBytes: 64})

	assert.Equal(t, 1<<10, custom.Limits().MaxInputSize)
	// The original catalogue keeps its own limits.
	assert.Equal(t, MaxInputSize, cfg.Limits().MaxInputSize)
}
