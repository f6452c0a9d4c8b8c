// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package rest

import (
	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
)

// ExecuteRequest is the body of POST /execute. Params is the raw parameter
// object; the operations layer performs all validation and type coercion.
type ExecuteRequest struct {
	Operation string         `json:"operation"`
	Params    map[string]any `json:"params"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents the basic health summary.
type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version,omitempty"`
	OpenSSLVersion string `json:"openssl_version,omitempty"`
	UptimeSeconds  int64  `json:"uptime_seconds,omitempty"`
}

// ListOperationsResponse describes the operation catalogue.
type ListOperationsResponse struct {
	Operations []catalog.Operation `json:"operations"`
	Count      int                 `json:"count"`
}

// CipherInfo describes one supported symmetric cipher.
type CipherInfo struct {
	Name     string `json:"name"`
	KeyBytes int    `json:"key_bytes"`
	IVBytes  int    `json:"iv_bytes"`
	Mode     string `json:"mode"`
	Legacy   bool   `json:"legacy,omitempty"`
}

// ListCiphersResponse describes the algorithm allowlists.
type ListCiphersResponse struct {
	Ciphers        []CipherInfo `json:"ciphers"`
	Hashes         []string     `json:"hashes"`
	RSAKeySizes    []int        `json:"rsa_key_sizes"`
	ECCurves       []string     `json:"ec_curves"`
	PQCSignatures  []string     `json:"pqc_signatures"`
	PQCKEMs        []string     `json:"pqc_kems"`
	DefaultCipher  string       `json:"default_cipher"`
	DefaultPQCSig  string       `json:"default_pqc_signature"`
}

// PQCHealthResponse reports post-quantum readiness of the toolchain.
type PQCHealthResponse struct {
	ProviderLoaded bool     `json:"provider_loaded"`
	Providers      []string `json:"providers"`
	Signatures     []string `json:"signature_algorithms"`
	KEMs           []string `json:"kem_algorithms"`
}
