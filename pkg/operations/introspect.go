// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package operations

import (
	"context"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/openssl"
)

// PQCStatus reports the post-quantum capability of the installed toolchain.
// Algorithm lists are filtered against the allowlist catalogue, so unknown
// provider algorithms never surface.
type PQCStatus struct {
	ProviderLoaded bool
	Providers      []string
	Signatures     []string
	KEMs           []string
}

// OpenSSLVersion reports the toolchain version banner.
func (s *Service) OpenSSLVersion(ctx context.Context) (string, error) {
	sb, err := openssl.NewSandbox(s.sandboxCfg)
	if err != nil {
		return "", err
	}
	defer sb.Close()
	return openssl.Version(ctx, sb)
}

// QueryPQCStatus introspects the toolchain's provider modules and algorithm
// listings.
func (s *Service) QueryPQCStatus(ctx context.Context) (*PQCStatus, error) {
	sb, err := openssl.NewSandbox(s.sandboxCfg)
	if err != nil {
		return nil, err
	}
	defer sb.Close()

	providers, err := openssl.ListProviders(ctx, sb)
	if err != nil {
		return nil, err
	}

	status := &PQCStatus{Providers: providers}
	for _, p := range providers {
		if p == "oqsprovider" {
			status.ProviderLoaded = true
		}
	}

	sigs, err := openssl.ListSignatureAlgorithms(ctx, sb)
	if err != nil {
		return nil, err
	}
	seenSigs := make(map[catalog.PQCSignatureAlgorithm]bool)
	for _, name := range sigs {
		if algo := catalog.ParsePQCSignature(name); algo != "" && !seenSigs[algo] {
			seenSigs[algo] = true
			status.Signatures = append(status.Signatures, algo.String())
		}
	}

	kems, err := openssl.ListKemAlgorithms(ctx, sb)
	if err != nil {
		return nil, err
	}
	seenKems := make(map[catalog.PQCKEMAlgorithm]bool)
	for _, name := range kems {
		if algo := catalog.ParsePQCKEM(name); algo != "" && !seenKems[algo] {
			seenKems[algo] = true
			status.KEMs = append(status.KEMs, algo.String())
		}
	}

	return status, nil
}
