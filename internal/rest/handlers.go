// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/health"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/operations"
)

// Executor is the service surface the handlers dispatch to.
type Executor interface {
	Execute(ctx context.Context, operation string, params map[string]any) (*operations.Response, error)
	Catalog() *catalog.Config
	OpenSSLVersion(ctx context.Context) (string, error)
	QueryPQCStatus(ctx context.Context) (*operations.PQCStatus, error)
}

// HandlerContext holds the dependencies shared by all handlers.
type HandlerContext struct {
	executor      Executor
	version       string
	healthChecker *health.Checker
}

// NewHandlerContext creates a handler context over the given executor.
func NewHandlerContext(executor Executor, version string) *HandlerContext {
	return &HandlerContext{
		executor: executor,
		version:  version,
	}
}

// SetHealthChecker sets the health checker for the handler context.
func (h *HandlerContext) SetHealthChecker(checker *health.Checker) {
	h.healthChecker = checker
}

// ExecuteHandler handles POST /execute requests.
//
// The request body names one catalogue operation and its parameters. All
// parameter validation happens in the operations layer; this handler only
// decodes the envelope and maps errors to status codes.
func (h *HandlerContext) ExecuteHandler(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}
	if req.Operation == "" {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}
	if req.Params == nil {
		req.Params = map[string]any{}
	}

	resp, err := h.executor.Execute(r.Context(), req.Operation, req.Params)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, resp, http.StatusOK)
}

// ListOperationsHandler handles GET /operations requests.
func (h *HandlerContext) ListOperationsHandler(w http.ResponseWriter, r *http.Request) {
	ops := h.executor.Catalog().Operations()
	writeJSON(w, ListOperationsResponse{
		Operations: ops,
		Count:      len(ops),
	}, http.StatusOK)
}

// ListCiphersHandler handles GET /ciphers requests.
func (h *HandlerContext) ListCiphersHandler(w http.ResponseWriter, r *http.Request) {
	cat := h.executor.Catalog()

	resp := ListCiphersResponse{
		RSAKeySizes:   cat.RSAKeySizes(),
		ECCurves:      cat.ECCurves(),
		DefaultCipher: catalog.DefaultCipher.String(),
		DefaultPQCSig: catalog.DefaultPQCSignature.String(),
	}
	for _, cipher := range cat.Ciphers() {
		spec, ok := cat.CipherSpec(cipher)
		if !ok {
			continue
		}
		resp.Ciphers = append(resp.Ciphers, CipherInfo{
			Name:     cipher.String(),
			KeyBytes: spec.KeySize,
			IVBytes:  spec.IVSize,
			Mode:     spec.Mode,
			Legacy:   spec.Legacy,
		})
	}
	for _, algo := range cat.HashAlgorithms() {
		resp.Hashes = append(resp.Hashes, algo.String())
	}
	for _, algo := range cat.PQCSignatureAlgorithms() {
		resp.PQCSignatures = append(resp.PQCSignatures, algo.String())
	}
	for _, algo := range cat.PQCKEMAlgorithms() {
		resp.PQCKEMs = append(resp.PQCKEMs, algo.String())
	}

	writeJSON(w, resp, http.StatusOK)
}

// HealthHandler handles GET /health requests with a basic summary that
// includes the toolchain version when it can be resolved.
func (h *HandlerContext) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  string(health.StatusHealthy),
		Version: h.version,
	}

	if version, err := h.executor.OpenSSLVersion(r.Context()); err == nil {
		resp.OpenSSLVersion = version
	} else {
		resp.Status = string(health.StatusUnhealthy)
	}

	if h.healthChecker != nil {
		resp.UptimeSeconds = int64(h.healthChecker.Uptime().Seconds())
		if !h.healthChecker.IsHealthy(r.Context()) {
			resp.Status = string(health.StatusUnhealthy)
		}
	}

	statusCode := http.StatusOK
	if resp.Status != string(health.StatusHealthy) {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, resp, statusCode)
}

// PQCHealthHandler handles GET /pqc/health requests.
//
// A toolchain without the post-quantum provider is reported as degraded, not
// failed; classical operations keep working.
func (h *HandlerContext) PQCHealthHandler(w http.ResponseWriter, r *http.Request) {
	status, err := h.executor.QueryPQCStatus(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	resp := PQCHealthResponse{
		ProviderLoaded: status.ProviderLoaded,
		Providers:      status.Providers,
		Signatures:     status.Signatures,
		KEMs:           status.KEMs,
	}
	writeJSON(w, resp, http.StatusOK)
}
