// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/correlation"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/health"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/openssl"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/operations"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/validation"
)

// stubExecutor fakes the operations service for handler tests.
type stubExecutor struct {
	executeFn  func(ctx context.Context, operation string, params map[string]any) (*operations.Response, error)
	versionErr error
	pqcStatus  *operations.PQCStatus
	pqcErr     error
}

func (s *stubExecutor) Execute(ctx context.Context, operation string, params map[string]any) (*operations.Response, error) {
	if s.executeFn != nil {
		return s.executeFn(ctx, operation, params)
	}
	return &operations.Response{
		Success:   true,
		Operation: operation,
		Result:    map[string]string{"output": "ok"},
		Command: operations.CommandInfo{
			Executed: "openssl version",
			Redacted: true,
		},
		Metadata: operations.Metadata{
			RequestID: correlation.FromContext(ctx),
		},
	}, nil
}

func (s *stubExecutor) Catalog() *catalog.Config { return catalog.Default() }

func (s *stubExecutor) OpenSSLVersion(ctx context.Context) (string, error) {
	if s.versionErr != nil {
		return "", s.versionErr
	}
	return "OpenSSL 3.2.0", nil
}

func (s *stubExecutor) QueryPQCStatus(ctx context.Context) (*operations.PQCStatus, error) {
	if s.pqcErr != nil {
		return nil, s.pqcErr
	}
	if s.pqcStatus != nil {
		return s.pqcStatus, nil
	}
	return &operations.PQCStatus{
		ProviderLoaded: true,
		Providers:      []string{"default", "oqsprovider"},
		Signatures:     []string{"mldsa44", "falcon512"},
		KEMs:           []string{"mlkem768"},
	}, nil
}

func newTestServer(t *testing.T, exec Executor) *Server {
	t.Helper()
	srv, err := NewServer(&Config{
		Executor: exec,
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewServerValidation(t *testing.T) {
	if _, err := NewServer(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewServer(&Config{}); err == nil {
		t.Error("expected error for missing executor")
	}

	srv := newTestServer(t, &stubExecutor{})
	if srv.Port() != 8400 {
		t.Errorf("expected default port 8400, got %d", srv.Port())
	}
}

func TestExecuteEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})

	rec := doRequest(t, srv, "POST", "/execute", ExecuteRequest{
		Operation: "base64_encode",
		Params:    map[string]any{"input": "hello"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp operations.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !resp.Success || resp.Operation != "base64_encode" {
		t.Errorf("unexpected envelope: %+v", resp)
	}
}

func TestExecuteRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})

	req := httptest.NewRequest("POST", "/execute", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestExecuteRejectsMissingOperation(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})

	rec := doRequest(t, srv, "POST", "/execute", ExecuteRequest{Params: map[string]any{}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing operation, got %d", rec.Code)
	}
}

func TestExecuteErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
		kind     string
	}{
		{
			name:     "unsupported operation",
			err:      fmt.Errorf("%w: frobnicate", operations.ErrUnsupportedOperation),
			expected: http.StatusNotFound,
			kind:     "unsupported_operation",
		},
		{
			name:     "validation failure",
			err:      validation.MissingParameter("input"),
			expected: http.StatusBadRequest,
			kind:     "missing_parameter",
		},
		{
			name:     "MAC mismatch",
			err:      operations.ErrAuthenticationFailed,
			expected: http.StatusBadRequest,
			kind:     "authentication_failed",
		},
		{
			name:     "timeout",
			err:      &openssl.TimeoutError{Timeout: 30 * time.Second},
			expected: http.StatusGatewayTimeout,
			kind:     "timeout",
		},
		{
			name:     "internal failure",
			err:      errors.New("sandbox creation failed"),
			expected: http.StatusInternalServerError,
			kind:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &stubExecutor{
				executeFn: func(ctx context.Context, operation string, params map[string]any) (*operations.Response, error) {
					return nil, tt.err
				},
			})

			rec := doRequest(t, srv, "POST", "/execute", ExecuteRequest{
				Operation: "hash",
				Params:    map[string]any{"input": "x"},
			})

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}

			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.Kind != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, resp.Kind)
			}
		})
	}
}

func TestListOperations(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})

	rec := doRequest(t, srv, "GET", "/operations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ListOperationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Count == 0 || len(resp.Operations) != resp.Count {
		t.Errorf("inconsistent catalogue listing: count=%d entries=%d", resp.Count, len(resp.Operations))
	}

	names := make(map[string]bool)
	for _, op := range resp.Operations {
		names[op.Name] = true
	}
	for _, required := range []string{"base64_encode", "aes_encrypt", "rsa_sign", "pqc_sig_verify"} {
		if !names[required] {
			t.Errorf("catalogue missing operation %q", required)
		}
	}
}

func TestListCiphers(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})

	rec := doRequest(t, srv, "GET", "/ciphers", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ListCiphersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Ciphers) == 0 || len(resp.Hashes) == 0 {
		t.Error("expected non-empty cipher and hash lists")
	}
	if resp.DefaultCipher != "aes-256-cbc" {
		t.Errorf("expected default cipher aes-256-cbc, got %q", resp.DefaultCipher)
	}

	var aes256 *CipherInfo
	for i := range resp.Ciphers {
		if resp.Ciphers[i].Name == "aes-256-cbc" {
			aes256 = &resp.Ciphers[i]
		}
	}
	if aes256 == nil {
		t.Fatal("aes-256-cbc missing from cipher list")
	}
	if aes256.KeyBytes != 32 || aes256.IVBytes != 16 {
		t.Errorf("unexpected aes-256-cbc spec: %+v", aes256)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})

	rec := doRequest(t, srv, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy, got %q", resp.Status)
	}
	if resp.OpenSSLVersion == "" {
		t.Error("expected toolchain version in health response")
	}
}

func TestHealthEndpointToolchainMissing(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{versionErr: errors.New("exec: openssl not found")})

	rec := doRequest(t, srv, "GET", "/health", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when toolchain missing, got %d", rec.Code)
	}
}

func TestProbeEndpoints(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})
	checker := health.NewChecker()
	srv.SetHealthChecker(checker)

	// Liveness always passes.
	if rec := doRequest(t, srv, "GET", "/health/live", nil); rec.Code != http.StatusOK {
		t.Errorf("expected live 200, got %d", rec.Code)
	}

	// Startup fails until marked.
	if rec := doRequest(t, srv, "GET", "/health/startup", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected startup 503 before MarkStarted, got %d", rec.Code)
	}
	checker.MarkStarted()
	if rec := doRequest(t, srv, "GET", "/health/startup", nil); rec.Code != http.StatusOK {
		t.Errorf("expected startup 200 after MarkStarted, got %d", rec.Code)
	}

	// Readiness reflects registered checks.
	checker.RegisterCheck("toolchain", func(ctx context.Context) health.CheckResult {
		return health.CheckResult{Status: health.StatusUnhealthy, Error: "openssl missing"}
	})
	rec := doRequest(t, srv, "GET", "/health/ready", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected ready 503 with failing check, got %d", rec.Code)
	}

	var resp HealthCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Checks) != 1 {
		t.Errorf("expected 1 check result, got %d", len(resp.Checks))
	}
}

func TestReadinessDegradedStillServes(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})
	checker := health.NewChecker()
	checker.RegisterCheck("pqc_provider", func(ctx context.Context) health.CheckResult {
		return health.CheckResult{Status: health.StatusDegraded, Message: "oqsprovider not loaded"}
	})
	srv.SetHealthChecker(checker)

	rec := doRequest(t, srv, "GET", "/health/ready", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected degraded readiness to return 200, got %d", rec.Code)
	}
}

func TestPQCHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})

	rec := doRequest(t, srv, "GET", "/pqc/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp PQCHealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !resp.ProviderLoaded {
		t.Error("expected provider loaded")
	}
	if len(resp.Signatures) == 0 {
		t.Error("expected signature algorithms")
	}
}

func TestCorrelationHeaderEchoed(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})

	req := httptest.NewRequest("GET", "/operations", nil)
	req.Header.Set(correlation.CorrelationIDHeader, "trace-42")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get(correlation.CorrelationIDHeader); got != "trace-42" {
		t.Errorf("expected correlation header echoed, got %q", got)
	}
}

func TestCorrelationHeaderGenerated(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})

	rec := doRequest(t, srv, "GET", "/operations", nil)
	if rec.Header().Get(correlation.CorrelationIDHeader) == "" {
		t.Error("expected generated correlation header")
	}
}

func TestCorrelationIDReachesExecutor(t *testing.T) {
	var seen string
	srv := newTestServer(t, &stubExecutor{
		executeFn: func(ctx context.Context, operation string, params map[string]any) (*operations.Response, error) {
			seen = correlation.FromContext(ctx)
			return &operations.Response{Success: true, Operation: operation}, nil
		},
	})

	req := httptest.NewRequest("POST", "/execute",
		bytes.NewReader([]byte(`{"operation":"hash","params":{"input":"x"}}`)))
	req.Header.Set(correlation.RequestIDHeader, "req-77")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if seen != "req-77" {
		t.Errorf("expected correlation ID in executor context, got %q", seen)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})

	req := httptest.NewRequest("OPTIONS", "/execute", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS headers on preflight response")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{
		executeFn: func(ctx context.Context, operation string, params map[string]any) (*operations.Response, error) {
			panic("handler exploded")
		},
	})

	rec := doRequest(t, srv, "POST", "/execute", ExecuteRequest{
		Operation: "hash",
		Params:    map[string]any{"input": "x"},
	})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestMetricsEndpointMounting(t *testing.T) {
	withMetrics, err := NewServer(&Config{Executor: &stubExecutor{}, MetricsEnabled: true})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	rec := httptest.NewRecorder()
	withMetrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected /metrics 200 when enabled, got %d", rec.Code)
	}

	without := newTestServer(t, &stubExecutor{})
	rec = httptest.NewRecorder()
	without.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected /metrics 404 when disabled, got %d", rec.Code)
	}
}
