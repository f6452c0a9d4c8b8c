// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMiddleware(t *testing.T) {
	Enable()
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	wrapped := HTTPMiddleware(handler)

	req := httptest.NewRequest("POST", "/execute", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "200")); got != 1 {
		t.Errorf("expected 1 recorded request, got %v", got)
	}
	if got := testutil.ToFloat64(HTTPRequestsInFlight); got != 0 {
		t.Errorf("expected in-flight gauge back to 0, got %v", got)
	}
}

func TestHTTPMiddlewareStatusCodes(t *testing.T) {
	Enable()

	testCases := []struct {
		name       string
		statusCode int
	}{
		{"200 OK", http.StatusOK},
		{"400 Bad Request", http.StatusBadRequest},
		{"404 Not Found", http.StatusNotFound},
		{"500 Internal Server Error", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			HTTPRequestsTotal.Reset()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest("POST", "/execute", nil)
			rec := httptest.NewRecorder()
			HTTPMiddleware(handler).ServeHTTP(rec, req)

			if rec.Code != tc.statusCode {
				t.Errorf("expected status %d, got %d", tc.statusCode, rec.Code)
			}
			if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", strconv.Itoa(tc.statusCode))); got != 1 {
				t.Errorf("expected 1 request with code %d, got %v", tc.statusCode, got)
			}
		})
	}
}

func TestHTTPMiddlewareImplicitStatus(t *testing.T) {
	Enable()
	HTTPRequestsTotal.Reset()

	// Handler writes a body without calling WriteHeader; the wrapper must
	// report 200.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("implicit"))
	})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	HTTPMiddleware(handler).ServeHTTP(rec, req)

	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "200")); got != 1 {
		t.Errorf("expected implicit 200 recorded, got %v", got)
	}
}

func TestHTTPMiddlewareWhenDisabled(t *testing.T) {
	Disable()
	defer Enable()

	HTTPRequestsTotal.Reset()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	HTTPMiddleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if count := testutil.CollectAndCount(HTTPRequestsTotal); count != 0 {
		t.Errorf("expected no series when disabled, got %d", count)
	}
}
