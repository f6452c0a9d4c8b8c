// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package rest

import (
	"net/http"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/health"
)

// HealthCheckResponse represents the response for the probe endpoints.
type HealthCheckResponse struct {
	// Status is the overall health status
	Status health.Status `json:"status"`
	// Message provides additional context
	Message string `json:"message,omitempty"`
	// Checks contains individual check results (for readiness)
	Checks []health.CheckResult `json:"checks,omitempty"`
}

// LivenessHandler handles GET /health/live requests.
//
// Liveness only fails when the process is in an unrecoverable state. A slow
// or missing toolchain must not cause a restart loop, so it is never
// considered here.
func (h *HandlerContext) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	if h.healthChecker == nil {
		writeJSON(w, HealthCheckResponse{
			Status:  health.StatusHealthy,
			Message: "Service is alive",
		}, http.StatusOK)
		return
	}

	result := h.healthChecker.Live(r.Context())

	statusCode := http.StatusOK
	if result.Status == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, HealthCheckResponse{
		Status:  result.Status,
		Message: result.Message,
	}, statusCode)
}

// ReadinessHandler handles GET /health/ready requests.
//
// Readiness runs the registered checks, typically a toolchain probe that
// verifies the binary answers `openssl version` within a short deadline.
// Degraded (provider missing) still serves traffic.
func (h *HandlerContext) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	if h.healthChecker == nil {
		writeJSON(w, HealthCheckResponse{
			Status:  health.StatusHealthy,
			Message: "Service is ready",
		}, http.StatusOK)
		return
	}

	results := h.healthChecker.Ready(r.Context())
	overall := health.AggregateStatus(results)

	resp := HealthCheckResponse{
		Status: overall,
		Checks: results,
	}
	switch overall {
	case health.StatusHealthy:
		resp.Message = "All checks passed"
	case health.StatusDegraded:
		resp.Message = "Service is degraded"
	case health.StatusUnhealthy:
		resp.Message = "One or more checks failed"
	}

	statusCode := http.StatusOK
	if overall == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, resp, statusCode)
}

// StartupHandler handles GET /health/startup requests. It fails until the
// server has finished initialization and been marked started.
func (h *HandlerContext) StartupHandler(w http.ResponseWriter, r *http.Request) {
	if h.healthChecker == nil {
		writeJSON(w, HealthCheckResponse{
			Status:  health.StatusHealthy,
			Message: "Service has started",
		}, http.StatusOK)
		return
	}

	result := h.healthChecker.Startup(r.Context())

	statusCode := http.StatusOK
	if result.Status == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, HealthCheckResponse{
		Status:  result.Status,
		Message: result.Message,
	}, statusCode)
}
