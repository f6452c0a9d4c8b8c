// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/openssl"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/operations"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/validation"
)

// Common errors
var (
	ErrInvalidRequest = errors.New("invalid request body")
	ErrInternalError  = errors.New("internal server error")
)

// mapErrorToStatusCode maps operation errors to HTTP status codes.
//
// Validation failures and MAC mismatches are client errors. An unknown
// operation is a 404 so clients can distinguish it from a supported operation
// with bad parameters. Timeouts surface as 504 and size overruns as 413.
func mapErrorToStatusCode(err error) int {
	var verr *validation.Error
	var timeoutErr *openssl.TimeoutError
	var overflowErr *openssl.OutputTooLargeError

	switch {
	case errors.As(err, &verr):
		if verr.Kind == validation.KindSizeLimitExceeded {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case errors.Is(err, operations.ErrAuthenticationFailed):
		return http.StatusBadRequest
	case errors.Is(err, operations.ErrUnsupportedOperation):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &overflowErr):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// errorKind extracts a stable machine-readable kind from an error, or "".
func errorKind(err error) string {
	var verr *validation.Error
	var timeoutErr *openssl.TimeoutError
	var overflowErr *openssl.OutputTooLargeError

	switch {
	case errors.As(err, &verr):
		return string(verr.Kind)
	case errors.Is(err, operations.ErrAuthenticationFailed):
		return "authentication_failed"
	case errors.Is(err, operations.ErrUnsupportedOperation):
		return "unsupported_operation"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &overflowErr):
		return "output_too_large"
	default:
		return ""
	}
}

// writeError writes a JSON error response to the client.
func writeError(w http.ResponseWriter, err error, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Success: false,
		Error:   err.Error(),
		Kind:    errorKind(err),
		Code:    statusCode,
	}

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		log.Printf("Failed to encode error response: %v", encErr)
	}
}

// handleError maps the error to a status code and writes the error response.
func handleError(w http.ResponseWriter, err error) {
	writeError(w, err, mapErrorToStatusCode(err))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}
