// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package correlation

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithCorrelationID(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "req-123")

	if got := FromContext(ctx); got != "req-123" {
		t.Errorf("expected 'req-123', got %q", got)
	}
}

func TestWithCorrelationIDNilContext(t *testing.T) {
	ctx := WithCorrelationID(nil, "req-123") //nolint:staticcheck

	if got := FromContext(ctx); got != "req-123" {
		t.Errorf("expected 'req-123', got %q", got)
	}
}

func TestFromContextMissing(t *testing.T) {
	if got := FromContext(context.Background()); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	if got := FromContext(nil); got != "" { //nolint:staticcheck
		t.Errorf("expected empty string for nil context, got %q", got)
	}
}

func TestNewID(t *testing.T) {
	id := NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected valid UUID, got %q: %v", id, err)
	}
	if NewID() == id {
		t.Error("expected unique IDs")
	}
}

func TestGetOrGenerate(t *testing.T) {
	// Existing ID wins.
	ctx := WithCorrelationID(context.Background(), "existing")
	if got := GetOrGenerate(ctx); got != "existing" {
		t.Errorf("expected 'existing', got %q", got)
	}

	// Missing ID yields a fresh UUID.
	generated := GetOrGenerate(context.Background())
	if _, err := uuid.Parse(generated); err != nil {
		t.Errorf("expected generated UUID, got %q: %v", generated, err)
	}
}

func TestHeaderConstants(t *testing.T) {
	if RequestIDHeader != "X-Request-ID" {
		t.Errorf("unexpected request ID header %q", RequestIDHeader)
	}
	if CorrelationIDHeader != "X-Correlation-ID" {
		t.Errorf("unexpected correlation ID header %q", CorrelationIDHeader)
	}
}
