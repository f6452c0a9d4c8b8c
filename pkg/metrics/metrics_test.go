// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsEnabled(t *testing.T) {
	if !IsEnabled() {
		t.Error("expected metrics to be enabled by default")
	}

	Disable()
	if IsEnabled() {
		t.Error("expected metrics to be disabled after Disable()")
	}

	Enable()
	if !IsEnabled() {
		t.Error("expected metrics to be enabled after Enable()")
	}
}

func TestRecordOperation(t *testing.T) {
	Enable()
	OperationsTotal.Reset()
	OperationDuration.Reset()

	RecordOperation("hash", StatusSuccess, 0.05)

	if count := testutil.CollectAndCount(OperationsTotal); count != 1 {
		t.Errorf("expected 1 operation series, got %d", count)
	}
	if count := testutil.CollectAndCount(OperationDuration); count != 1 {
		t.Errorf("expected 1 histogram series, got %d", count)
	}

	RecordOperation("aes_encrypt", StatusError, 0.1)

	if count := testutil.CollectAndCount(OperationsTotal); count != 2 {
		t.Errorf("expected 2 operation series, got %d", count)
	}
}

func TestRecordOperationWhenDisabled(t *testing.T) {
	Disable()
	defer Enable()

	OperationsTotal.Reset()
	RecordOperation("hash", StatusSuccess, 0.05)

	if count := testutil.CollectAndCount(OperationsTotal); count != 0 {
		t.Errorf("expected 0 series when disabled, got %d", count)
	}
}

func TestRecordError(t *testing.T) {
	Enable()
	ErrorsTotal.Reset()

	RecordError("hex_decode", "invalid_hex")
	RecordError("aes_decrypt", "authentication_failed")

	if count := testutil.CollectAndCount(ErrorsTotal); count != 2 {
		t.Errorf("expected 2 error series, got %d", count)
	}
}

func TestRecordErrorWhenDisabled(t *testing.T) {
	Disable()
	defer Enable()

	ErrorsTotal.Reset()
	RecordError("hex_decode", "invalid_hex")

	if count := testutil.CollectAndCount(ErrorsTotal); count != 0 {
		t.Errorf("expected 0 error series when disabled, got %d", count)
	}
}

func TestRecordInvocation(t *testing.T) {
	Enable()
	InvocationsTotal.Reset()
	InvocationDuration.Reset()

	RecordInvocation("openssl", StatusSuccess, 0.02)
	RecordInvocation("xxd", StatusSuccess, 0.001)

	if count := testutil.CollectAndCount(InvocationsTotal); count != 2 {
		t.Errorf("expected 2 invocation series, got %d", count)
	}
	if count := testutil.CollectAndCount(InvocationDuration); count != 2 {
		t.Errorf("expected 2 invocation histogram series, got %d", count)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	Enable()
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "200", 0.05)

	if count := testutil.CollectAndCount(HTTPRequestsTotal); count != 1 {
		t.Errorf("expected 1 HTTP request series, got %d", count)
	}
	if count := testutil.CollectAndCount(HTTPRequestDuration); count != 1 {
		t.Errorf("expected 1 HTTP histogram series, got %d", count)
	}
}

func TestSandboxGauge(t *testing.T) {
	Enable()
	SandboxesActive.Set(0)

	IncrementSandboxes()
	IncrementSandboxes()
	DecrementSandboxes()

	if got := testutil.ToFloat64(SandboxesActive); got != 1 {
		t.Errorf("expected 1 active sandbox, got %v", got)
	}
}

func TestSetPQCProviderLoaded(t *testing.T) {
	Enable()

	SetPQCProviderLoaded(true)
	if got := testutil.ToFloat64(PQCProviderLoaded); got != 1 {
		t.Errorf("expected provider gauge 1, got %v", got)
	}

	SetPQCProviderLoaded(false)
	if got := testutil.ToFloat64(PQCProviderLoaded); got != 0 {
		t.Errorf("expected provider gauge 0, got %v", got)
	}
}

func TestMetricsNamespace(t *testing.T) {
	if Namespace != "vitruvian" {
		t.Errorf("expected namespace 'vitruvian', got %q", Namespace)
	}
}

func TestResourceGauges(t *testing.T) {
	Enable()

	Goroutines.Set(100)
	MemoryAllocBytes.Set(1024 * 1024)
	MemorySysBytes.Set(10 * 1024 * 1024)
	GCPauseTotalSeconds.Set(0.5)
	ServerUptime.Set(3600)

	collectors := []prometheus.Collector{
		Goroutines, MemoryAllocBytes, MemorySysBytes,
		GCPauseTotalSeconds, ServerUptime,
	}
	for _, collector := range collectors {
		if count := testutil.CollectAndCount(collector); count == 0 {
			t.Errorf("expected gauge %v to be collecting", collector)
		}
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	Enable()
	OperationsTotal.Reset()

	done := make(chan struct{})
	const updates = 100

	for i := 0; i < updates; i++ {
		go func() {
			RecordOperation("hash", StatusSuccess, 0.01)
			done <- struct{}{}
		}()
	}
	for i := 0; i < updates; i++ {
		<-done
	}

	if got := testutil.ToFloat64(OperationsTotal.WithLabelValues("hash", StatusSuccess)); got != updates {
		t.Errorf("expected %d recorded operations, got %v", updates, got)
	}
}

func BenchmarkRecordOperation(b *testing.B) {
	Enable()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		RecordOperation("hash", StatusSuccess, 0.001)
	}
}

func BenchmarkRecordHTTPRequest(b *testing.B) {
	Enable()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		RecordHTTPRequest("POST", "200", 0.001)
	}
}
