package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSessionLifecycleCounters(t *testing.T) {
	m := New()
	m.SessionStarted("grpc")
	m.SessionStarted("grpc")
	m.SessionEnded("grpc", OutcomeCancelled, 3*time.Second)
	m.Rejected(OutcomeInvalidArgument)
	m.SampleSent("grpc")
	m.SampleSent("grpc")

	if got := testutil.ToFloat64(m.sessionsActive.WithLabelValues("grpc")); got != 1 {
		t.Fatalf("active=%v", got)
	}
	if got := testutil.ToFloat64(m.sessionsTotal.WithLabelValues(OutcomeCancelled)); got != 1 {
		t.Fatalf("cancelled=%v", got)
	}
	if got := testutil.ToFloat64(m.sessionsTotal.WithLabelValues(OutcomeInvalidArgument)); got != 1 {
		t.Fatalf("invalid=%v", got)
	}
	if got := testutil.ToFloat64(m.samplesSent.WithLabelValues("grpc")); got != 2 {
		t.Fatalf("samples=%v", got)
	}
}

func TestStorageHook(t *testing.T) {
	m := New()
	h := m.Storage()
	h.ObserveWrite(time.Millisecond, 10)
	h.ObserveBatchCommit(time.Millisecond, 2, 32)
	if got := testutil.ToFloat64(m.storageBytes.WithLabelValues("write")); got != 10 {
		t.Fatalf("write bytes=%v", got)
	}
	if got := testutil.ToFloat64(m.storageBytes.WithLabelValues("commit")); got != 32 {
		t.Fatalf("commit bytes=%v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.SampleSent("sse")
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("status=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `dashboard_samples_sent_total{transport="sse"} 1`) {
		t.Fatalf("missing sample counter in exposition")
	}
}

func TestSampleSeriesBoundedByTransport(t *testing.T) {
	m := New()
	for i := 0; i < 500; i++ {
		m.SampleSent("grpc")
		m.SampleSent("sse")
	}
	if n := testutil.CollectAndCount(m.samplesSent); n != 2 {
		t.Fatalf("series=%d want 2", n)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.SessionStarted("grpc")
	m.SessionEnded("grpc", OutcomeInternal, time.Second)
	m.Rejected(OutcomePermissionDenied)
	m.SampleSent("s")
	m.MirrorFailed()
	m.Storage().ObserveRead(time.Millisecond, 1)
	if m.Registry() != nil {
		t.Fatalf("nil metrics should have no registry")
	}
}
