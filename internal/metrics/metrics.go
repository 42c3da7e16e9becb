// Package metrics holds the Prometheus collectors for the feed and its
// storage. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dashboard"

// Session outcome labels.
const (
	OutcomeCancelled        = "cancelled"
	OutcomeInternal         = "internal"
	OutcomeInvalidArgument  = "invalid_argument"
	OutcomePermissionDenied = "permission_denied"
)

// Metrics is the set of collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	sessionsActive  *prometheus.GaugeVec     // by transport
	sessionsTotal   *prometheus.CounterVec   // by outcome
	samplesSent     *prometheus.CounterVec   // by transport
	sessionDuration prometheus.Histogram     // terminated sessions only
	mirrorErrors    prometheus.Counter
	storageOps      *prometheus.HistogramVec // by op
	storageBytes    *prometheus.CounterVec   // by op
}

// New builds and registers all collectors on a fresh registry, including the
// Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Stream sessions currently running",
		}, []string{"transport"}),
		sessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "total",
			Help:      "Subscribe calls by outcome",
		}, []string{"outcome"}),
		samplesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "samples",
			Name:      "sent_total",
			Help:      "Samples pushed to subscribers",
		}, []string{"transport"}),
		sessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "duration_seconds",
			Help:      "Lifetime of terminated stream sessions",
			Buckets:   []float64{1, 5, 30, 60, 300, 900, 3600, 4 * 3600},
		}),
		mirrorErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mirror",
			Name:      "errors_total",
			Help:      "Samples that could not be mirrored to Redis",
		}),
		storageOps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "op_duration_seconds",
			Help:      "Pebble operation latency",
			Buckets:   []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"op"}),
		storageBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "bytes_total",
			Help:      "Bytes moved by Pebble operations",
		}, []string{"op"}),
	}
	m.registry.MustRegister(
		m.sessionsActive,
		m.sessionsTotal,
		m.samplesSent,
		m.sessionDuration,
		m.mirrorErrors,
		m.storageOps,
		m.storageBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SessionStarted increments the active gauge for transport.
func (m *Metrics) SessionStarted(transport string) {
	if m == nil {
		return
	}
	m.sessionsActive.WithLabelValues(transport).Inc()
}

// SessionEnded decrements the active gauge and records outcome and lifetime.
func (m *Metrics) SessionEnded(transport, outcome string, lifetime time.Duration) {
	if m == nil {
		return
	}
	m.sessionsActive.WithLabelValues(transport).Dec()
	m.sessionsTotal.WithLabelValues(outcome).Inc()
	m.sessionDuration.Observe(lifetime.Seconds())
}

// Rejected counts a Subscribe call that never became a session.
func (m *Metrics) Rejected(outcome string) {
	if m == nil {
		return
	}
	m.sessionsTotal.WithLabelValues(outcome).Inc()
}

// SampleSent counts one pushed sample. Source ids are client input and are
// deliberately not a label.
func (m *Metrics) SampleSent(transport string) {
	if m == nil {
		return
	}
	m.samplesSent.WithLabelValues(transport).Inc()
}

// MirrorFailed counts one failed mirror publish.
func (m *Metrics) MirrorFailed() {
	if m == nil {
		return
	}
	m.mirrorErrors.Inc()
}

// Storage returns a pebblestore.MetricsHook backed by these collectors.
func (m *Metrics) Storage() StorageHook { return StorageHook{m: m} }

// StorageHook adapts Metrics to the Pebble wrapper's hook interface.
type StorageHook struct{ m *Metrics }

func (h StorageHook) ObserveWrite(elapsed time.Duration, bytes int) {
	h.observe("write", elapsed, bytes)
}

func (h StorageHook) ObserveRead(elapsed time.Duration, bytes int) {
	h.observe("read", elapsed, bytes)
}

func (h StorageHook) ObserveBatchCommit(elapsed time.Duration, _ int, bytes int) {
	h.observe("commit", elapsed, bytes)
}

func (h StorageHook) observe(op string, elapsed time.Duration, bytes int) {
	if h.m == nil {
		return
	}
	h.m.storageOps.WithLabelValues(op).Observe(elapsed.Seconds())
	h.m.storageBytes.WithLabelValues(op).Add(float64(bytes))
}
