package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ImportMetrics records telemetry for the import pipeline. A NoOp
// implementation is provided for tests.
type ImportMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, d time.Duration)

	RecordSessionStarted(ctx context.Context, schemaKind string)
	RecordRowsClassified(ctx context.Context, status string, count int)
	RecordCommit(ctx context.Context, schemaKind string, added, replaced int)
}

// PrometheusMetrics implements ImportMetrics on a prometheus registry.
type PrometheusMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec

	sessions  *prometheus.CounterVec
	rows      *prometheus.CounterVec
	committed *prometheus.CounterVec
}

// NewPrometheusMetrics registers the import metric set on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "import_operation_attempts_total",
			Help: "Import service operations attempted.",
		}, []string{"operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "import_operation_successes_total",
			Help: "Import service operations completed without error.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "import_operation_failures_total",
			Help: "Import service operations that returned an error.",
		}, []string{"operation"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "import_operation_duration_seconds",
			Help:    "Import service operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "import_sessions_started_total",
			Help: "Import sessions started, by target schema.",
		}, []string{"schema"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "import_rows_classified_total",
			Help: "Rows classified by the reconciler, by status.",
		}, []string{"status"}),
		committed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "import_records_committed_total",
			Help: "Records handed to the stores on commit.",
		}, []string{"schema", "mode"}),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.durations, m.sessions, m.rows, m.committed)
	return m
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation string, d time.Duration) {
	m.durations.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordSessionStarted(_ context.Context, schemaKind string) {
	m.sessions.WithLabelValues(schemaKind).Inc()
}

func (m *PrometheusMetrics) RecordRowsClassified(_ context.Context, status string, count int) {
	m.rows.WithLabelValues(status).Add(float64(count))
}

func (m *PrometheusMetrics) RecordCommit(_ context.Context, schemaKind string, added, replaced int) {
	m.committed.WithLabelValues(schemaKind, "add").Add(float64(added))
	m.committed.WithLabelValues(schemaKind, "replace").Add(float64(replaced))
}

// NoOpMetrics is an ImportMetrics that records nothing.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordSessionStarted(context.Context, string)                   {}
func (NoOpMetrics) RecordRowsClassified(context.Context, string, int)              {}
func (NoOpMetrics) RecordCommit(context.Context, string, int, int)                 {}
