package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics records the lifecycle of a service operation.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
}

type prometheusOperationMetrics struct {
	service  string
	attempts *prometheus.CounterVec
	success  *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewOperationMetrics registers per-operation counters and a latency histogram
// for one module. A nil registry yields a no-op implementation.
func NewOperationMetrics(registry prometheus.Registerer, service string) OperationMetrics {
	if registry == nil {
		return NewNoopOperationMetrics()
	}

	m := &prometheusOperationMetrics{
		service: service,
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reelboard",
			Subsystem: service,
			Name:      "operation_attempts_total",
			Help:      "Number of attempted operations.",
		}, []string{"operation"}),
		success: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reelboard",
			Subsystem: service,
			Name:      "operation_success_total",
			Help:      "Number of operations that completed successfully.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reelboard",
			Subsystem: service,
			Name:      "operation_failures_total",
			Help:      "Number of operations that failed.",
		}, []string{"operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reelboard",
			Subsystem: service,
			Name:      "operation_duration_seconds",
			Help:      "Operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	registry.MustRegister(m.attempts, m.success, m.failures, m.duration)
	return m
}

func (m *prometheusOperationMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *prometheusOperationMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.success.WithLabelValues(operation).Inc()
}

func (m *prometheusOperationMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *prometheusOperationMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

type noopOperationMetrics struct{}

// NewNoopOperationMetrics discards every observation.
func NewNoopOperationMetrics() OperationMetrics { return noopOperationMetrics{} }

func (noopOperationMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (noopOperationMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (noopOperationMetrics) RecordOperationFailure(context.Context, string)                 {}
func (noopOperationMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
