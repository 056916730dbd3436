package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetricsRecorder exports archive operation counters and latency
// histograms on a caller-supplied registry.
type PrometheusMetricsRecorder struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewPrometheusMetricsRecorder registers the archive collectors on reg. A nil
// reg uses prometheus.DefaultRegisterer.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) *PrometheusMetricsRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &PrometheusMetricsRecorder{
		// Labels: operation (save, load, validate, list), status (success, error)
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "familytree",
			Subsystem: "archive",
			Name:      "operations_total",
			Help:      "Archive operations by outcome",
		}, []string{"operation", "status"}),
		// Labels: operation
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "familytree",
			Subsystem: "archive",
			Name:      "operation_duration_seconds",
			Help:      "Archive operation latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
	}
}

// Observe implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.operations.WithLabelValues(operation, status).Inc()
	r.latency.WithLabelValues(operation).Observe(duration.Seconds())
}
