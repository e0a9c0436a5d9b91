// Package metrics provides a Prometheus-backed MetricsCollector for
// monitoring gateway traffic, orchestration sessions, and benchmark
// runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/formul8/orchestra/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It tracks gateway request volume and token consumption,
// per-operation latency, and benchmark score distributions.
type PrometheusMetrics struct {
	requestCounter   *prometheus.CounterVec
	tokenCounter     *prometheus.CounterVec
	operationCounter *prometheus.CounterVec
	latency          *prometheus.HistogramVec
	scoreHistogram   *prometheus.HistogramVec
	valueHistogram   *prometheus.HistogramVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and
// registers all required metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		requestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_requests_total",
				Help: "Total number of completion requests sent to LLM providers.",
			},
			[]string{"model", "status"},
		),
		tokenCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_tokens_total",
				Help: "Total number of tokens consumed across all LLM interactions.",
			},
			[]string{"model", "token_type"},
		),
		operationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orchestra_operations_total",
				Help: "Total number of operations performed across the platform.",
			},
			[]string{"operation", "status"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orchestra_operation_duration_seconds",
				Help:    "Execution time of platform operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "status"},
		),
		scoreHistogram: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "benchmark_score",
				Help:    "Distribution of overall benchmark scores per agent.",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"benchmark", "agent"},
		),
		valueHistogram: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orchestra_observed_values",
				Help:    "General-purpose value distributions keyed by metric name.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string, duration time.Duration, labels map[string]string,
) {
	status, ok := labels["status"]
	if !ok {
		status = "success"
	}
	pm.latency.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by
// incrementing Prometheus counters. Gateway metrics map onto dedicated
// counter vectors; everything else lands on the operation counter.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	status, ok := labels["status"]
	if !ok {
		status = "success"
	}

	switch metric {
	case "gateway_requests_total":
		pm.requestCounter.WithLabelValues(labels["model"], status).Add(value)
	case "gateway_tokens_total":
		pm.tokenCounter.WithLabelValues(labels["model"], labels["token_type"]).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, status).Add(value)
	}
}

// RecordHistogram implements the MetricsCollector interface by
// observing values in Prometheus histograms. Benchmark scores use a
// fixed 0-100 bucket layout; other metrics share a general histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	if metric == "benchmark_score" {
		pm.scoreHistogram.WithLabelValues(labels["benchmark"], labels["agent"]).Observe(value)
		return
	}
	pm.valueHistogram.WithLabelValues(metric).Observe(value)
}
