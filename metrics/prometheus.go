package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics implements the Metrics interface using Prometheus.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	// Submission metrics
	submissions        *prometheus.CounterVec
	submissionFailures *prometheus.CounterVec
	submitDuration     prometheus.Histogram

	// Settlement metrics
	pendingRequests    prometheus.Gauge
	settlements        prometheus.Counter
	settlementDuration prometheus.Histogram

	// Query metrics
	queries        *prometheus.CounterVec
	queryFailures  *prometheus.CounterVec
	decodeFailures *prometheus.CounterVec
	queryDuration  *prometheus.HistogramVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance.
func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	m := &PrometheusMetrics{
		registry: registry,

		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Total number of submitted transactions",
			},
			[]string{"endpoint"},
		),
		submissionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submission_failures_total",
				Help:      "Total number of ledger-rejected submissions",
			},
			[]string{"endpoint"},
		),
		submitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "submit_duration_seconds",
				Help:      "Duration of submission round trips",
				Buckets:   prometheus.DefBuckets,
			},
		),
		pendingRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pending_requests",
				Help:      "Current number of in-flight requests",
			},
		),
		settlements: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "settlements_total",
				Help:      "Total number of settled requests",
			},
		),
		settlementDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "settlement_duration_seconds",
				Help:      "Latency from submission to observed settlement",
				Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
			},
		),
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of read-only contract queries",
			},
			[]string{"function"},
		),
		queryFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "query_failures_total",
				Help:      "Total number of failed read-only queries",
			},
			[]string{"function"},
		),
		decodeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decode_failures_total",
				Help:      "Total number of query response decode failures",
			},
			[]string{"kind"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Duration of query round trips",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"function"},
		),
	}

	registry.MustRegister(
		m.submissions,
		m.submissionFailures,
		m.submitDuration,
		m.pendingRequests,
		m.settlements,
		m.settlementDuration,
		m.queries,
		m.queryFailures,
		m.decodeFailures,
		m.queryDuration,
	)

	return m
}

// Handler returns an HTTP handler serving the metrics registry.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Submission metrics

func (m *PrometheusMetrics) IncSubmissions(endpoint string) {
	m.submissions.WithLabelValues(endpoint).Inc()
}

func (m *PrometheusMetrics) IncSubmissionFailures(endpoint string) {
	m.submissionFailures.WithLabelValues(endpoint).Inc()
}

func (m *PrometheusMetrics) ObserveSubmitDuration(d time.Duration) {
	m.submitDuration.Observe(d.Seconds())
}

// Settlement metrics

func (m *PrometheusMetrics) SetPendingRequests(n int) {
	m.pendingRequests.Set(float64(n))
}

func (m *PrometheusMetrics) IncSettlements() {
	m.settlements.Inc()
}

func (m *PrometheusMetrics) ObserveSettlementDuration(d time.Duration) {
	m.settlementDuration.Observe(d.Seconds())
}

// Query metrics

func (m *PrometheusMetrics) IncQueries(function string) {
	m.queries.WithLabelValues(function).Inc()
}

func (m *PrometheusMetrics) IncQueryFailures(function string) {
	m.queryFailures.WithLabelValues(function).Inc()
}

func (m *PrometheusMetrics) IncDecodeFailures(kind string) {
	m.decodeFailures.WithLabelValues(kind).Inc()
}

func (m *PrometheusMetrics) ObserveQueryDuration(function string, d time.Duration) {
	m.queryDuration.WithLabelValues(function).Observe(d.Seconds())
}

// Ensure PrometheusMetrics implements Metrics.
var _ Metrics = (*PrometheusMetrics)(nil)
