package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/marketpulse/pulse-api/internal/insights"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Import metrics
	ImportBatches   prometheus.Counter
	ImportedRecords prometheus.Counter
	ImportFailures  prometheus.Counter

	// Insight engine metrics
	Evaluations        prometheus.Counter
	EvaluationDuration prometheus.Histogram
	InsightsEmitted    *prometheus.CounterVec

	// Report cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New creates and registers all metrics.
func New() *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),

		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pulse_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		ImportBatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulse_import_batches_total",
			Help: "Total metric import batches accepted",
		}),

		ImportedRecords: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulse_imported_records_total",
			Help: "Total daily metric records imported",
		}),

		ImportFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulse_import_failures_total",
			Help: "Total failed metric import attempts",
		}),

		Evaluations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulse_insight_evaluations_total",
			Help: "Total insight engine evaluations",
		}),

		EvaluationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pulse_insight_evaluation_duration_seconds",
			Help:    "Insight engine evaluation latency",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		}),

		InsightsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_insights_emitted_total",
			Help: "Insights emitted by group and severity",
		}, []string{"group", "severity"}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulse_report_cache_hits_total",
			Help: "Insight report cache hits",
		}),

		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulse_report_cache_misses_total",
			Help: "Insight report cache misses",
		}),
	}
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records one completed request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordImport records an accepted import batch.
func (m *Metrics) RecordImport(records int) {
	if m == nil {
		return
	}
	m.ImportBatches.Inc()
	m.ImportedRecords.Add(float64(records))
}

// RecordImportFailure records a failed import attempt.
func (m *Metrics) RecordImportFailure() {
	if m == nil {
		return
	}
	m.ImportFailures.Inc()
}

// RecordEvaluation records one engine run and the insights it emitted.
func (m *Metrics) RecordEvaluation(duration time.Duration, items []insights.InsightItem) {
	if m == nil {
		return
	}
	m.Evaluations.Inc()
	m.EvaluationDuration.Observe(duration.Seconds())
	for _, it := range items {
		m.InsightsEmitted.WithLabelValues(string(it.Group), string(it.Severity)).Inc()
	}
}

// RecordCacheHit and RecordCacheMiss track report cache effectiveness.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}
