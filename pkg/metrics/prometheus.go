// Package metrics provides Prometheus metrics for the edash records service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Business metrics
	scoresComputed   prometheus.Counter
	scoresSkipped    prometheus.Counter
	assistantQueries *prometheus.CounterVec
	assistantActions *prometheus.CounterVec

	// Operational health metrics
	studentsTotal   prometheus.Gauge
	activityEntries prometheus.Gauge

	// Store metrics
	storeQueryLatency prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "edash",
		subsystem:        "records",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scoresComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_computed_total",
		Help:      "Total number of composite performance scores computed",
	})

	m.scoresSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_updates_skipped_total",
		Help:      "Total score updates skipped because the score did not change",
	})

	m.assistantQueries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assistant_queries_total",
		Help:      "Total assistant queries by recognized intent",
	}, []string{"intent"})

	m.assistantActions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assistant_actions_total",
		Help:      "Total UI actions emitted by assistant responses",
	}, []string{"action"})

	m.studentsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "students_total",
		Help:      "Number of student records currently stored",
	})

	m.activityEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "activity_entries",
		Help:      "Number of entries retained in the activity log",
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Histogram of record store snapshot query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "Total HTTP error responses by endpoint and error type",
	}, []string{"endpoint", "method", "error_type"})
}

// RecordScoreComputed increments the computed-score counter.
func RecordScoreComputed() {
	if globalManager.enabled {
		globalManager.scoresComputed.Inc()
	}
}

// RecordScoreUpdateSkipped counts a save whose score matched the last sample.
func RecordScoreUpdateSkipped() {
	if globalManager.enabled {
		globalManager.scoresSkipped.Inc()
	}
}

// RecordAssistantQuery counts one interpreted query by intent.
func RecordAssistantQuery(intent string) {
	if globalManager.enabled {
		globalManager.assistantQueries.WithLabelValues(intent).Inc()
	}
}

// RecordAssistantAction counts one emitted UI action by type.
func RecordAssistantAction(action string) {
	if globalManager.enabled {
		globalManager.assistantActions.WithLabelValues(action).Inc()
	}
}

// UpdateStudentsTotal sets the stored-records gauge.
func UpdateStudentsTotal(count int) {
	if globalManager.enabled {
		globalManager.studentsTotal.Set(float64(count))
	}
}

// UpdateActivityEntries sets the activity log gauge.
func UpdateActivityEntries(count int) {
	if globalManager.enabled {
		globalManager.activityEntries.Set(float64(count))
	}
}

// RecordStoreQueryLatency observes one store snapshot query.
func RecordStoreQueryLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.storeQueryLatency.Observe(latencyMs)
	}
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes one HTTP request's duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordHTTPError counts one HTTP error response.
func RecordHTTPError(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// GetRegistry returns the custom registry serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
