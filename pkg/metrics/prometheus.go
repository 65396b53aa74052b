// Package metrics provides Prometheus metrics for the reconciliation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics
	pipelineRuns      *prometheus.CounterVec
	pipelineDuration  prometheus.Histogram
	fetchDuration     *prometheus.HistogramVec
	fetchErrors       *prometheus.CounterVec
	rowsMapped        *prometheus.CounterVec
	rowsRejected      *prometheus.CounterVec
	duplicates        prometheus.Counter
	orphans           prometheus.Counter
	attendees         prometheus.Gauge
	departmentPercent *prometheus.GaugeVec

	// Export metrics
	exports      *prometheus.CounterVec
	emptyExports *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "evalrecon",
		subsystem:        "pipeline",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   m.histogramBuckets,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.pipelineRuns = m.counterVec("runs_total",
		"Pipeline invocations by source and outcome", "source", "outcome")

	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "End-to-end pipeline latency including both fetches",
		Buckets:   m.histogramBuckets,
	})

	m.fetchDuration = m.histogramVec("fetch_duration_milliseconds",
		"Upstream fetch latency by source and dataset", "source", "dataset")

	m.fetchErrors = m.counterVec("fetch_errors_total",
		"Upstream fetch failures by source and dataset", "source", "dataset")

	m.rowsMapped = m.counterVec("rows_mapped_total",
		"Rows mapped into records by dataset", "dataset")

	m.rowsRejected = m.counterVec("rows_rejected_total",
		"Rows dropped for missing required fields by dataset", "dataset")

	m.duplicates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_attendees_total",
		Help:      "Attendee entries whose identity occurred more than once",
	})

	m.orphans = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "orphaned_responses_total",
		Help:      "Responses that matched no attendee",
	})

	m.attendees = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "attendees",
		Help:      "Deduplicated attendee count of the last run",
	})

	m.departmentPercent = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "department_completion_percent",
		Help:      "Completion percent per department of the last run",
	}, []string{"department"})

	m.exports = m.counterVec("exports_total",
		"Reports exported by kind and format", "kind", "format")

	m.emptyExports = m.counterVec("empty_exports_total",
		"Export requests that had nothing to export", "kind")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")

	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByType = m.counterVec("errors_by_type_total",
		"Total number of errors by type", "error_type", "severity")

	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.errorLatency = m.histogramVec("error_latency_milliseconds",
		"Latency of operations that resulted in errors", "component", "error_type")

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Pipeline Metrics Functions.

// RecordPipelineRun counts one invocation and observes its latency.
func RecordPipelineRun(source, outcome string, durationMs float64) {
	globalManager.pipelineRuns.WithLabelValues(source, outcome).Inc()
	globalManager.pipelineDuration.Observe(durationMs)
}

// RecordFetch observes one upstream fetch; failed fetches are also counted.
func RecordFetch(source, dataset string, durationMs float64, failed bool) {
	globalManager.fetchDuration.WithLabelValues(source, dataset).Observe(durationMs)
	if failed {
		globalManager.fetchErrors.WithLabelValues(source, dataset).Inc()
	}
}

// RecordRows adds mapped and rejected row counts for a dataset.
func RecordRows(dataset string, mapped, rejected int) {
	globalManager.rowsMapped.WithLabelValues(dataset).Add(float64(mapped))
	globalManager.rowsRejected.WithLabelValues(dataset).Add(float64(rejected))
}

// RecordDuplicates adds colliding attendee entries.
func RecordDuplicates(n int) {
	globalManager.duplicates.Add(float64(n))
}

// RecordOrphans adds responses without attendee.
func RecordOrphans(n int) {
	globalManager.orphans.Add(float64(n))
}

// UpdateAttendees sets the deduplicated attendee count.
func UpdateAttendees(n int) {
	globalManager.attendees.Set(float64(n))
}

// UpdateDepartmentPercent sets the completion percent of a department.
func UpdateDepartmentPercent(department string, percent int) {
	globalManager.departmentPercent.WithLabelValues(department).Set(float64(percent))
}

// ResetDepartmentPercent drops departments of earlier runs.
func ResetDepartmentPercent() {
	globalManager.departmentPercent.Reset()
}

// Export Metrics Functions.

// RecordExport counts an export that produced output.
func RecordExport(kind, format string) {
	globalManager.exports.WithLabelValues(kind, format).Inc()
}

// RecordEmptyExport counts an export request with nothing to export.
func RecordEmptyExport(kind string) {
	globalManager.emptyExports.WithLabelValues(kind).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
