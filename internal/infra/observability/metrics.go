package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpclient "go-ingest/pkg/http"
)

var (
	registry *prometheus.Registry

	// RowsAppendedTotal counts rows written by the sync engine. Watch for tables that stop growing.
	RowsAppendedTotal *prometheus.CounterVec
	// DuplicatesTotal counts rows dropped because their key was already persisted or already selected in the batch.
	DuplicatesTotal *prometheus.CounterVec
	// CollisionsTotal counts distinct key tuples that derived the same composite key. Should stay at zero.
	CollisionsTotal *prometheus.CounterVec
	// SkippedRecordsTotal counts malformed upstream items dropped by extractors.
	SkippedRecordsTotal *prometheus.CounterVec
	// SyncDuration observes one Sync call including lock wait, read and append.
	SyncDuration *prometheus.HistogramVec
	// UpstreamCallsTotal counts upstream API responses per status class. Watch for 4xx/5xx spikes.
	UpstreamCallsTotal *prometheus.CounterVec
	// UpstreamRetriesTotal counts retry attempts issued by the HTTP client.
	UpstreamRetriesTotal *prometheus.CounterVec
	// PipelineRunsTotal counts pipeline runs by trigger and outcome.
	PipelineRunsTotal *prometheus.CounterVec
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	RowsAppendedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncRowsAppendedTotal",
			Help: "Total number of rows appended to the store",
		},
		[]string{"table"},
	)
	DuplicatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncDuplicatesTotal",
			Help: "Total number of incoming rows skipped because their key already exists",
		},
		[]string{"table"},
	)
	CollisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncKeyCollisionsTotal",
			Help: "Total number of composite key collisions between different key tuples",
		},
		[]string{"table"},
	)
	SkippedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractSkippedRecordsTotal",
			Help: "Total number of malformed upstream records skipped by extractors",
		},
		[]string{"table"},
	)
	SyncDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "syncDurationSeconds",
			Help:    "Sync latency in seconds (per table)",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"table"},
	)
	UpstreamCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstreamCallsTotal",
			Help: "Total number of upstream API responses",
		},
		[]string{"upstream", "status"},
	)
	UpstreamRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstreamRetriesTotal",
			Help: "Total number of retry attempts for upstream API calls",
		},
		[]string{"upstream"},
	)
	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipelineRunsTotal",
			Help: "Total number of pipeline runs",
		},
		[]string{"trigger", "outcome"},
	)

	registry.MustRegister(
		RowsAppendedTotal, DuplicatesTotal, CollisionsTotal, SkippedRecordsTotal,
		SyncDuration,
		UpstreamCallsTotal, UpstreamRetriesTotal,
		PipelineRunsTotal,
	)
}

// SyncRecorder implements the sync engine metrics hooks on the package registry.
type SyncRecorder struct{}

func (SyncRecorder) ObserveSync(table string, appended, duplicates, collisions int, elapsed time.Duration) {
	RowsAppendedTotal.WithLabelValues(table).Add(float64(appended))
	DuplicatesTotal.WithLabelValues(table).Add(float64(duplicates))
	CollisionsTotal.WithLabelValues(table).Add(float64(collisions))
	SyncDuration.WithLabelValues(table).Observe(elapsed.Seconds())
}

func (SyncRecorder) SkippedRecord(table string) {
	SkippedRecordsTotal.WithLabelValues(table).Inc()
}

// RecordPipelineRun counts a run. outcome is "success" or "error".
func RecordPipelineRun(trigger string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	PipelineRunsTotal.WithLabelValues(trigger, outcome).Inc()
}

// StatusClass buckets an HTTP status into 2xx/3xx/4xx/5xx, or "error" when no response was received.
func StatusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}

// HTTPLogger counts upstream traffic and delegates logging to next.
type HTTPLogger struct {
	upstream string
	next     httpclient.HTTPLogger
}

// NewHTTPLogger wraps the zap client logger for upstream with call and retry counters.
func NewHTTPLogger(upstream string) *HTTPLogger {
	return &HTTPLogger{upstream: upstream, next: httpclient.NewZapLogger(upstream)}
}

func (l *HTTPLogger) LogRequest(method, url string, headers map[string]string, body string) {
	l.next.LogRequest(method, url, headers, body)
}

func (l *HTTPLogger) LogResponseSuccess(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64) {
	UpstreamCallsTotal.WithLabelValues(l.upstream, StatusClass(httpStatus)).Inc()
	l.next.LogResponseSuccess(method, url, headers, body, httpStatus, responseBody, latency)
}

func (l *HTTPLogger) LogResponseError(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error) {
	UpstreamCallsTotal.WithLabelValues(l.upstream, StatusClass(httpStatus)).Inc()
	l.next.LogResponseError(method, url, headers, body, httpStatus, responseBody, latency, err)
}

func (l *HTTPLogger) LogRequestRetry(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error, retryCount, maxRetries int) {
	UpstreamCallsTotal.WithLabelValues(l.upstream, StatusClass(httpStatus)).Inc()
	UpstreamRetriesTotal.WithLabelValues(l.upstream).Inc()
	l.next.LogRequestRetry(method, url, headers, body, httpStatus, responseBody, latency, err, retryCount, maxRetries)
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
