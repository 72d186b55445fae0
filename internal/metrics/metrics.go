// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	ModerationActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_actions_total",
			Help: "Gallery moderation actions by outcome",
		},
		[]string{"action"},
	)

	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Image uploads by result",
		},
		[]string{"result"},
	)

	FeedbackSubmissions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Accepted feedback submissions",
		},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of content store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Content store failures",
		},
		[]string{"operation", "collection"},
	)

	JanitorRemovedFiles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upload_janitor_removed_files_total",
			Help: "Orphaned upload files removed by the janitor",
		},
	)

	ClientCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_cache_lookups_total",
			Help: "API client cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordStoreOperation records the latency and outcome of a store call.
func RecordStoreOperation(operation, collection string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if err != nil {
		StoreErrors.WithLabelValues(operation, collection).Inc()
	}
}

func RecordModeration(action string) {
	ModerationActions.WithLabelValues(action).Inc()
}

func RecordUpload(result string) {
	Uploads.WithLabelValues(result).Inc()
}

func RecordFeedback() {
	FeedbackSubmissions.Inc()
}

func RecordJanitorRemoval(n int) {
	JanitorRemovedFiles.Add(float64(n))
}

func RecordCacheLookup(hit bool) {
	if hit {
		ClientCacheHits.WithLabelValues("hit").Inc()
		return
	}
	ClientCacheHits.WithLabelValues("miss").Inc()
}
