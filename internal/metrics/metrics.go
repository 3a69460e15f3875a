package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
		},
		[]string{"method", "endpoint"},
	)

	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		},
		[]string{"method", "endpoint"},
	)

	// Database metrics
	dbConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	dbConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	dbQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// Business metrics
	inquirySubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_submissions_total",
			Help: "Total number of persisted inquiries",
		},
		[]string{"kind"}, // parent, partner
	)

	inquiryValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_validation_failures_total",
			Help: "Total number of rejected inquiry payloads",
		},
		[]string{"kind"},
	)

	inquiryWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_write_failures_total",
			Help: "Total number of inquiry transactions rolled back",
		},
		[]string{"kind", "reason"}, // lookup, storage
	)

	inquiryStatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_status_changes_total",
			Help: "Total number of admin status transitions",
		},
		[]string{"status"},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of notification attempts",
		},
		[]string{"channel", "status"}, // success, failure
	)

	notifyQueueDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_queue_dropped_total",
			Help: "Total number of notification tasks dropped because the queue was full",
		},
	)
)

// PrometheusMiddleware creates a middleware that records Prometheus metrics
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip metrics endpoint itself
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		// Wrap response writer to capture status code and size
		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		path := routeLabel(r.URL.Path)

		// Record request size
		if r.ContentLength > 0 {
			httpRequestSize.WithLabelValues(r.Method, path).Observe(float64(r.ContentLength))
		}

		// Handle request
		next.ServeHTTP(wrapped, r)

		// Record metrics
		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, path, statusCode).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path, statusCode).Observe(duration)
		httpResponseSize.WithLabelValues(r.Method, path).Observe(float64(wrapped.size))
	})
}

// routeLabel replaces inquiry ids in path with {id} to bound label cardinality
func routeLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if _, err := uuid.Parse(seg); err == nil {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

// responseWriter wraps http.ResponseWriter to capture status code and response size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// RecordSubmission records a persisted inquiry
func RecordSubmission(kind string) {
	inquirySubmissionsTotal.WithLabelValues(kind).Inc()
}

// RecordValidationFailure records a rejected payload
func RecordValidationFailure(kind string) {
	inquiryValidationFailuresTotal.WithLabelValues(kind).Inc()
}

// RecordWriteFailure records a rolled back inquiry transaction
func RecordWriteFailure(kind, reason string) {
	inquiryWriteFailuresTotal.WithLabelValues(kind, reason).Inc()
}

// RecordStatusChange records an admin status transition
func RecordStatusChange(status string) {
	inquiryStatusChangesTotal.WithLabelValues(status).Inc()
}

// RecordNotification records one channel send attempt
func RecordNotification(channel string, success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	notificationsTotal.WithLabelValues(channel, status).Inc()
}

// RecordQueueDrop records a notification task dropped on a full queue
func RecordQueueDrop() {
	notifyQueueDroppedTotal.Inc()
}

// RecordDBQuery records a database query
func RecordDBQuery(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	dbQueriesTotal.WithLabelValues(operation, status).Inc()
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnections updates database connection metrics
func UpdateDBConnections(active, idle int) {
	dbConnectionsActive.Set(float64(active))
	dbConnectionsIdle.Set(float64(idle))
}

