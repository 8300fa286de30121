// Package metrics exposes the gateway's Prometheus instrumentation.
//
// Metrics are registered on the default registry at init and served at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the per-IP rate limiter",
		},
	)

	// Upstream iceberg API Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of requests sent to the iceberg API",
		},
		[]string{"endpoint", "status"}, // status: HTTP code or "error"
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of iceberg API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// View-state coordinator Metrics
	ViewTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewstate_transitions_total",
			Help: "Total number of map view mode transitions",
		},
		[]string{"from_mode", "to_mode"},
	)

	StaleResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewstate_stale_results_total",
			Help: "Fetch results discarded because a newer transition happened first",
		},
		[]string{"operation"},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewstate_notifications_total",
			Help: "Transient notifications raised for the user",
		},
		[]string{"level"},
	)

	// Session Metrics
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of sessions with an in-memory coordinator",
		},
	)

	SessionLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_lookups_total",
			Help: "Session lookups by result",
		},
		[]string{"result"}, // "hit", "restored", "missing", "expired", "invalid"
	)

	// Dashboard Metrics
	DashboardChartFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_chart_failures_total",
			Help: "Dashboard charts rendered as an error panel",
		},
		[]string{"chart"},
	)
)

// RecordHTTPRequest records a served request
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackInFlight moves the in-flight gauge
func TrackInFlight(inc bool) {
	if inc {
		HTTPRequestsInFlight.Inc()
	} else {
		HTTPRequestsInFlight.Dec()
	}
}

// RecordUpstreamRequest records a request to the iceberg API. status is 0 for transport errors.
func RecordUpstreamRequest(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequestsTotal.WithLabelValues(endpoint, label).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordTransition records a coordinator mode change. Same-mode transitions are ignored.
func RecordTransition(from, to string) {
	if from == to {
		return
	}
	ViewTransitions.WithLabelValues(from, to).Inc()
}

// RecordStaleResult records a discarded fetch result
func RecordStaleResult(operation string) {
	StaleResults.WithLabelValues(operation).Inc()
}

// RecordNotification records a raised notification
func RecordNotification(level string) {
	Notifications.WithLabelValues(level).Inc()
}

// RecordSessionLookup records the outcome of resolving a session token
func RecordSessionLookup(result string) {
	SessionLookups.WithLabelValues(result).Inc()
}

// RecordChartFailure records a dashboard chart that fell back to an error panel
func RecordChartFailure(chart string) {
	DashboardChartFailures.WithLabelValues(chart).Inc()
}
