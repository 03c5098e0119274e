package requestspro

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the middleware's request
// lifecycle. It is safe for concurrent use and optional: a session without a
// collector records nothing.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	retriesTotal   *prometheus.CounterVec
	redirectsTotal *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
}

// NewMetricsCollector creates a collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "requestspro_requests_total",
				Help: "Total number of logical requests completed",
			},
			[]string{"method", "status_code"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "requestspro_request_duration_seconds",
				Help:    "Duration of logical requests in seconds, all attempts included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "requestspro_requests_in_flight",
				Help: "Number of logical requests currently in flight",
			},
			[]string{"method"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "requestspro_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"method", "attempt"},
		),
		redirectsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "requestspro_redirects_total",
				Help: "Total number of redirect hops followed",
			},
			[]string{"method"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "requestspro_errors_total",
				Help: "Total number of classified attempt errors",
			},
			[]string{"kind", "method"},
		),
	}
}

// RecordRequestStart marks a logical request entering the middleware.
func (m *MetricsCollector) RecordRequestStart(method string) {
	m.requestsInFlight.WithLabelValues(method).Inc()
}

// RecordRequestEnd marks a logical request leaving the middleware.
func (m *MetricsCollector) RecordRequestEnd(method string, statusCode int, duration time.Duration) {
	m.requestsInFlight.WithLabelValues(method).Dec()
	code := strconv.Itoa(statusCode)
	m.requestsTotal.WithLabelValues(method, code).Inc()
	m.requestDuration.WithLabelValues(method, code).Observe(duration.Seconds())
}

// RecordRetry counts one retry attempt.
func (m *MetricsCollector) RecordRetry(method string, attempt int) {
	m.retriesTotal.WithLabelValues(method, strconv.Itoa(attempt)).Inc()
}

// RecordRedirect counts one followed redirect hop.
func (m *MetricsCollector) RecordRedirect(method string) {
	m.redirectsTotal.WithLabelValues(method).Inc()
}

// RecordError counts one classified attempt failure.
func (m *MetricsCollector) RecordError(kind, method string) {
	m.errorsTotal.WithLabelValues(kind, method).Inc()
}
