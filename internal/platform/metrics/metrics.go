package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the cut-list editor.
type Metrics struct {
	registry           *prometheus.Registry
	requestsTotal      prometheus.Counter
	editsAppliedTotal  *prometheus.CounterVec
	editsRejectedTotal *prometheus.CounterVec
	cutListsSavedTotal prometheus.Counter
	activeSessions     prometheus.Gauge
	errorsTotal        prometheus.Counter
	routeRequests      *prometheus.CounterVec
	routeDuration      *prometheus.HistogramVec
}

// New creates and registers Prometheus metrics for the editor.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cutlist_requests_total",
		Help: "Total number of HTTP requests received",
	})
	editsAppliedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cutlist_edits_applied_total",
		Help: "Total number of segment edits applied, by operation",
	}, []string{"op"})
	editsRejectedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cutlist_edits_rejected_total",
		Help: "Total number of segment edits rejected, by reason",
	}, []string{"reason"})
	cutListsSavedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cutlist_saved_total",
		Help: "Total number of cut lists persisted",
	})
	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cutlist_active_sessions",
		Help: "Number of open editing sessions",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cutlist_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	routeRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cutlist_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code",
	}, []string{"method", "route", "status"})
	routeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cutlist_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		requestsTotal,
		editsAppliedTotal,
		editsRejectedTotal,
		cutListsSavedTotal,
		activeSessions,
		errorsTotal,
		routeRequests,
		routeDuration,
	)

	return &Metrics{
		registry:           registry,
		requestsTotal:      requestsTotal,
		editsAppliedTotal:  editsAppliedTotal,
		editsRejectedTotal: editsRejectedTotal,
		cutListsSavedTotal: cutListsSavedTotal,
		activeSessions:     activeSessions,
		errorsTotal:        errorsTotal,
		routeRequests:      routeRequests,
		routeDuration:      routeDuration,
	}
}

// ObserveRequest records one request against its route pattern.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.routeRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.routeDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncEditsApplied counts an applied edit of the given operation.
func (m *Metrics) IncEditsApplied(op string) {
	m.editsAppliedTotal.WithLabelValues(op).Inc()
}

// IncEditsRejected counts a rejected edit with the given reason code.
func (m *Metrics) IncEditsRejected(reason string) {
	m.editsRejectedTotal.WithLabelValues(reason).Inc()
}

// IncCutListsSaved increments the saved cut lists counter.
func (m *Metrics) IncCutListsSaved() {
	m.cutListsSavedTotal.Inc()
}

// SetActiveSessions sets the open sessions gauge.
func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values (e.g. open sessions).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
