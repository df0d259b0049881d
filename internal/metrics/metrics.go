package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the front end. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	apiRequests       *prometheus.CounterVec
	apiDuration       *prometheus.HistogramVec
	httpRequests      *prometheus.CounterVec
	insightsRefreshes *prometheus.CounterVec
}

// New creates a registry with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trgovina",
			Name:      "api_requests_total",
			Help:      "Requests issued to the business API, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "trgovina",
			Name:      "api_request_duration_seconds",
			Help:      "Latency of requests issued to the business API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trgovina",
			Name:      "http_requests_total",
			Help:      "Requests served by the front end, by route and status.",
		}, []string{"method", "route", "status"}),
		insightsRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trgovina",
			Name:      "insights_refreshes_total",
			Help:      "Insights section refreshes, by section and outcome.",
		}, []string{"section", "outcome"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiDuration,
		m.httpRequests,
		m.insightsRefreshes,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveAPI records one API call.
func (m *Metrics) ObserveAPI(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(operation, outcome).Inc()
	m.apiDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveRefresh records the outcome of refreshing one insights section.
func (m *Metrics) ObserveRefresh(section, outcome string) {
	if m == nil {
		return
	}
	m.insightsRefreshes.WithLabelValues(section, outcome).Inc()
}
