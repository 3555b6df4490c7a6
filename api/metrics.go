package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warp/employee-directory/directory"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requests           *prometheus.CounterVec
	latency            *prometheus.HistogramVec
	exports            *prometheus.CounterVec
	validationFailures prometheus.Counter
}

// NewMetrics registers the directory collectors. records reports the current
// collection size on every scrape.
func NewMetrics(records func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "directory",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "directory",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "directory",
			Name:      "exports_total",
			Help:      "Completed exports by format and destination.",
		}, []string{"format", "destination"}),
		validationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "directory",
			Name:      "validation_failures_total",
			Help:      "Create or edit submissions rejected by validation.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requests,
		m.latency,
		m.exports,
		m.validationFailures,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "directory",
			Name:      "employees",
			Help:      "Employee records currently held.",
		}, func() float64 { return float64(records()) }),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument counts requests per chi route pattern.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) exported(format, destination string) {
	m.exports.WithLabelValues(format, destination).Inc()
}

// observe records validation failures carried by err.
func (m *Metrics) observe(err error) {
	if isValidation(err) {
		m.validationFailures.Inc()
	}
}

func storeSize(st directory.Store) func() int {
	return func() int { return len(st.Snapshot().Records) }
}
