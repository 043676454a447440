package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domain "github.com/bryanwahyu/rdflg/internal/domain/tos"
)

// Metrics holds the gateway's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal      *prometheus.CounterVec
	requestsInProgress prometheus.Gauge
	requestDuration    *prometheus.HistogramVec

	completionsTotal  *prometheus.CounterVec
	completionLatency *prometheus.HistogramVec
}

// NewMetrics registers all collectors on a fresh registry, together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rdflg_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		requestsInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rdflg_http_requests_in_progress",
			Help: "HTTP requests currently being served.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rdflg_http_request_duration_seconds",
			Help:    "HTTP request duration.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"route", "method"}),
		completionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rdflg_llm_completions_total",
			Help: "LLM completion calls by kind and outcome.",
		}, []string{"kind", "outcome"}),
		completionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rdflg_llm_completion_latency_ms",
			Help:    "LLM completion latency in milliseconds.",
			Buckets: prometheus.ExponentialBuckets(250, 2, 10),
		}, []string{"kind"}),
	}
	reg.MustRegister(
		m.requestsTotal, m.requestsInProgress, m.requestDuration,
		m.completionsTotal, m.completionLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware tracks request counts, in-flight requests and durations.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestsInProgress.Inc()
		defer m.requestsInProgress.Dec()

		start := time.Now()
		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
		m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// ObserveCompletion records one completion call.
func (m *Metrics) ObserveCompletion(kind domain.Kind, err error, latencyMs float64) {
	m.completionsTotal.WithLabelValues(string(kind), completionOutcome(err)).Inc()
	if err == nil {
		m.completionLatency.WithLabelValues(string(kind)).Observe(latencyMs)
	}
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func completionOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrCompletionTimeout):
		return "timeout"
	default:
		return "error"
	}
}
