package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shahar-caura/aura/internal/router"
)

// Metrics holds the server's Prometheus collectors on a private registry.
// It implements router.Observer.
type Metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	fragments *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics registers the aura collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aura",
			Name:      "requests_total",
			Help:      "Chat requests received, by transport.",
		}, []string{"transport"}),
		fragments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aura",
			Name:      "fragments_total",
			Help:      "Fragments processed, by resolved intent.",
		}, []string{"intent"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aura",
			Name:      "fragment_failures_total",
			Help:      "Fragments whose action reported an error, by resolved intent.",
		}, []string{"intent"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aura",
			Name:      "fragment_duration_seconds",
			Help:      "Time spent executing one fragment, settle delay excluded.",
			Buckets:   []float64{.005, .05, .25, 1, 2.5, 5, 10, 20},
		}, []string{"intent"}),
	}
	m.registry.MustRegister(
		m.requests, m.fragments, m.failures, m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// CountRequest records one incoming request on transport.
func (m *Metrics) CountRequest(transport string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(transport).Inc()
}

// Observe records one executed fragment.
func (m *Metrics) Observe(_ context.Context, step router.Step) {
	kind := string(step.Kind)
	m.fragments.WithLabelValues(kind).Inc()
	if step.Error != "" {
		m.failures.WithLabelValues(kind).Inc()
	}
	m.duration.WithLabelValues(kind).Observe(step.Duration.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
