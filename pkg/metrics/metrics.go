// Package metrics exposes the Prometheus instruments used by the HTTP layer
// and the outbox publisher.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the collectors so binaries can register exactly the set
// they need instead of sharing process-global state.
type Registry struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OutboxPublishedTotal *prometheus.CounterVec
	OutboxPendingEvents  prometheus.Gauge
}

// New builds a registry with all collectors registered, plus the standard Go
// and process collectors.
func New(serviceName string) *Registry {
	reg := prometheus.NewRegistry()

	m := &Registry{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "payvault",
			Name:        "http_requests_total",
			Help:        "Count of HTTP requests by method, route and status class.",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "payvault",
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by method and route.",
			ConstLabels: prometheus.Labels{"service": serviceName},
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		OutboxPublishedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "payvault",
			Name:        "outbox_published_total",
			Help:        "Count of outbox events published, by event type and result.",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}, []string{"event_type", "result"}),
		OutboxPendingEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "payvault",
			Name:        "outbox_pending_events",
			Help:        "Unpublished events observed on the last poll.",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}),
	}

	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OutboxPublishedTotal,
		m.OutboxPendingEvents,
	)
	return m
}

// Handler returns the scrape endpoint for this registry.
func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests.
func (m *Registry) Gatherer() prometheus.Gatherer {
	return m.registry
}
