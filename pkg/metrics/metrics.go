package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Prometheus collector the service exports. All
// collectors are registered on a private registry so tests can create
// throwaway instances without double-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP server
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Feature pipeline
	ValidationChecks   *prometheus.CounterVec
	EnumeratedFeatures *prometheus.GaugeVec
	CatalogDrift       prometheus.Counter

	// Caching and ingest
	CacheRequests *prometheus.CounterVec
	FeedMessages  *prometheus.CounterVec
	ScrapeErrors  prometheus.Counter
}

// New creates a Metrics instance with all collectors registered under the
// given namespace.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		ValidationChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "validation_checks_total",
			Help:      "Feature name validations by result.",
		}, []string{"result"}),

		EnumeratedFeatures: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "enumerated_count",
			Help:      "Features produced by the last enumeration, per group.",
		}, []string{"group"}),

		CatalogDrift: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "catalog_drift_total",
			Help:      "Enumerated candidates dropped by re-validation.",
		}),

		CacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache lookups by cache name and result (hit/miss).",
		}, []string{"cache", "result"}),

		FeedMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "feed_messages_total",
			Help:      "Lines feed messages by type.",
		}, []string{"type"}),

		ScrapeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "scrape_errors_total",
			Help:      "Box score scrape failures.",
		}),
	}
}

// Handler returns the /metrics endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
