package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Country detection metrics
	DetectionsTotal         *prometheus.CounterVec
	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration *prometheus.HistogramVec
	GeoCacheLookups         *prometheus.CounterVec

	// City store metrics
	CityQueriesTotal  *prometheus.CounterVec
	CityQueryDuration *prometheus.HistogramVec

	// Form session metrics
	FormSessionsActive prometheus.Gauge
	FormFieldChanges   *prometheus.CounterVec
	FormSubmissions    *prometheus.CounterVec
}

// New creates and registers all metrics with the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers all metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not panic.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint", "status"},
		),

		DetectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "country_detections_total",
				Help: "Total number of country detections by final status",
			},
			[]string{"status"},
		),

		ProviderRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geo_provider_requests_total",
				Help: "Total number of geolocation provider calls by outcome",
			},
			[]string{"provider", "outcome"},
		),

		ProviderRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "geo_provider_request_duration_seconds",
				Help:    "Geolocation provider latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),

		GeoCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geo_cache_lookups_total",
				Help: "Detection cache hits vs misses",
			},
			[]string{"result"},
		),

		CityQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "city_store_queries_total",
				Help: "Total number of city store queries",
			},
			[]string{"datastore", "status"},
		),

		CityQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "city_store_query_duration_seconds",
				Help:    "City store latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"datastore"},
		),

		FormSessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "form_sessions_active",
				Help: "Number of mounted form sessions",
			},
		),

		FormFieldChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "form_field_changes_total",
				Help: "Total number of form field changes by field and origin",
			},
			[]string{"field", "origin"},
		),

		FormSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "form_submissions_total",
				Help: "Total number of form submissions by result",
			},
			[]string{"result"},
		),
	}
}
