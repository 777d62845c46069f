package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus registry and the application collectors.
type Metrics struct {
	Registry *prometheus.Registry

	// HTTPRequests counts requests by method, route pattern and status.
	HTTPRequests *prometheus.CounterVec
	// HTTPDuration observes request latency by route pattern.
	HTTPDuration *prometheus.HistogramVec

	// DatasetLoads counts full pipeline runs against the CSV file,
	// split into cache hits and misses.
	DatasetLoads *prometheus.CounterVec
	// DatasetRowsDropped tracks rows excluded by the cleaning policy in
	// the most recent load.
	DatasetRowsDropped prometheus.Gauge
}

// NewMetrics creates a registry with the standard Go collectors plus the
// explorer's own.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cordex_http_requests_total",
			Help: "HTTP requests processed, by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cordex_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cordex_dataset_loads_total",
			Help: "Dataset pipeline runs, by cache outcome.",
		}, []string{"outcome"}),
		DatasetRowsDropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cordex_dataset_rows_dropped",
			Help: "Rows excluded by the cleaning policy in the last load.",
		}),
	}

	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.DatasetLoads, m.DatasetRowsDropped)
	return m
}

// Handler returns the HTTP handler that serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
