// Package metrics exposes crawl progress as Prometheus metrics.
//
// A crawl is a batch job, so nothing is served over HTTP. The metrics live in
// a private registry and are written to a file in the text exposition format
// for the node exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for a crawl run.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Pages counts processed IDs by outcome.
	Pages *prometheus.CounterVec

	// FetchDuration observes detail page download latency.
	FetchDuration prometheus.Histogram

	// Records is the size of the stored collection.
	Records prometheus.Gauge
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Pages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rpvsharvest_pages_total",
			Help: "Processed partner IDs by outcome",
		}, []string{"outcome"}), // outcome: cached, saved, empty, fetch_failed, extract_failed

		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rpvsharvest_fetch_duration_seconds",
			Help:    "Duration of partner detail page downloads",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		Records: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rpvsharvest_records_total",
			Help: "Number of records in the output collection",
		}),
	}
}

// IncrementPage records one processed ID.
func (m *Metrics) IncrementPage(outcome string) {
	if m != nil {
		m.Pages.WithLabelValues(outcome).Inc()
	}
}

// ObserveFetch records the duration of one download.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m != nil {
		m.FetchDuration.Observe(d.Seconds())
	}
}

// SetRecords records the collection size.
func (m *Metrics) SetRecords(n int) {
	if m != nil {
		m.Records.Set(float64(n))
	}
}

// Gatherer returns the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
