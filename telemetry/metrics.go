package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scoutdesk"

// Metrics is a Recorder backed by Prometheus counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	ImportsTotal  *prometheus.CounterVec
	RowsTotal     *prometheus.CounterVec
	StatsFailures prometheus.Counter
	BatchRows     prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ImportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "import",
				Name:      "batches_total",
				Help:      "Total number of import batches processed",
			},
			[]string{"file_type"},
		),
		RowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "import",
				Name:      "rows_total",
				Help:      "Total number of imported rows by outcome",
			},
			[]string{"file_type", "outcome"},
		),
		StatsFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "import",
				Name:      "stats_failures_total",
				Help:      "Season statistics records that could not be created for an imported player",
			},
		),
		BatchRows: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "import",
				Name:      "batch_rows",
				Help:      "Number of data rows per import batch",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
			},
		),
	}

	m.registry.MustRegister(m.ImportsTotal, m.RowsTotal, m.StatsFailures, m.BatchRows)
	return m
}

func (m *Metrics) RecordImport(_ context.Context, event Event) error {
	m.ImportsTotal.WithLabelValues(event.FileType).Inc()
	m.RowsTotal.WithLabelValues(event.FileType, "successful").Add(float64(event.Successful))
	m.RowsTotal.WithLabelValues(event.FileType, "failed").Add(float64(event.Failed))
	m.RowsTotal.WithLabelValues(event.FileType, "duplicate").Add(float64(event.Duplicates))
	m.StatsFailures.Add(float64(event.StatsFailures))
	m.BatchRows.Observe(float64(event.TotalRows))
	return nil
}

// Registry exposes the registry the counters live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
