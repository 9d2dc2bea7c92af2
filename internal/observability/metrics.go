package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the ingestion
// pipeline.
type Metrics struct {
	IngestAttempts prometheus.Counter
	IngestSuccess  prometheus.Counter
	IngestFailures *prometheus.CounterVec // label: reason={malformed_input,schema_invalid,domain_invalid,storage_failure}
	IngestDuration prometheus.Histogram

	TimestampWarnings prometheus.Counter

	// Reading publisher metrics.
	ReadingsPublished prometheus.Counter
	PublishErrors     prometheus.Counter
}

// NewMetrics creates and registers all ingest metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		IngestAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tive_ingest",
			Name:      "attempts_total",
			Help:      "Total webhook payloads handed to the pipeline.",
		}),
		IngestSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tive_ingest",
			Name:      "success_total",
			Help:      "Total ingestions that persisted both canonical readings.",
		}),
		IngestFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tive_ingest",
			Name:      "failures_total",
			Help:      "Ingestion failures by classification.",
		}, []string{"reason"}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tive_ingest",
			Name:      "duration_seconds",
			Help:      "Duration of a complete validate-normalize-persist cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		TimestampWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tive_ingest",
			Name:      "timestamp_warnings_total",
			Help:      "Advisory timestamp plausibility warnings emitted.",
		}),
		ReadingsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tive_ingest",
			Name:      "readings_published_total",
			Help:      "Canonical readings published to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tive_ingest",
			Name:      "publish_errors_total",
			Help:      "Failed publishes of canonical readings.",
		}),
	}

	prometheus.MustRegister(
		m.IngestAttempts,
		m.IngestSuccess,
		m.IngestFailures,
		m.IngestDuration,
		m.TimestampWarnings,
		m.ReadingsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		IngestAttempts:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tive_ingest", Name: "attempts_total"}),
		IngestSuccess:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tive_ingest", Name: "success_total"}),
		IngestFailures:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "tive_ingest", Name: "failures_total"}, []string{"reason"}),
		IngestDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "tive_ingest", Name: "duration_seconds"}),
		TimestampWarnings: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tive_ingest", Name: "timestamp_warnings_total"}),
		ReadingsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tive_ingest", Name: "readings_published_total"}),
		PublishErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tive_ingest", Name: "publish_errors_total"}),
	}
}
