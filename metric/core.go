package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vcore"

// Metrics contains the engine and service level metrics.
type Metrics struct {
	// Engine metrics
	PacketsIngested   *prometheus.CounterVec
	IngestErrors      *prometheus.CounterVec
	Singularities     prometheus.Counter
	Anomalies         *prometheus.CounterVec
	PlacementDuration prometheus.Histogram
	TrailSize         prometheus.Gauge

	// Seed metrics
	SeedSnapshots prometheus.Counter
	SeedRestores  prometheus.Counter
	SeedErrors    *prometheus.CounterVec

	// Service metrics
	ServiceStatus prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all core metrics
func NewMetrics() *Metrics {
	return &Metrics{
		PacketsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "packets_ingested_total",
				Help:      "Total number of packets ingested, by placement region",
			},
			[]string{"region"},
		),

		IngestErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "ingest_errors_total",
				Help:      "Total number of rejected packets, by error class",
			},
			[]string{"class"},
		),

		Singularities: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "singularities_total",
				Help:      "Total number of singularity emissions",
			},
		),

		Anomalies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "anomalies_total",
				Help:      "Total number of anomalous placements, by reason",
			},
			[]string{"reason"},
		),

		PlacementDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "placement_duration_seconds",
				Help:      "Time spent measuring and placing one packet",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 8),
			},
		),

		TrailSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "trail_size",
				Help:      "Current number of entries in the placement trail",
			},
		),

		SeedSnapshots: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "seed",
				Name:      "snapshots_total",
				Help:      "Total number of seed snapshots taken",
			},
		),

		SeedRestores: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "seed",
				Name:      "restores_total",
				Help:      "Total number of successful seed restores",
			},
		),

		SeedErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "seed",
				Name:      "errors_total",
				Help:      "Total number of seed store failures, by operation",
			},
			[]string{"operation"},
		),

		ServiceStatus: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "service",
				Name:      "status",
				Help:      "Stream service status (0=stopped, 1=starting, 2=running, 3=stopping)",
			},
		),
	}
}

// collectors returns every metric for bulk registration.
func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.PacketsIngested,
		m.IngestErrors,
		m.Singularities,
		m.Anomalies,
		m.PlacementDuration,
		m.TrailSize,
		m.SeedSnapshots,
		m.SeedRestores,
		m.SeedErrors,
		m.ServiceStatus,
	}
}
