package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for series lookups
// and batch aggregation.
type Metrics struct {
	// Series lookup metrics.
	FetchRequests *prometheus.CounterVec // labels: outcome={success,remote_error,transport_error}
	FetchDuration prometheus.Histogram

	// Batch aggregation metrics.
	BatchRecords  *prometheus.CounterVec // labels: outcome={fetched,skipped}
	BatchSize     prometheus.Histogram
	BatchDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satveg",
			Name:      "fetch_requests_total",
			Help:      "Series lookups by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "satveg",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of one series lookup against the SATVeg API.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		BatchRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satveg",
			Name:      "batch_records_total",
			Help:      "Batch input records by outcome.",
		}, []string{"outcome"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "satveg",
			Name:      "batch_size",
			Help:      "Number of records per batch.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "satveg",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete read-fetch-merge batch run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
	}

	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.BatchRecords,
		m.BatchSize,
		m.BatchDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "satveg", Name: "fetch_requests_total"}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "satveg", Name: "fetch_duration_seconds"}),
		BatchRecords:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "satveg", Name: "batch_records_total"}, []string{"outcome"}),
		BatchSize:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "satveg", Name: "batch_size"}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "satveg", Name: "batch_duration_seconds"}),
	}
}
