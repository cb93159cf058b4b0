package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline and the weather enrichment path.
type Metrics struct {
	RowsProcessed    prometheus.Counter
	ShipmentsCreated prometheus.Counter
	ArticlesCreated  prometheus.Counter
	RowErrors        prometheus.Counter
	IngestRunning    prometheus.Gauge

	// Batch processing metrics.
	BatchDuration prometheus.Histogram

	// Seed job metrics.
	JobsProcessed *prometheus.CounterVec // labels: outcome={success,failure}

	// Weather enrichment metrics.
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,error}
	WeatherCache       *prometheus.CounterVec // labels: result={hit,miss}
	WeatherAPIDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parcel_tracking",
			Name:      "seed_rows_processed_total",
			Help:      "Total CSV rows handed to the row processor.",
		}),
		ShipmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parcel_tracking",
			Name:      "seed_shipments_created_total",
			Help:      "Total shipments created by seed ingestion.",
		}),
		ArticlesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parcel_tracking",
			Name:      "seed_articles_created_total",
			Help:      "Total articles created by seed ingestion.",
		}),
		RowErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parcel_tracking",
			Name:      "seed_row_errors_total",
			Help:      "Total rows rejected with a row-level error.",
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "parcel_tracking",
			Name:      "seed_ingest_running",
			Help:      "1 while an ingestion run is active, 0 otherwise.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "parcel_tracking",
			Name:      "seed_batch_duration_seconds",
			Help:      "Duration of one batch transaction including row processing.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		JobsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parcel_tracking",
			Name:      "seed_jobs_processed_total",
			Help:      "Seed ingestion jobs by outcome.",
		}, []string{"outcome"}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parcel_tracking",
			Name:      "weather_requests_total",
			Help:      "OpenWeatherMap lookups by outcome.",
		}, []string{"outcome"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parcel_tracking",
			Name:      "weather_cache_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "parcel_tracking",
			Name:      "weather_api_duration_seconds",
			Help:      "OpenWeatherMap request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}

	prometheus.MustRegister(
		m.RowsProcessed,
		m.ShipmentsCreated,
		m.ArticlesCreated,
		m.RowErrors,
		m.IngestRunning,
		m.BatchDuration,
		m.JobsProcessed,
		m.WeatherRequests,
		m.WeatherCache,
		m.WeatherAPIDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RowsProcessed:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "parcel_tracking", Name: "seed_rows_processed_total"}),
		ShipmentsCreated:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "parcel_tracking", Name: "seed_shipments_created_total"}),
		ArticlesCreated:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "parcel_tracking", Name: "seed_articles_created_total"}),
		RowErrors:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "parcel_tracking", Name: "seed_row_errors_total"}),
		IngestRunning:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "parcel_tracking", Name: "seed_ingest_running"}),
		BatchDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "parcel_tracking", Name: "seed_batch_duration_seconds"}),
		JobsProcessed:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "parcel_tracking", Name: "seed_jobs_processed_total"}, []string{"outcome"}),
		WeatherRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "parcel_tracking", Name: "weather_requests_total"}, []string{"outcome"}),
		WeatherCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "parcel_tracking", Name: "weather_cache_total"}, []string{"result"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "parcel_tracking", Name: "weather_api_duration_seconds"}),
	}
}
