package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// pricing service.
type Metrics struct {
	PredictionsTotal   *prometheus.CounterVec // labels: branch={statistical,heuristic}
	PredictionDuration prometheus.Histogram
	ModelLoaded        prometheus.Gauge

	// Mapping-provider metrics.
	MapsRequests    *prometheus.CounterVec   // labels: op={driving,places}, outcome={success,empty,error}
	MapsCache       *prometheus.CounterVec   // labels: op={driving,places}, result={hit,miss}
	MapsAPIDuration *prometheus.HistogramVec // labels: op={driving,places}
	MapsEnabled     prometheus.Gauge

	// Scraper metrics.
	ScrapeRuns       prometheus.Counter
	ListingsScraped  prometheus.Counter
	InsightFallbacks prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.PredictionsTotal,
		m.PredictionDuration,
		m.ModelLoaded,
		m.MapsRequests,
		m.MapsCache,
		m.MapsAPIDuration,
		m.MapsEnabled,
		m.ScrapeRuns,
		m.ListingsScraped,
		m.InsightFallbacks,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "land_price",
			Name:      "predictions_total",
			Help:      "Price predictions served, by estimation branch.",
		}, []string{"branch"}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "land_price",
			Name:      "prediction_duration_seconds",
			Help:      "End-to-end duration of one prediction request.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ModelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "land_price",
			Name:      "model_loaded",
			Help:      "1 when a trained model snapshot is loaded, 0 otherwise.",
		}),
		MapsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "land_price",
			Name:      "maps_requests_total",
			Help:      "Mapping API requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		MapsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "land_price",
			Name:      "maps_cache_total",
			Help:      "Mapping cache lookups by operation and result.",
		}, []string{"op", "result"}),
		MapsAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "land_price",
			Name:      "maps_api_duration_seconds",
			Help:      "Mapping API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"op"}),
		MapsEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "land_price",
			Name:      "maps_enabled",
			Help:      "1 when external distance resolution is enabled, 0 otherwise.",
		}),
		ScrapeRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "land_price",
			Name:      "scrape_runs_total",
			Help:      "Market-data scrape runs triggered.",
		}),
		ListingsScraped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "land_price",
			Name:      "listings_scraped_total",
			Help:      "Listings collected by the scraper.",
		}),
		InsightFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "land_price",
			Name:      "insight_fallbacks_total",
			Help:      "Requests answered with default market insights.",
		}),
	}
}
