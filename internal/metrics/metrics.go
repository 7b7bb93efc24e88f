package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Index Metrics
	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodreel_catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)

	VocabularyTerms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodreel_vocabulary_terms",
			Help: "Number of distinct terms in the TF-IDF vocabulary",
		},
	)

	IndexBuildDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodreel_index_build_duration_seconds",
			Help: "Time spent loading and indexing the catalog at startup",
		},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodreel_recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"status"},
	)

	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodreel_rank_duration_seconds",
			Help:    "Time spent scoring and ranking one query",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodreel_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodreel_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordIndex publishes the size of a freshly built index.
func RecordIndex(movies, terms int, elapsed time.Duration) {
	CatalogMovies.Set(float64(movies))
	VocabularyTerms.Set(float64(terms))
	IndexBuildDuration.Set(elapsed.Seconds())
}

// RecordRecommendation counts one request outcome and its ranking time.
func RecordRecommendation(status string, elapsed time.Duration) {
	RecommendationsTotal.WithLabelValues(status).Inc()
	if elapsed > 0 {
		RankDuration.Observe(elapsed.Seconds())
	}
}

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, elapsed time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}
