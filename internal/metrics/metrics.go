// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered on the default registry at init via promauto.
// Callers use the Record* helpers rather than touching the vectors, so
// label sets stay consistent.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Recommendation requests by variant and outcome",
		},
		[]string{"variant", "outcome"}, // outcome: ok, invalid_request, no_valid_seeds, unavailable, timeout, error
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time to produce a recommendation list",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		},
		[]string{"variant"},
	)

	UnresolvedSeedsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_unresolved_seeds_total",
			Help: "Seed titles that could not be used, by variant",
		},
		[]string{"variant"},
	)

	// Training Metrics
	TrainingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_training_runs_total",
			Help: "Collaborative model training runs by algorithm and outcome",
		},
		[]string{"algorithm", "outcome"}, // outcome: success, failure, skipped
	)

	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_training_duration_seconds",
			Help:    "Duration of collaborative model training",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900, 1800},
		},
		[]string{"algorithm"},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_version",
			Help: "Version of the installed collaborative model",
		},
	)

	ModelLastTrainedTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_last_trained_timestamp_seconds",
			Help: "Unix time the installed collaborative model was trained",
		},
	)

	// Corpus Metrics
	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_movies",
			Help: "Movies in the catalog index",
		},
	)

	RatingsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ratings_stored",
			Help: "Ratings in the current rating matrix",
		},
	)

	RatingsRejected = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratings_rejected",
			Help: "Ratings rejected during the last matrix build, by reason",
		},
		[]string{"reason"}, // out_of_range, malformed, duplicate
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records API request metrics
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a rejected request.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRecommendation records one recommendation request. Duration is only
// observed for successful requests.
func RecordRecommendation(variant, outcome string, duration time.Duration, unresolved int) {
	RecommendationsTotal.WithLabelValues(variant, outcome).Inc()
	if outcome == "ok" {
		RecommendationDuration.WithLabelValues(variant).Observe(duration.Seconds())
	}
	if unresolved > 0 {
		UnresolvedSeedsTotal.WithLabelValues(variant).Add(float64(unresolved))
	}
}

// RecordTraining records one training attempt.
func RecordTraining(algorithm string, duration time.Duration, err error) {
	if err != nil {
		TrainingRunsTotal.WithLabelValues(algorithm, "failure").Inc()
		return
	}
	TrainingRunsTotal.WithLabelValues(algorithm, "success").Inc()
	TrainingDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// RecordTrainingSkipped counts a scheduled run that did not start because
// another one was in progress.
func RecordTrainingSkipped(algorithm string) {
	TrainingRunsTotal.WithLabelValues(algorithm, "skipped").Inc()
}

// SetModel publishes the installed model's version and training time.
func SetModel(version int64, trainedAt time.Time) {
	ModelVersion.Set(float64(version))
	if !trainedAt.IsZero() {
		ModelLastTrainedTimestamp.Set(float64(trainedAt.Unix()))
	}
}

// SetCorpus publishes catalog and matrix sizes with the rejection counters
// of the last build.
func SetCorpus(movies, stored, outOfRange, malformed, duplicates int) {
	CatalogMovies.Set(float64(movies))
	RatingsStored.Set(float64(stored))
	RatingsRejected.WithLabelValues("out_of_range").Set(float64(outOfRange))
	RatingsRejected.WithLabelValues("malformed").Set(float64(malformed))
	RatingsRejected.WithLabelValues("duplicate").Set(float64(duplicates))
}

// RecordDBQuery records database query metrics
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}
