// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional config file and environment variables.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Data       DataConfig       `koanf:"data"`
	Database   DatabaseConfig   `koanf:"database"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DataConfig locates the CSV sources and configures how ratings are
// admitted into the matrix.
type DataConfig struct {
	// MoviesPath is the movies CSV (movieId,title,genres). Required.
	MoviesPath string `koanf:"movies_path"`

	// MetadataPath is an optional CSV with title_cast, director and
	// plot_keywords columns keyed by movieId.
	MetadataPath string `koanf:"metadata_path"`

	// RatingsPath is the ratings CSV (userId,movieId,rating[,timestamp]).
	// Empty disables collaborative recommendations.
	RatingsPath string `koanf:"ratings_path"`

	// DuplicatePolicy is "last_write_wins" or "reject".
	DuplicatePolicy string `koanf:"duplicate_policy"`

	// RatingMin and RatingMax bound accepted ratings (inclusive).
	RatingMin float64 `koanf:"rating_min"`
	RatingMax float64 `koanf:"rating_max"`
}

// DatabaseConfig holds DuckDB settings for the Explore analytics.
type DatabaseConfig struct {
	Enabled                bool   `koanf:"enabled"`
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // 0 = use NumCPU
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // default true
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// Algorithm is the collaborative model: "item_knn" or "als".
	// Default: item_knn
	Algorithm string `koanf:"algorithm"`

	// TrainInterval is how often to retrain the collaborative model.
	// Zero disables periodic retraining.
	// Default: 24h
	TrainInterval time.Duration `koanf:"train_interval"`

	// TrainTimeout bounds a single training run.
	// Default: 30m
	TrainTimeout time.Duration `koanf:"train_timeout"`

	// MinRatings is the minimum number of stored ratings required to train.
	// Default: 1
	MinRatings int `koanf:"min_ratings"`

	// ModelPath is the Badger directory for model snapshots. Empty disables
	// snapshot persistence.
	// Default: /data/models
	ModelPath string `koanf:"model_path"`

	// RestoreSnapshot restores the latest snapshot at startup when it
	// matches the loaded ratings.
	// Default: true
	RestoreSnapshot bool `koanf:"restore_snapshot"`

	// RequestTimeout bounds one recommendation request.
	// Default: 5s
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// DefaultTopN is used when a request omits top_n.
	// Default: 10
	DefaultTopN int `koanf:"default_top_n"`

	// MaxTopN is the largest accepted top_n.
	// Default: 100
	MaxTopN int `koanf:"max_top_n"`

	// Weighting is the content term weighting: "tf" or "tfidf".
	// Default: tfidf
	Weighting string `koanf:"weighting"`

	// Aggregate combines per-seed content similarities: "sum" or "mean".
	// Default: sum
	Aggregate string `koanf:"aggregate"`

	// TopCast is how many leading cast members enter the content soup.
	// Default: 3
	TopCast int `koanf:"top_cast"`

	// DirectorWeight repeats the director token in the soup.
	// Default: 1
	DirectorWeight int `koanf:"director_weight"`

	KNN KNNAlgorithmConfig `koanf:"knn"`
	ALS ALSAlgorithmConfig `koanf:"als"`
}

// KNNAlgorithmConfig holds item-based CF settings.
type KNNAlgorithmConfig struct {
	// Neighbors is the number of neighbours kept per movie.
	// Default: 50
	Neighbors int `koanf:"neighbors"`

	// Shrinkage penalizes pairs with few co-ratings.
	// Default: 10.0
	Shrinkage float64 `koanf:"shrinkage"`

	// MinCommonUsers filters pairs with too few common raters.
	// Default: 1 (shrinkage already damps single co-raters)
	MinCommonUsers int `koanf:"min_common_users"`

	// MinSimilarity drops weak neighbours.
	// Default: 0.01
	MinSimilarity float64 `koanf:"min_similarity"`

	// NumWorkers is the number of parallel workers for training.
	// Default: 4
	NumWorkers int `koanf:"num_workers"`
}

// ALSAlgorithmConfig holds ALS (Alternating Least Squares) settings.
type ALSAlgorithmConfig struct {
	// Factors is the number of latent factors.
	// Default: 32
	Factors int `koanf:"factors"`

	// Iterations is the number of alternating sweeps.
	// Default: 10
	Iterations int `koanf:"iterations"`

	// Regularization controls overfitting.
	// Default: 0.1
	Regularization float64 `koanf:"regularization"`

	// Alpha is the confidence scaling factor for implicit feedback.
	// Default: 10.0
	Alpha float64 `koanf:"alpha"`

	// NumWorkers is the number of parallel workers for training.
	// Default: 4
	NumWorkers int `koanf:"num_workers"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings for zerolog.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// SupervisorConfig mirrors supervisor.TreeConfig.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Load reads configuration from defaults, an optional config file and
// environment variables, then validates it.
//
// See LoadWithKoanf for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
