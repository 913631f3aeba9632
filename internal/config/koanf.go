// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelrec/config.yaml",
	"/etc/reelrec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        3858,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Data: DataConfig{
			MoviesPath:      "/data/movies.csv",
			MetadataPath:    "",
			RatingsPath:     "/data/ratings.csv",
			DuplicatePolicy: "last_write_wins",
			RatingMin:       0.5,
			RatingMax:       5.0,
		},
		Database: DatabaseConfig{
			Enabled:                true,
			Path:                   "/data/reelrec.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
		},
		Recommend: RecommendConfig{
			Algorithm:       "item_knn",
			TrainInterval:   24 * time.Hour,
			TrainTimeout:    30 * time.Minute,
			MinRatings:      1,
			ModelPath:       "/data/models",
			RestoreSnapshot: true,
			RequestTimeout:  5 * time.Second,
			DefaultTopN:     10,
			MaxTopN:         100,
			Weighting:       "tfidf",
			Aggregate:       "sum",
			TopCast:         3,
			DirectorWeight:  1,
			KNN: KNNAlgorithmConfig{
				Neighbors:      50,
				Shrinkage:      10.0,
				MinCommonUsers: 1,
				MinSimilarity:  0.01,
				NumWorkers:     4,
			},
			ALS: ALSAlgorithmConfig{
				Factors:        32,
				Iterations:     10,
				Regularization: 0.1,
				Alpha:          10.0,
				NumWorkers:     4,
			},
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5.0,
			FailureDecay:     30.0,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// RATINGS_PATH -> data.ratings_path
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Data sources
	"movies_path":              "data.movies_path",
	"metadata_path":            "data.metadata_path",
	"ratings_path":             "data.ratings_path",
	"ratings_duplicate_policy": "data.duplicate_policy",
	"ratings_min":              "data.rating_min",
	"ratings_max":              "data.rating_max",

	// Database
	"duckdb_enabled":    "database.enabled",
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Recommendation engine
	"recommend_algorithm":        "recommend.algorithm",
	"recommend_train_interval":   "recommend.train_interval",
	"recommend_train_timeout":    "recommend.train_timeout",
	"recommend_min_ratings":      "recommend.min_ratings",
	"recommend_model_path":       "recommend.model_path",
	"recommend_restore_snapshot": "recommend.restore_snapshot",
	"recommend_request_timeout":  "recommend.request_timeout",
	"recommend_default_top_n":    "recommend.default_top_n",
	"recommend_max_top_n":        "recommend.max_top_n",
	"recommend_weighting":        "recommend.weighting",
	"recommend_aggregate":        "recommend.aggregate",
	"recommend_top_cast":         "recommend.top_cast",
	"recommend_director_weight":  "recommend.director_weight",

	"recommend_knn_neighbors":      "recommend.knn.neighbors",
	"recommend_knn_shrinkage":      "recommend.knn.shrinkage",
	"recommend_knn_min_common":     "recommend.knn.min_common_users",
	"recommend_knn_min_similarity": "recommend.knn.min_similarity",
	"recommend_knn_workers":        "recommend.knn.num_workers",

	"recommend_als_factors":        "recommend.als.factors",
	"recommend_als_iterations":     "recommend.als.iterations",
	"recommend_als_regularization": "recommend.als.regularization",
	"recommend_als_alpha":          "recommend.als.alpha",
	"recommend_als_workers":        "recommend.als.num_workers",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Supervisor
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - RATINGS_PATH -> data.ratings_path
//   - DUCKDB_PATH -> database.path
//   - RECOMMEND_KNN_NEIGHBORS -> recommend.knn.neighbors
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
