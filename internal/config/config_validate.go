// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateData(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateData validates the CSV sources and rating admission settings
func (c *Config) validateData() error {
	if strings.TrimSpace(c.Data.MoviesPath) == "" {
		return fmt.Errorf("MOVIES_PATH is required")
	}
	switch c.Data.DuplicatePolicy {
	case "last_write_wins", "reject":
	default:
		return fmt.Errorf("RATINGS_DUPLICATE_POLICY must be one of: last_write_wins, reject")
	}
	if c.Data.RatingMin >= c.Data.RatingMax {
		return fmt.Errorf("RATINGS_MIN (%v) must be less than RATINGS_MAX (%v)", c.Data.RatingMin, c.Data.RatingMax)
	}
	return nil
}

// validateDatabase validates DuckDB settings (only if enabled)
func (c *Config) validateDatabase() error {
	if !c.Database.Enabled {
		return nil
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required when DUCKDB_ENABLED=true")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	return nil
}

// validateRecommend validates recommendation engine settings
//
//nolint:gocyclo // flat list of independent checks
func (c *Config) validateRecommend() error {
	r := c.Recommend
	switch r.Algorithm {
	case "item_knn", "als":
	default:
		return fmt.Errorf("RECOMMEND_ALGORITHM must be one of: item_knn, als")
	}
	switch r.Weighting {
	case "tf", "tfidf":
	default:
		return fmt.Errorf("RECOMMEND_WEIGHTING must be one of: tf, tfidf")
	}
	switch r.Aggregate {
	case "sum", "mean":
	default:
		return fmt.Errorf("RECOMMEND_AGGREGATE must be one of: sum, mean")
	}
	if r.TrainInterval < 0 {
		return fmt.Errorf("RECOMMEND_TRAIN_INTERVAL must be non-negative")
	}
	if r.TrainTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_TRAIN_TIMEOUT must be positive")
	}
	if r.RequestTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_REQUEST_TIMEOUT must be positive")
	}
	if r.DefaultTopN <= 0 || r.MaxTopN < r.DefaultTopN {
		return fmt.Errorf("RECOMMEND_DEFAULT_TOP_N must be positive and not exceed RECOMMEND_MAX_TOP_N")
	}
	if r.TopCast < 0 || r.DirectorWeight < 0 {
		return fmt.Errorf("RECOMMEND_TOP_CAST and RECOMMEND_DIRECTOR_WEIGHT must be non-negative")
	}
	if r.KNN.Neighbors <= 0 {
		return fmt.Errorf("RECOMMEND_KNN_NEIGHBORS must be positive")
	}
	if r.KNN.Shrinkage < 0 {
		return fmt.Errorf("RECOMMEND_KNN_SHRINKAGE must be non-negative")
	}
	if r.ALS.Factors <= 0 || r.ALS.Iterations <= 0 {
		return fmt.Errorf("RECOMMEND_ALS_FACTORS and RECOMMEND_ALS_ITERATIONS must be positive")
	}
	if r.ALS.Regularization < 0 {
		return fmt.Errorf("RECOMMEND_ALS_REGULARIZATION must be non-negative")
	}
	return nil
}

// validateRateLimits validates rate limiting configuration
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
