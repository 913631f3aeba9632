// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/reelrec/internal/recommend/algorithms"
	"github.com/tomtom215/reelrec/internal/recommend/features"
)

// Collaborative algorithm names.
const (
	AlgorithmItemKNN = "item_knn"
	AlgorithmALS     = "als"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Features controls soup construction and weighting.
	Features features.Config `json:"features"`

	// Content controls content similarity aggregation.
	Content algorithms.ContentConfig `json:"content"`

	// Collab selects and parameterizes the collaborative model.
	Collab CollabConfig `json:"collab"`

	// Training contains training parameters.
	Training TrainingConfig `json:"training"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`
}

// CollabConfig selects the collaborative algorithm.
type CollabConfig struct {
	// Algorithm is "item_knn" (default) or "als".
	Algorithm string `json:"algorithm"`

	// KNN contains item-based KNN parameters.
	KNN algorithms.KNNConfig `json:"knn"`

	// ALS contains ALS parameters.
	ALS algorithms.ALSConfig `json:"als"`
}

// TrainingConfig contains training parameters.
type TrainingConfig struct {
	// Timeout bounds one training run.
	// Default: 30m.
	Timeout time.Duration `json:"timeout"`

	// MinRatings is the minimum number of stored ratings required to train.
	// Default: 1.
	MinRatings int `json:"min_ratings"`

	// RestoreSnapshot makes Bootstrap try the model store before training.
	RestoreSnapshot bool `json:"restore_snapshot"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultTopN is used by callers that omit top_n.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN is the largest accepted top_n.
	MaxTopN int `json:"max_top_n"`

	// RequestTimeout bounds one recommendation request.
	RequestTimeout time.Duration `json:"request_timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Features: features.DefaultConfig(),
		Content:  algorithms.DefaultContentConfig(),
		Collab: CollabConfig{
			Algorithm: AlgorithmItemKNN,
			KNN:       algorithms.DefaultKNNConfig(),
			ALS:       algorithms.DefaultALSConfig(),
		},
		Training: TrainingConfig{
			Timeout:         30 * time.Minute,
			MinRatings:      1,
			RestoreSnapshot: true,
		},
		Limits: LimitsConfig{
			DefaultTopN:    10,
			MaxTopN:        100,
			RequestTimeout: 5 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // flat list of independent checks
func (c *Config) Validate() error {
	if err := c.Features.Validate(); err != nil {
		return fmt.Errorf("features: %w", err)
	}
	switch c.Content.Aggregate {
	case algorithms.AggregateSum, algorithms.AggregateMean:
	default:
		return fmt.Errorf("content.aggregate must be %q or %q, got %q",
			algorithms.AggregateSum, algorithms.AggregateMean, c.Content.Aggregate)
	}
	switch c.Collab.Algorithm {
	case AlgorithmItemKNN, AlgorithmALS:
	default:
		return fmt.Errorf("collab.algorithm must be %q or %q, got %q", AlgorithmItemKNN, AlgorithmALS, c.Collab.Algorithm)
	}
	if c.Collab.KNN.K <= 0 {
		return fmt.Errorf("collab.knn.k must be positive, got %d", c.Collab.KNN.K)
	}
	if c.Collab.KNN.Shrinkage < 0 {
		return fmt.Errorf("collab.knn.shrinkage must be non-negative, got %f", c.Collab.KNN.Shrinkage)
	}
	if c.Collab.ALS.NumFactors <= 0 {
		return fmt.Errorf("collab.als.num_factors must be positive, got %d", c.Collab.ALS.NumFactors)
	}
	if c.Collab.ALS.Regularization < 0 {
		return fmt.Errorf("collab.als.regularization must be non-negative, got %f", c.Collab.ALS.Regularization)
	}
	if c.Collab.ALS.NumIterations <= 0 {
		return fmt.Errorf("collab.als.num_iterations must be positive, got %d", c.Collab.ALS.NumIterations)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Training.MinRatings < 0 {
		return fmt.Errorf("training.min_ratings must be non-negative, got %d", c.Training.MinRatings)
	}
	if c.Limits.DefaultTopN <= 0 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("limits.max_top_n must be >= limits.default_top_n, got %d < %d", c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}
	if c.Limits.RequestTimeout <= 0 {
		return fmt.Errorf("limits.request_timeout must be positive, got %v", c.Limits.RequestTimeout)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
