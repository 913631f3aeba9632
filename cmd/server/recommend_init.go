// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/reelrec/internal/catalog"
	"github.com/tomtom215/reelrec/internal/config"
	"github.com/tomtom215/reelrec/internal/logging"
	"github.com/tomtom215/reelrec/internal/recommend"
	"github.com/tomtom215/reelrec/internal/recommend/algorithms"
	"github.com/tomtom215/reelrec/internal/recommend/features"
	"github.com/tomtom215/reelrec/internal/recommend/storage"
	"github.com/tomtom215/reelrec/internal/supervisor/services"
)

// RecommendComponents holds all recommendation-related components.
type RecommendComponents struct {
	Engine  *recommend.Engine
	Service *services.RecommendService

	// store is nil when snapshots are disabled.
	store *storage.Store
}

// Close releases the snapshot store.
func (c *RecommendComponents) Close() {
	if c.store == nil {
		return
	}
	if err := c.store.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing model store")
	}
}

// initRecommend builds the engine and installs the first collaborative
// model. A missing or unusable ratings corpus is not fatal: the content
// model still serves and collaborative requests report the model as
// unavailable until a retraining run succeeds.
func initRecommend(ctx context.Context, cfg *config.Config, idx *catalog.Index, source recommend.RatingsSource) (*RecommendComponents, error) {
	logger := logging.WithComponent("recommend")

	engineCfg := buildEngineConfig(&cfg.Recommend)
	engine, err := recommend.NewEngine(engineCfg, idx, logging.Logger())
	if err != nil {
		return nil, err
	}

	components := &RecommendComponents{Engine: engine}

	if source != nil {
		engine.SetRatingsSource(source)

		if cfg.Recommend.ModelPath != "" {
			store, err := storage.Open(cfg.Recommend.ModelPath)
			if err != nil {
				return nil, fmt.Errorf("failed to open model store: %w", err)
			}
			components.store = store
			engine.SetModelStore(store)
		}

		logger.Info().
			Str("algorithm", engineCfg.Collab.Algorithm).
			Bool("restore_snapshot", engineCfg.Training.RestoreSnapshot).
			Msg("Bootstrapping collaborative model")
		if err := engine.Bootstrap(ctx); err != nil {
			logger.Warn().Err(err).Msg("No collaborative model installed, collab requests unavailable until retraining succeeds")
		}
	} else {
		logger.Info().Msg("No ratings configured (RATINGS_PATH empty), collaborative model disabled")
	}

	interval := cfg.Recommend.TrainInterval
	if source == nil {
		interval = 0
	}
	components.Service = services.NewRecommendService(engine, services.RecommendServiceConfig{
		Algorithm:     engineCfg.Collab.Algorithm,
		TrainInterval: interval,
		CatalogMovies: idx.Len(),
	}, logger)

	return components, nil
}

// buildEngineConfig creates the engine configuration from app config.
func buildEngineConfig(rc *config.RecommendConfig) *recommend.Config {
	cfg := &recommend.Config{}

	cfg.Features = features.Config{
		TopCast:        rc.TopCast,
		DirectorWeight: rc.DirectorWeight,
		Weighting:      features.Weighting(rc.Weighting),
	}
	cfg.Content = algorithms.ContentConfig{
		Aggregate: algorithms.Aggregate(rc.Aggregate),
	}
	cfg.Collab = recommend.CollabConfig{
		Algorithm: rc.Algorithm,
		KNN: algorithms.KNNConfig{
			K:              rc.KNN.Neighbors,
			MinSimilarity:  rc.KNN.MinSimilarity,
			Shrinkage:      rc.KNN.Shrinkage,
			MinCommonUsers: rc.KNN.MinCommonUsers,
			NumWorkers:     rc.KNN.NumWorkers,
		},
		ALS: algorithms.ALSConfig{
			NumFactors:     rc.ALS.Factors,
			NumIterations:  rc.ALS.Iterations,
			Regularization: rc.ALS.Regularization,
			Alpha:          rc.ALS.Alpha,
			NumWorkers:     rc.ALS.NumWorkers,
		},
	}
	cfg.Training = recommend.TrainingConfig{
		Timeout:         rc.TrainTimeout,
		MinRatings:      rc.MinRatings,
		RestoreSnapshot: rc.RestoreSnapshot,
	}
	cfg.Limits = recommend.LimitsConfig{
		DefaultTopN:    rc.DefaultTopN,
		MaxTopN:        rc.MaxTopN,
		RequestTimeout: rc.RequestTimeout,
	}
	return cfg
}
