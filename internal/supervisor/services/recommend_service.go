// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrec/internal/metrics"
	"github.com/tomtom215/reelrec/internal/recommend"
)

// RecommendEngine is the part of *recommend.Engine the training loop needs.
type RecommendEngine interface {
	Train(ctx context.Context) error
	Status() recommend.TrainingStatus
}

// RecommendServiceConfig holds configuration for the recommendation service.
type RecommendServiceConfig struct {
	// Algorithm labels training metrics.
	Algorithm string

	// TrainOnStartup runs one training before the first tick. Leave false
	// when the engine was already bootstrapped.
	TrainOnStartup bool

	// TrainInterval is how often to retrain. Zero disables retraining; the
	// service then only publishes the bootstrap status and waits.
	TrainInterval time.Duration

	// CatalogMovies is published with the corpus gauges.
	CatalogMovies int
}

// RecommendService drives periodic retraining of the collaborative model.
type RecommendService struct {
	engine RecommendEngine
	config RecommendServiceConfig
	logger zerolog.Logger
	name   string
}

// NewRecommendService creates a new recommendation service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommendService(engine RecommendEngine, cfg RecommendServiceConfig, logger zerolog.Logger) *RecommendService {
	return &RecommendService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "recommend").Logger(),
		name:   "recommend-service",
	}
}

// Serve implements suture.Service.
func (s *RecommendService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("recommendation service starting")

	s.publish()

	if s.config.TrainOnStartup {
		s.train(ctx)
	}

	if s.config.TrainInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("recommendation service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled training triggered")
			s.train(ctx)
		}
	}
}

// train runs one training cycle. Failures leave the previous model
// installed and are reported through logs and metrics only.
func (s *RecommendService) train(ctx context.Context) {
	start := time.Now()
	err := s.engine.Train(ctx)

	switch {
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.logger.Info().Msg("training already in progress, skipping")
		metrics.RecordTrainingSkipped(s.config.Algorithm)
		return
	case ctx.Err() != nil:
		// Shutdown interrupted the run.
		return
	}

	metrics.RecordTraining(s.config.Algorithm, time.Since(start), err)
	if err != nil {
		s.logger.Warn().Err(err).Msg("scheduled training failed, keeping previous model")
		return
	}

	s.logger.Info().Dur("duration", time.Since(start)).Msg("model training complete")
	s.publish()
}

// publish exports the installed model's status as gauges.
func (s *RecommendService) publish() {
	status := s.engine.Status()
	if status.ModelReady {
		metrics.SetModel(int64(status.ModelVersion), status.LastTrainedAt)
	}
	metrics.SetCorpus(
		s.config.CatalogMovies,
		status.Corpus.NNZ,
		status.Rejected.OutOfRange,
		status.Rejected.Malformed,
		status.Rejected.Duplicates,
	)
}

// String returns the service name for logging.
func (s *RecommendService) String() string {
	return s.name
}
