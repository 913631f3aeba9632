// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tomtom215/reelrec/internal/catalog"
	"github.com/tomtom215/reelrec/internal/config"
	"github.com/tomtom215/reelrec/internal/database"
	"github.com/tomtom215/reelrec/internal/logging"
	"github.com/tomtom215/reelrec/internal/ratings"
	"github.com/tomtom215/reelrec/internal/recommend"
)

// DataComponents holds the ratings source and the optional DuckDB handle.
type DataComponents struct {
	// DB is nil when DuckDB is disabled.
	DB *database.DB

	// Source is nil when no ratings file is configured.
	Source recommend.RatingsSource
}

// Close releases the database, if any.
func (d *DataComponents) Close() {
	if d.DB == nil {
		return
	}
	if err := d.DB.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database")
	}
}

// loadCatalog reads the movies CSV and merges the optional metadata CSV.
func loadCatalog(cfg *config.DataConfig) (*catalog.Index, error) {
	f, err := os.Open(cfg.MoviesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open movies file: %w", err)
	}
	defer f.Close()

	movies, stats, err := catalog.Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read movies file %s: %w", cfg.MoviesPath, err)
	}
	logging.Info().
		Str("path", cfg.MoviesPath).
		Int("loaded", stats.Loaded).
		Int("skipped", stats.Skipped()).
		Msg("Movies loaded")

	if cfg.MetadataPath != "" {
		movies, err = mergeMetadata(cfg.MetadataPath, movies)
		if err != nil {
			return nil, err
		}
	}

	idx, err := catalog.NewIndex(movies)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog index: %w", err)
	}

	idxStats := idx.Stats()
	logging.Info().
		Int("movies", idx.Len()).
		Int("duplicate_ids", idxStats.DuplicateIDs).
		Int("duplicate_titles", idxStats.DuplicateTitles).
		Msg("Catalog index built")
	return idx, nil
}

func mergeMetadata(path string, movies []catalog.Movie) ([]catalog.Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer f.Close()

	merged, stats, err := catalog.LoadMetadata(f, movies)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file %s: %w", path, err)
	}
	logging.Info().
		Str("path", path).
		Int("merged", stats.Loaded).
		Int("unknown_id", stats.UnknownID).
		Int("skipped", stats.Skipped()).
		Msg("Movie metadata merged")
	return merged, nil
}

// builderConfig converts the data settings into matrix builder options.
func builderConfig(cfg *config.DataConfig) (ratings.BuilderConfig, error) {
	policy, err := ratings.ParseDuplicatePolicy(cfg.DuplicatePolicy)
	if err != nil {
		return ratings.BuilderConfig{}, err
	}
	return ratings.BuilderConfig{
		Bounds:     ratings.Bounds{Min: cfg.RatingMin, Max: cfg.RatingMax},
		Duplicates: policy,
	}, nil
}

// initData picks the ratings source. With DuckDB enabled both CSVs are
// ingested and ratings are read back from the database; otherwise the
// ratings file is parsed directly on every training run.
func initData(ctx context.Context, cfg *config.Config, idx *catalog.Index) (*DataComponents, error) {
	builderCfg, err := builderConfig(&cfg.Data)
	if err != nil {
		return nil, err
	}

	data := &DataComponents{}

	if !cfg.Database.Enabled {
		logging.Info().Msg("DuckDB disabled (DUCKDB_ENABLED=false), explore endpoints unavailable")
		if cfg.Data.RatingsPath != "" {
			data.Source = ratings.FileSource{Path: cfg.Data.RatingsPath, Config: builderCfg}
		}
		return data, nil
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	data.DB = db
	logging.Info().Str("path", cfg.Database.Path).Msg("Database initialized successfully")

	if err := db.IngestCatalog(ctx, idx); err != nil {
		data.Close()
		return nil, err
	}

	if cfg.Data.RatingsPath == "" {
		return data, nil
	}

	stats, err := db.IngestRatings(ctx, cfg.Data.RatingsPath, builderCfg.Bounds)
	if err != nil {
		data.Close()
		return nil, err
	}
	logging.Info().
		Str("path", cfg.Data.RatingsPath).
		Int64("rows", stats.Rows).
		Int64("valid", stats.Valid).
		Bool("timestamps", stats.HasTimestamp).
		Msg("Ratings ingested into DuckDB")

	data.Source = db.RatingsSource(builderCfg)
	return data, nil
}
