// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/reelrec/internal/config"
	"github.com/tomtom215/reelrec/internal/database"
	"github.com/tomtom215/reelrec/internal/ratings"
	"github.com/tomtom215/reelrec/internal/recommend"
)

const moviesCSV = `movieId,title,genres
1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy
2,Jumanji (1995),Adventure|Children|Fantasy
3,Grumpier Old Men (1995),Comedy|Romance
4,Waiting to Exhale (1995),Comedy|Drama|Romance
5,Heat (1995),Action|Crime|Thriller
`

const metadataCSV = `movieId,title_cast,director,plot_keywords
1,Tom Hanks|Tim Allen,John Lasseter,toy|rivalry
5,Al Pacino|Robert De Niro,Michael Mann,heist|detective
`

const ratingsCSV = `userId,movieId,rating,timestamp
1,1,4.0,964982703
1,2,4.0,964981247
1,3,3.0,964982224
2,1,5.0,964982931
2,2,4.5,964983815
2,5,2.0,964982400
3,1,4.0,964981208
3,3,3.5,964983250
3,4,3.0,964982176
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Data: config.DataConfig{
			MoviesPath:      writeFile(t, dir, "movies.csv", moviesCSV),
			MetadataPath:    writeFile(t, dir, "metadata.csv", metadataCSV),
			RatingsPath:     writeFile(t, dir, "ratings.csv", ratingsCSV),
			DuplicatePolicy: "last_write_wins",
			RatingMin:       0.5,
			RatingMax:       5.0,
		},
		Database: config.DatabaseConfig{
			Path:                   ":memory:",
			MaxMemory:              "256MB",
			PreserveInsertionOrder: true,
		},
		Recommend: config.RecommendConfig{
			Algorithm:       "item_knn",
			TrainInterval:   time.Hour,
			TrainTimeout:    time.Minute,
			MinRatings:      1,
			ModelPath:       filepath.Join(dir, "models"),
			RestoreSnapshot: true,
			RequestTimeout:  5 * time.Second,
			DefaultTopN:     10,
			MaxTopN:         100,
			Weighting:       "tfidf",
			Aggregate:       "sum",
			TopCast:         3,
			DirectorWeight:  1,
			KNN: config.KNNAlgorithmConfig{
				Neighbors:  50,
				Shrinkage:  10,
				NumWorkers: 2,
			},
			ALS: config.ALSAlgorithmConfig{
				Factors:        8,
				Iterations:     5,
				Regularization: 0.1,
				Alpha:          10,
				NumWorkers:     2,
			},
		},
	}
}

func TestBuildEngineConfig(t *testing.T) {
	cfg := testConfig(t)
	engineCfg := buildEngineConfig(&cfg.Recommend)

	if err := engineCfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if engineCfg.Collab.KNN.K != 50 {
		t.Errorf("KNN.K = %d, want 50", engineCfg.Collab.KNN.K)
	}
	if engineCfg.Collab.ALS.NumFactors != 8 {
		t.Errorf("ALS.NumFactors = %d, want 8", engineCfg.Collab.ALS.NumFactors)
	}
	if engineCfg.Limits.DefaultTopN != 10 || engineCfg.Limits.MaxTopN != 100 {
		t.Errorf("Limits = %+v", engineCfg.Limits)
	}
	if engineCfg.Training.Timeout != time.Minute {
		t.Errorf("Training.Timeout = %v, want 1m", engineCfg.Training.Timeout)
	}
}

func TestBuilderConfig(t *testing.T) {
	cfg := testConfig(t)

	got, err := builderConfig(&cfg.Data)
	if err != nil {
		t.Fatalf("builderConfig() error = %v", err)
	}
	if got.Bounds != (ratings.Bounds{Min: 0.5, Max: 5.0}) {
		t.Errorf("Bounds = %+v", got.Bounds)
	}
	if got.Duplicates != ratings.LastWriteWins {
		t.Errorf("Duplicates = %q, want %q", got.Duplicates, ratings.LastWriteWins)
	}

	cfg.Data.DuplicatePolicy = "first_wins"
	if _, err := builderConfig(&cfg.Data); err == nil {
		t.Error("expected error for unknown duplicate policy")
	}
}

func TestLoadCatalog(t *testing.T) {
	cfg := testConfig(t)

	idx, err := loadCatalog(&cfg.Data)
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}
	if idx.Len() != 5 {
		t.Errorf("Len() = %d, want 5", idx.Len())
	}

	movie, ok := idx.Movie(5)
	if !ok {
		t.Fatal("movie 5 missing")
	}
	if movie.Director != "Michael Mann" {
		t.Errorf("Director = %q, want metadata merged", movie.Director)
	}

	cfg.Data.MoviesPath = filepath.Join(t.TempDir(), "missing.csv")
	if _, err := loadCatalog(&cfg.Data); err == nil {
		t.Error("expected error for missing movies file")
	}
}

func TestInitData_FileSource(t *testing.T) {
	cfg := testConfig(t)
	idx, err := loadCatalog(&cfg.Data)
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}

	data, err := initData(context.Background(), cfg, idx)
	if err != nil {
		t.Fatalf("initData() error = %v", err)
	}
	defer data.Close()

	if data.DB != nil {
		t.Error("DB should be nil when DuckDB is disabled")
	}
	if _, ok := data.Source.(ratings.FileSource); !ok {
		t.Errorf("Source = %T, want ratings.FileSource", data.Source)
	}

	cfg.Data.RatingsPath = ""
	data, err = initData(context.Background(), cfg, idx)
	if err != nil {
		t.Fatalf("initData() error = %v", err)
	}
	if data.Source != nil {
		t.Error("Source should be nil without a ratings path")
	}
}

func TestInitData_DuckDB(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Enabled = true

	idx, err := loadCatalog(&cfg.Data)
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}

	data, err := initData(context.Background(), cfg, idx)
	if err != nil {
		t.Fatalf("initData() error = %v", err)
	}
	defer data.Close()

	if data.DB == nil {
		t.Fatal("DB should be set when DuckDB is enabled")
	}
	if _, ok := data.Source.(*database.RatingsSource); !ok {
		t.Fatalf("Source = %T, want *database.RatingsSource", data.Source)
	}

	m, stats, err := data.Source.LoadRatings(context.Background())
	if err != nil {
		t.Fatalf("LoadRatings() error = %v", err)
	}
	if m.NNZ() != 9 || stats.Stored != 9 {
		t.Errorf("NNZ = %d, Stored = %d, want 9", m.NNZ(), stats.Stored)
	}
}

func TestInitRecommend(t *testing.T) {
	cfg := testConfig(t)
	idx, err := loadCatalog(&cfg.Data)
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}
	data, err := initData(context.Background(), cfg, idx)
	if err != nil {
		t.Fatalf("initData() error = %v", err)
	}

	rec, err := initRecommend(context.Background(), cfg, idx, data.Source)
	if err != nil {
		t.Fatalf("initRecommend() error = %v", err)
	}
	defer rec.Close()

	status := rec.Engine.Status()
	if !status.ModelReady {
		t.Fatalf("collaborative model not installed: %s", status.LastError)
	}
	if rec.Service == nil {
		t.Fatal("Service should be set")
	}

	titles := []string{"Toy Story (1995)", "Jumanji (1995)", "Heat (1995)"}
	if _, err := rec.Engine.ContentModel(context.Background(), titles, 2); err != nil {
		t.Errorf("ContentModel() error = %v", err)
	}
}

func TestInitRecommend_NoRatings(t *testing.T) {
	cfg := testConfig(t)
	idx, err := loadCatalog(&cfg.Data)
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}

	rec, err := initRecommend(context.Background(), cfg, idx, nil)
	if err != nil {
		t.Fatalf("initRecommend() error = %v", err)
	}
	defer rec.Close()

	titles := []string{"Toy Story (1995)", "Jumanji (1995)", "Heat (1995)"}
	_, err = rec.Engine.CollabModel(context.Background(), titles, 2)
	if !errors.Is(err, recommend.ErrEmptyCorpus) {
		t.Errorf("CollabModel() error = %v, want ErrEmptyCorpus", err)
	}
}
