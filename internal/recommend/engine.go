// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrec/internal/catalog"
	"github.com/tomtom215/reelrec/internal/ratings"
	"github.com/tomtom215/reelrec/internal/recommend/algorithms"
	"github.com/tomtom215/reelrec/internal/recommend/features"
)

// Engine serves both recommendation variants over a loaded catalog.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	catalog *catalog.Index
	content *algorithms.ContentSimilarity

	// collab is swapped whole; requests load it once.
	collab atomic.Pointer[installedModel]

	trainMu  sync.Mutex
	statusMu sync.RWMutex
	status   TrainingStatus

	source RatingsSource
	store  ModelStore

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

type installedModel struct {
	model    CollabModel
	version  int
	restored bool
}

// seed is a resolved seed title.
type seed struct {
	id    int
	title string
}

// NewEngine builds the content model for idx and returns an engine with no
// collaborative model installed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, idx *catalog.Index, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if idx == nil || idx.Len() == 0 {
		return nil, ErrEmptyCatalog
	}

	space, err := features.Build(idx, cfg.Features)
	if err != nil {
		return nil, fmt.Errorf("build feature space: %w", err)
	}
	content, err := algorithms.NewContentSimilarity(space, cfg.Content)
	if err != nil {
		return nil, fmt.Errorf("content model: %w", err)
	}

	e := &Engine{
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
		catalog: idx,
		content: content,
	}
	e.status.Algorithm = cfg.Collab.Algorithm
	e.status.CatalogSize = idx.Len()

	e.logger.Info().
		Int("movies", idx.Len()).
		Int("vocabulary", len(space.Vocabulary())).
		Str("weighting", string(cfg.Features.Weighting)).
		Msg("content model ready")

	return e, nil
}

// SetRatingsSource sets the corpus loader used by Train and Bootstrap.
func (e *Engine) SetRatingsSource(src RatingsSource) {
	e.source = src
}

// SetModelStore enables model snapshots.
func (e *Engine) SetModelStore(store ModelStore) {
	e.store = store
}

// Catalog returns the catalog index.
func (e *Engine) Catalog() *catalog.Index {
	return e.catalog
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// ContentModel recommends by metadata similarity to the three seed titles.
func (e *Engine) ContentModel(ctx context.Context, titles []string, topN int) (*Result, error) {
	return e.Recommend(ctx, Request{Variant: VariantContent, Titles: titles, TopN: topN})
}

// CollabModel recommends by the collaborative model for a pseudo-user who
// liked the three seed titles.
func (e *Engine) CollabModel(ctx context.Context, titles []string, topN int) (*Result, error) {
	return e.Recommend(ctx, Request{Variant: VariantCollab, Titles: titles, TopN: topN})
}

// Recommend dispatches req to its variant.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	e.requestCount.Add(1)
	res, err := e.recommend(ctx, req)
	if err != nil {
		e.errorCount.Add(1)
	}
	return res, err
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommend(ctx context.Context, req Request) (*Result, error) {
	if err := e.validateRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.RequestTimeout)
	defer cancel()

	logger := e.logger.With().
		Str("variant", req.Variant.String()).
		Int("top_n", req.TopN).
		Logger()

	seeds, unresolved := e.resolveSeeds(req.Titles)
	for _, title := range unresolved {
		logger.Warn().Str("title", title).Msg("seed title not in catalog, skipping")
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("%w: %w: %s", ErrNoValidSeeds, ErrNotFound, strings.Join(unresolved, ", "))
	}

	res := &Result{
		Variant:    req.Variant,
		Unresolved: unresolved,
	}

	var (
		scored []algorithms.Scored
		err    error
	)
	switch req.Variant {
	case VariantContent:
		res.Model = e.content.Name()
		res.Seeds = seedIDs(seeds)
		scored, err = e.content.Score(ctx, res.Seeds)

	case VariantCollab:
		installed := e.collab.Load()
		if installed == nil {
			return nil, fmt.Errorf("no collaborative model installed: %w", ErrEmptyCorpus)
		}
		res.Model = installed.model.Name()

		warm := make([]seed, 0, len(seeds))
		for _, s := range seeds {
			if installed.model.Warm(s.id) {
				warm = append(warm, s)
				continue
			}
			logger.Warn().Str("title", s.title).Int("movie_id", s.id).Msg("seed has no ratings, skipping")
			res.Unresolved = append(res.Unresolved, s.title)
		}
		if len(warm) == 0 {
			return nil, fmt.Errorf("%w: %w: no seed has ratings", ErrNoValidSeeds, ErrNotFound)
		}
		res.Seeds = seedIDs(warm)
		scored, err = installed.model.Score(ctx, res.Seeds)

	default:
		return nil, fmt.Errorf("unknown variant %q: %w", req.Variant, ErrInvalidRequest)
	}

	if err != nil {
		return nil, e.mapScoreError(ctx, err)
	}

	scored = e.dropUncataloged(scored, &logger)

	ranked := algorithms.RankTopN(scored, req.TopN)
	res.Titles = make([]string, len(ranked))
	res.MovieIDs = make([]int, len(ranked))
	res.Scores = make([]float64, len(ranked))
	for i, s := range ranked {
		title, _ := e.catalog.LookupTitle(s.MovieID)
		res.Titles[i] = title
		res.MovieIDs[i] = s.MovieID
		res.Scores[i] = s.Score
	}

	logger.Debug().
		Ints("seeds", res.Seeds).
		Int("results", len(ranked)).
		Msg("recommendation complete")

	return res, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) validateRequest(req Request) error {
	if len(req.Titles) != RequiredSeeds {
		return fmt.Errorf("need exactly %d titles, got %d: %w", RequiredSeeds, len(req.Titles), ErrInvalidRequest)
	}
	if req.TopN <= 0 || req.TopN > e.config.Limits.MaxTopN {
		return fmt.Errorf("top_n must be in [1, %d], got %d: %w", e.config.Limits.MaxTopN, req.TopN, ErrInvalidRequest)
	}
	return nil
}

// resolveSeeds maps titles to ids, collapsing duplicates and keeping the
// first occurrence's position.
func (e *Engine) resolveSeeds(titles []string) (seeds []seed, unresolved []string) {
	seen := make(map[int]struct{}, len(titles))
	for _, title := range titles {
		id, err := e.catalog.LookupID(title)
		if err != nil {
			unresolved = append(unresolved, title)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		seeds = append(seeds, seed{id: id, title: title})
	}
	return seeds, unresolved
}

func seedIDs(seeds []seed) []int {
	out := make([]int, len(seeds))
	for i, s := range seeds {
		out[i] = s.id
	}
	return out
}

// dropUncataloged removes scored ids the catalog has no title for. The
// ratings corpus may reference movies missing from the metadata.
func (e *Engine) dropUncataloged(scored []algorithms.Scored, logger *zerolog.Logger) []algorithms.Scored {
	kept := scored[:0]
	dropped := 0
	for _, s := range scored {
		if _, ok := e.catalog.LookupTitle(s.MovieID); ok {
			kept = append(kept, s)
			continue
		}
		dropped++
	}
	if dropped > 0 {
		logger.Debug().Int("dropped", dropped).Msg("scored movies missing from catalog")
	}
	return kept
}

func (e *Engine) mapScoreError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w after %v", ErrTimeout, e.config.Limits.RequestTimeout)
	case errors.Is(err, algorithms.ErrNoSeeds):
		return fmt.Errorf("%w: %w", ErrNoValidSeeds, ErrNotFound)
	default:
		return err
	}
}

// ========== Training ==========

// Bootstrap installs the first collaborative model: the latest matching
// snapshot when restore is enabled and one exists, a fresh training
// otherwise.
func (e *Engine) Bootstrap(ctx context.Context) error {
	return e.withTrainingLock(ctx, func(ctx context.Context, start time.Time) error {
		m, stats, err := e.loadRatings(ctx)
		if err != nil {
			return err
		}

		if e.config.Training.RestoreSnapshot && e.store != nil {
			model, err := e.store.LoadModel(ctx, e.config.Collab.Algorithm, m)
			if err == nil {
				e.install(model, true, stats, 0)
				return nil
			}
			e.logger.Info().Err(err).Msg("no usable model snapshot, training")
		}

		return e.trainOn(ctx, m, stats, start)
	})
}

// Train loads the ratings corpus and installs a freshly trained model.
// The previous model keeps serving until the swap and stays installed if
// training fails. Returns ErrTrainingInProgress if a run is active.
func (e *Engine) Train(ctx context.Context) error {
	return e.withTrainingLock(ctx, func(ctx context.Context, start time.Time) error {
		m, stats, err := e.loadRatings(ctx)
		if err != nil {
			return err
		}
		return e.trainOn(ctx, m, stats, start)
	})
}

// TrainMatrix trains on an already built matrix.
func (e *Engine) TrainMatrix(ctx context.Context, m *ratings.Matrix) error {
	return e.withTrainingLock(ctx, func(ctx context.Context, start time.Time) error {
		return e.trainOn(ctx, m, ratings.BuildStats{}, start)
	})
}

// Install swaps in an externally built model. It waits for any active
// training run so model versions stay unique.
func (e *Engine) Install(model CollabModel) {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()
	e.install(model, false, ratings.BuildStats{}, 0)
}

func (e *Engine) withTrainingLock(ctx context.Context, fn func(context.Context, time.Time) error) error {
	if !e.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	e.statusMu.Lock()
	e.status.IsTraining = true
	e.status.LastError = ""
	e.statusMu.Unlock()

	trainCtx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()

	err := fn(trainCtx, time.Now())

	e.statusMu.Lock()
	e.status.IsTraining = false
	if err != nil {
		e.status.LastError = err.Error()
	}
	e.statusMu.Unlock()

	if err != nil {
		e.logger.Error().Err(err).Msg("model training failed")
	}
	return err
}

func (e *Engine) loadRatings(ctx context.Context) (*ratings.Matrix, ratings.BuildStats, error) {
	if e.source == nil {
		return nil, ratings.BuildStats{}, fmt.Errorf("ratings source not set")
	}
	m, stats, err := e.source.LoadRatings(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("load ratings: %w", err)
	}

	e.logger.Info().
		Int("users", m.NumUsers()).
		Int("movies", m.NumMovies()).
		Int("ratings", m.NNZ()).
		Int("out_of_range", stats.OutOfRange).
		Int("malformed", stats.Malformed).
		Int("duplicates", stats.Duplicates).
		Msg("loaded ratings corpus")

	return m, stats, nil
}

func (e *Engine) trainOn(ctx context.Context, m *ratings.Matrix, stats ratings.BuildStats, start time.Time) error {
	if m == nil || m.NNZ() == 0 || m.NNZ() < e.config.Training.MinRatings {
		return fmt.Errorf("insufficient ratings: %w", ErrEmptyCorpus)
	}

	e.logger.Info().Str("algorithm", e.config.Collab.Algorithm).Msg("starting model training")

	var (
		model CollabModel
		err   error
	)
	switch e.config.Collab.Algorithm {
	case AlgorithmALS:
		model, err = algorithms.TrainALS(ctx, m, e.config.Collab.ALS)
	default:
		model, err = algorithms.TrainItemKNN(ctx, m, e.config.Collab.KNN)
	}
	if err != nil {
		return fmt.Errorf("train %s: %w", e.config.Collab.Algorithm, err)
	}

	e.install(model, false, stats, time.Since(start))

	if e.store != nil {
		if err := e.store.SaveModel(ctx, model); err != nil {
			e.logger.Warn().Err(err).Msg("failed to save model snapshot")
		}
	}
	return nil
}

// install must be called with trainMu held.
func (e *Engine) install(model CollabModel, restored bool, stats ratings.BuildStats, took time.Duration) {
	version := 1
	if prev := e.collab.Load(); prev != nil {
		version = prev.version + 1
	}
	e.collab.Store(&installedModel{model: model, version: version, restored: restored})

	e.statusMu.Lock()
	e.status.ModelVersion = version
	e.status.Restored = restored
	e.status.LastTrainedAt = model.TrainedAt()
	e.status.Corpus = model.Fingerprint()
	e.status.Rejected = stats
	if took > 0 {
		e.status.LastTrainingDurationMS = took.Milliseconds()
	}
	e.statusMu.Unlock()

	e.logger.Info().
		Str("algorithm", model.Name()).
		Int("version", version).
		Bool("restored", restored).
		Dur("duration", took).
		Msg("collaborative model installed")
}

// Status returns the current training status.
func (e *Engine) Status() TrainingStatus {
	e.statusMu.RLock()
	status := e.status
	e.statusMu.RUnlock()

	if installed := e.collab.Load(); installed != nil {
		status.ModelReady = true
		status.Algorithm = installed.model.Name()
	}
	return status
}

// Counters returns the number of requests served and failed.
func (e *Engine) Counters() (requests, errs int64) {
	return e.requestCount.Load(), e.errorCount.Load()
}
