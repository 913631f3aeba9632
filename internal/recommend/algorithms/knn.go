// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package algorithms

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/tomtom215/reelrec/internal/ratings"
)

// KNNConfig contains configuration for item-based KNN.
type KNNConfig struct {
	// K is the number of neighbours kept per movie.
	// Typical range: 20-100.
	K int `json:"k"`

	// MinSimilarity is the minimum (shrunk) similarity for a neighbour.
	MinSimilarity float64 `json:"min_similarity"`

	// Shrinkage adds a penalty for pairs with few co-ratings.
	// Regularizes similarity: sim = raw_sim * n / (n + shrinkage)
	Shrinkage float64 `json:"shrinkage"`

	// MinCommonUsers is the minimum number of users who rated both movies.
	MinCommonUsers int `json:"min_common_users"`

	// NumWorkers is the number of parallel workers.
	NumWorkers int `json:"num_workers"`
}

// DefaultKNNConfig returns default KNN configuration.
func DefaultKNNConfig() KNNConfig {
	return KNNConfig{
		K:              50,
		MinSimilarity:  0.01,
		Shrinkage:      10,
		MinCommonUsers: 1,
		NumWorkers:     4,
	}
}

func (c *KNNConfig) applyDefaults() {
	def := DefaultKNNConfig()
	if c.K <= 0 {
		c.K = def.K
	}
	if c.MinSimilarity < 0 {
		c.MinSimilarity = 0
	}
	if c.Shrinkage < 0 {
		c.Shrinkage = 0
	}
	if c.MinCommonUsers <= 0 {
		c.MinCommonUsers = 1
	}
	if c.NumWorkers <= 0 {
		c.NumWorkers = def.NumWorkers
	}
}

// ItemKNN is a trained item-based collaborative filtering model.
//
// For movies i and j with co-rating users U(i,j):
// sim(i, j) = sum_{u in U} r(u,i)*r(u,j) / (||r(.,i)|| * ||r(.,j)||) * n/(n+shrinkage)
//
// For a pseudo-user with seeds S, score(c) = sum_{s in S} sim(s, c) over the
// stored neighbours of each seed.
type ItemKNN struct {
	matrix    *ratings.Matrix
	config    KNNConfig
	neighbors [][]neighbor // indexed by column
	trainedAt time.Time
}

// TrainItemKNN computes the neighbour lists of every rated movie.
func TrainItemKNN(ctx context.Context, m *ratings.Matrix, cfg KNNConfig) (*ItemKNN, error) {
	cfg.applyDefaults()

	if m == nil || m.NNZ() == 0 {
		return nil, ErrEmptyMatrix
	}
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	numMovies := m.NumMovies()
	norms := columnNorms(m)
	neighbors := make([][]neighbor, numMovies)

	var wg sync.WaitGroup
	for _, chunk := range workerChunks(numMovies, cfg.NumWorkers) {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			// Per-worker dense accumulators, reset via the touched list.
			dot := make([]float64, numMovies)
			common := make([]int, numMovies)
			touched := make([]int, 0, 256)

			for col := start; col < end; col++ {
				if ContextCancelled(ctx) {
					return
				}
				neighbors[col] = itemNeighbors(m, col, norms, cfg, dot, common, touched[:0])
			}
		}(chunk[0], chunk[1])
	}
	wg.Wait()

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	return &ItemKNN{
		matrix:    m,
		config:    cfg,
		neighbors: neighbors,
		trainedAt: time.Now(),
	}, nil
}

func columnNorms(m *ratings.Matrix) []float64 {
	norms := make([]float64, m.NumMovies())
	for col := range norms {
		_, vals := m.Column(col)
		var sq float64
		for _, v := range vals {
			sq += v * v
		}
		norms[col] = math.Sqrt(sq)
	}
	return norms
}

// itemNeighbors computes the top-K neighbours of col by walking every user
// who rated col and every other movie that user rated.
func itemNeighbors(m *ratings.Matrix, col int, norms []float64, cfg KNNConfig, dot []float64, common []int, touched []int) []neighbor {
	if norms[col] == 0 {
		return nil
	}

	rows, vals := m.Column(col)
	for k, row := range rows {
		ri := vals[k]
		cols, rvals := m.Row(row)
		for j, other := range cols {
			if other == col {
				continue
			}
			if common[other] == 0 {
				touched = append(touched, other)
			}
			common[other]++
			dot[other] += ri * rvals[j]
		}
	}

	out := make([]neighbor, 0, len(touched))
	for _, other := range touched {
		n := common[other]
		if n >= cfg.MinCommonUsers && norms[other] > 0 {
			sim := dot[other] / (norms[col] * norms[other])
			if cfg.Shrinkage > 0 {
				sim = sim * float64(n) / (float64(n) + cfg.Shrinkage)
			}
			if sim > 0 && sim >= cfg.MinSimilarity {
				out = append(out, neighbor{Col: other, Similarity: sim})
			}
		}
		dot[other] = 0
		common[other] = 0
	}

	sortNeighbors(out)
	if len(out) > cfg.K {
		out = out[:cfg.K:cfg.K]
	}
	return out
}

// Name returns the model identifier.
func (i *ItemKNN) Name() string {
	return "item_knn"
}

// TrainedAt returns when the model finished training.
func (i *ItemKNN) TrainedAt() time.Time {
	return i.trainedAt
}

// Fingerprint returns the shape of the corpus the model was trained on.
func (i *ItemKNN) Fingerprint() CorpusFingerprint {
	return fingerprint(i.matrix)
}

// Warm reports whether movieID has ratings in the training corpus.
func (i *ItemKNN) Warm(movieID int) bool {
	return i.matrix.HasMovie(movieID)
}

// Neighbors returns the stored neighbours of movieID as scored movie ids.
func (i *ItemKNN) Neighbors(movieID int) []Scored {
	col, ok := i.matrix.MovieIndex(movieID)
	if !ok {
		return nil
	}
	out := make([]Scored, len(i.neighbors[col]))
	for k, n := range i.neighbors[col] {
		out[k] = Scored{MovieID: i.matrix.MovieID(n.Col), Score: n.Similarity}
	}
	return out
}

// Score returns the pseudo-user scores of every movie that appears in a
// warm seed's neighbourhood. Seeds are never returned and all scores are
// positive.
func (i *ItemKNN) Score(ctx context.Context, seeds []int) ([]Scored, error) {
	exclude := seedSet(seeds)
	acc := make(map[int]float64)
	warm := 0

	for _, id := range seeds {
		col, ok := i.matrix.MovieIndex(id)
		if !ok {
			continue
		}
		warm++
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		for _, n := range i.neighbors[col] {
			cand := i.matrix.MovieID(n.Col)
			if _, skip := exclude[cand]; skip {
				continue
			}
			acc[cand] += n.Similarity
		}
	}
	if warm == 0 {
		return nil, ErrNoSeeds
	}

	out := make([]Scored, 0, len(acc))
	for id, s := range acc {
		if s > 0 {
			out = append(out, Scored{MovieID: id, Score: s})
		}
	}
	return out, nil
}

func fingerprint(m *ratings.Matrix) CorpusFingerprint {
	return CorpusFingerprint{Users: m.NumUsers(), Movies: m.NumMovies(), NNZ: m.NNZ()}
}
