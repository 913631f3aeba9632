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

// ALSConfig contains configuration for the ALS algorithm.
type ALSConfig struct {
	// NumFactors is the dimension of the latent factor vectors.
	// Typical range: 16-200.
	NumFactors int `json:"num_factors"`

	// NumIterations is the number of ALS sweeps to run.
	NumIterations int `json:"num_iterations"`

	// Regularization is the L2 regularization parameter.
	Regularization float64 `json:"regularization"`

	// Alpha scales the confidence transformation for implicit feedback.
	// c = 1 + alpha * r, where r is the explicit rating.
	Alpha float64 `json:"alpha"`

	// NumWorkers is the number of parallel workers for training.
	NumWorkers int `json:"num_workers"`
}

// DefaultALSConfig returns default ALS configuration.
func DefaultALSConfig() ALSConfig {
	return ALSConfig{
		NumFactors:     32,
		NumIterations:  10,
		Regularization: 0.1,
		Alpha:          10.0,
		NumWorkers:     4,
	}
}

func (c *ALSConfig) applyDefaults() {
	def := DefaultALSConfig()
	if c.NumFactors <= 0 {
		c.NumFactors = def.NumFactors
	}
	if c.NumIterations <= 0 {
		c.NumIterations = def.NumIterations
	}
	if c.Regularization <= 0 {
		c.Regularization = def.Regularization
	}
	if c.Alpha <= 0 {
		c.Alpha = def.Alpha
	}
	if c.NumWorkers <= 0 {
		c.NumWorkers = def.NumWorkers
	}
}

// ALS is a trained implicit-feedback matrix factorization model.
// Reference: "Collaborative Filtering for Implicit Feedback Datasets" (Hu, Koren, Volinsky, 2008)
//
// The objective function minimizes:
// sum_{u,i} c_ui * (p_ui - x_u' * y_i)^2 + lambda * (||x_u||^2 + ||y_i||^2)
//
// where p_ui = 1 if user u rated movie i, 0 otherwise, and c_ui = 1 + alpha * r_ui.
type ALS struct {
	matrix *ratings.Matrix
	config ALSConfig

	// X is the user factor matrix (numUsers x numFactors).
	X [][]float64

	// Y is the movie factor matrix (numMovies x numFactors).
	Y [][]float64

	// YtY is Y'Y, kept for pseudo-user fold-in.
	YtY [][]float64

	trainedAt time.Time
}

// TrainALS fits user and movie factors by alternating least squares.
func TrainALS(ctx context.Context, m *ratings.Matrix, cfg ALSConfig) (*ALS, error) {
	cfg.applyDefaults()

	if m == nil || m.NNZ() == 0 {
		return nil, ErrEmptyMatrix
	}
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	numUsers, numItems, numFactors := m.NumUsers(), m.NumMovies(), cfg.NumFactors

	a := &ALS{
		matrix: m,
		config: cfg,
		X:      initFactors(numUsers, numFactors),
		Y:      initFactors(numItems, numFactors),
	}

	for iter := 0; iter < cfg.NumIterations; iter++ {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		// Fix Y, solve for X.
		YtY := gram(a.Y, numFactors)
		a.sweep(numUsers, func(u int) {
			cols, vals := m.Row(u)
			a.X[u] = solveFactors(YtY, a.Y, cols, vals, cfg)
		})

		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		// Fix X, solve for Y.
		XtX := gram(a.X, numFactors)
		a.sweep(numItems, func(i int) {
			rows, vals := m.Column(i)
			a.Y[i] = solveFactors(XtX, a.X, rows, vals, cfg)
		})
	}

	a.YtY = gram(a.Y, numFactors)
	a.trainedAt = time.Now()
	return a, nil
}

// initFactors uses a fixed pattern so training is reproducible.
func initFactors(n, numFactors int) [][]float64 {
	out := make([][]float64, n)
	for r := 0; r < n; r++ {
		out[r] = make([]float64, numFactors)
		for f := 0; f < numFactors; f++ {
			out[r][f] = 0.1 * (float64((r*numFactors+f)%1000)/1000.0 - 0.5)
		}
	}
	return out
}

// gram returns M'M for a row-major factor matrix.
func gram(M [][]float64, numFactors int) [][]float64 { //nolint:gocritic // M follows linear algebra notation
	G := make([][]float64, numFactors)
	for f := range G {
		G[f] = make([]float64, numFactors)
	}
	for _, row := range M {
		for f1 := 0; f1 < numFactors; f1++ {
			for f2 := f1; f2 < numFactors; f2++ {
				G[f1][f2] += row[f1] * row[f2]
			}
		}
	}
	for f1 := 0; f1 < numFactors; f1++ {
		for f2 := 0; f2 < f1; f2++ {
			G[f1][f2] = G[f2][f1]
		}
	}
	return G
}

// sweep runs update for every index in [0, n) across the worker pool.
// Each index is written by exactly one worker.
func (a *ALS) sweep(n int, update func(int)) {
	var wg sync.WaitGroup
	for _, chunk := range workerChunks(n, a.config.NumWorkers) {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for k := start; k < end; k++ {
				update(k)
			}
		}(chunk[0], chunk[1])
	}
	wg.Wait()
}

// solveFactors solves one least-squares row:
//
//	A = G + lambda*I + sum_j (c_j - 1) * f_j f_j'
//	b = sum_j c_j * f_j
//
// where j ranges over idx, f_j = F[j] and c_j = 1 + alpha*vals[j].
//
//nolint:gocritic // G, F, A follow standard linear algebra notation
func solveFactors(G, F [][]float64, idx []int, vals []float64, cfg ALSConfig) []float64 {
	numFactors := len(G)

	A := make([][]float64, numFactors)
	for f := range A {
		A[f] = make([]float64, numFactors)
		copy(A[f], G[f])
		A[f][f] += cfg.Regularization
	}

	b := make([]float64, numFactors)
	for k, j := range idx {
		conf := 1.0 + cfg.Alpha*vals[k]
		cMinus1 := conf - 1.0
		y := F[j]

		for f1 := 0; f1 < numFactors; f1++ {
			for f2 := f1; f2 < numFactors; f2++ {
				delta := cMinus1 * y[f1] * y[f2]
				A[f1][f2] += delta
				if f1 != f2 {
					A[f2][f1] += delta
				}
			}
			b[f1] += conf * y[f1]
		}
	}

	return solveLinearSystem(A, b)
}

// solveLinearSystem solves A*x = b using Cholesky decomposition.
//
//nolint:gocritic // A, L follow standard linear algebra notation
func solveLinearSystem(A [][]float64, b []float64) []float64 {
	n := len(b)

	// Cholesky decomposition: A = L * L'
	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := A[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}

			switch {
			case i == j:
				if sum <= 0 {
					sum = 1e-10
				}
				L[i][j] = math.Sqrt(sum)
			case L[j][j] != 0:
				L[i][j] = sum / L[j][j]
			}
		}
	}

	// Forward substitution: L * z = b
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for j := 0; j < i; j++ {
			sum -= L[i][j] * z[j]
		}
		if L[i][i] != 0 {
			z[i] = sum / L[i][i]
		}
	}

	// Back substitution: L' * x = z
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < n; j++ {
			sum -= L[j][i] * x[j]
		}
		if L[i][i] != 0 {
			x[i] = sum / L[i][i]
		}
	}

	return x
}

// Name returns the model identifier.
func (a *ALS) Name() string {
	return "als"
}

// TrainedAt returns when the model finished training.
func (a *ALS) TrainedAt() time.Time {
	return a.trainedAt
}

// Fingerprint returns the shape of the corpus the model was trained on.
func (a *ALS) Fingerprint() CorpusFingerprint {
	return fingerprint(a.matrix)
}

// Warm reports whether movieID has ratings in the training corpus.
func (a *ALS) Warm(movieID int) bool {
	return a.matrix.HasMovie(movieID)
}

// FoldIn solves for the factors of a pseudo-user who gave every warm seed
// the maximum rating. ok is false when no seed is warm.
func (a *ALS) FoldIn(seeds []int) (x []float64, ok bool) {
	cols := make([]int, 0, len(seeds))
	seen := make(map[int]struct{}, len(seeds))
	for _, id := range seeds {
		col, warm := a.matrix.MovieIndex(id)
		if !warm {
			continue
		}
		if _, dup := seen[col]; dup {
			continue
		}
		seen[col] = struct{}{}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return nil, false
	}

	maxRating := a.matrix.Bounds().Max
	vals := make([]float64, len(cols))
	for k := range vals {
		vals[k] = maxRating
	}
	return solveFactors(a.YtY, a.Y, cols, vals, a.config), true
}

// Score returns x'y_c for every non-seed rated movie c with a positive
// score, where x is the folded-in pseudo-user.
func (a *ALS) Score(ctx context.Context, seeds []int) ([]Scored, error) {
	x, ok := a.FoldIn(seeds)
	if !ok {
		return nil, ErrNoSeeds
	}

	exclude := seedSet(seeds)
	out := make([]Scored, 0, 64)
	for col, y := range a.Y {
		if col%contentCheckInterval == 0 && ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		id := a.matrix.MovieID(col)
		if _, skip := exclude[id]; skip {
			continue
		}
		var s float64
		for f := range x {
			s += x[f] * y[f]
		}
		if s > 0 {
			out = append(out, Scored{MovieID: id, Score: s})
		}
	}
	return out, nil
}
