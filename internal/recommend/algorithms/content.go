// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package algorithms

import (
	"context"
	"fmt"

	"github.com/tomtom215/reelrec/internal/recommend/features"
)

// Aggregate selects how per-seed similarities are combined.
type Aggregate string

const (
	// AggregateSum adds the similarities to every seed.
	AggregateSum Aggregate = "sum"

	// AggregateMean averages the similarities over the resolved seeds.
	AggregateMean Aggregate = "mean"
)

// contentCheckInterval is how many candidates are scored between deadline
// checks.
const contentCheckInterval = 512

// ContentConfig contains configuration for content similarity.
type ContentConfig struct {
	// Aggregate is sum or mean. Default: sum.
	Aggregate Aggregate
}

// DefaultContentConfig returns default content similarity configuration.
func DefaultContentConfig() ContentConfig {
	return ContentConfig{Aggregate: AggregateSum}
}

// ContentSimilarity ranks movies by feature-vector cosine similarity to a
// set of seeds.
//
// For candidate c and resolved seeds S:
// score(c) = sum_{s in S} cos(v_s, v_c), divided by |S| for AggregateMean.
type ContentSimilarity struct {
	space  *features.Space
	config ContentConfig
}

// NewContentSimilarity creates a content scorer over space.
func NewContentSimilarity(space *features.Space, cfg ContentConfig) (*ContentSimilarity, error) {
	if cfg.Aggregate == "" {
		cfg.Aggregate = AggregateSum
	}
	switch cfg.Aggregate {
	case AggregateSum, AggregateMean:
	default:
		return nil, fmt.Errorf("aggregate must be %q or %q, got %q", AggregateSum, AggregateMean, cfg.Aggregate)
	}
	return &ContentSimilarity{space: space, config: cfg}, nil
}

// Name returns the scorer identifier.
func (c *ContentSimilarity) Name() string {
	return "content"
}

// Space returns the feature space the scorer reads.
func (c *ContentSimilarity) Space() *features.Space {
	return c.space
}

// Score returns every non-seed movie with its aggregate similarity. Movies
// with zero similarity are included. Seeds without a vector are ignored;
// if none remain the error is ErrNoSeeds.
func (c *ContentSimilarity) Score(ctx context.Context, seeds []int) ([]Scored, error) {
	seedVecs := make([]features.Vector, 0, len(seeds))
	for _, id := range seeds {
		if v, ok := c.space.VectorFor(id); ok {
			seedVecs = append(seedVecs, v)
		}
	}
	if len(seedVecs) == 0 {
		return nil, ErrNoSeeds
	}

	exclude := seedSet(seeds)
	ids := c.space.IDs()
	out := make([]Scored, 0, len(ids))

	for n, id := range ids {
		if n%contentCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if _, skip := exclude[id]; skip {
			continue
		}

		cand, _ := c.space.VectorFor(id)
		var score float64
		if !cand.IsZero() {
			for _, sv := range seedVecs {
				score += features.Cosine(sv, cand)
			}
		}
		if c.config.Aggregate == AggregateMean {
			score /= float64(len(seedVecs))
		}
		out = append(out, Scored{MovieID: id, Score: score})
	}

	return out, nil
}

// Recommend scores seeds and returns the top n.
func (c *ContentSimilarity) Recommend(ctx context.Context, seeds []int, n int) ([]Scored, error) {
	scored, err := c.Score(ctx, seeds)
	if err != nil {
		return nil, err
	}
	return RankTopN(scored, n), nil
}
