// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package features

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/reelrec/internal/catalog"
)

// Weighting selects how token counts become vector weights.
type Weighting string

const (
	// WeightingTF uses raw term counts.
	WeightingTF Weighting = "tf"

	// WeightingTFIDF scales counts by smoothed inverse document frequency:
	// idf(t) = ln((1+N)/(1+df(t))) + 1.
	WeightingTFIDF Weighting = "tfidf"
)

// ErrNoMovies is returned when Build is given an empty source.
var ErrNoMovies = errors.New("no movies to vectorize")

// Config controls soup construction and weighting.
type Config struct {
	// TopCast is how many billed cast members enter the soup.
	TopCast int `json:"top_cast"`

	// DirectorWeight is how many times the director token is repeated.
	DirectorWeight int `json:"director_weight"`

	// Weighting is tf or tfidf.
	Weighting Weighting `json:"weighting"`
}

// DefaultConfig returns the default feature configuration.
func DefaultConfig() Config {
	return Config{
		TopCast:        3,
		DirectorWeight: 1,
		Weighting:      WeightingTFIDF,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.TopCast < 0 {
		return fmt.Errorf("top_cast must be non-negative, got %d", c.TopCast)
	}
	if c.DirectorWeight < 0 {
		return fmt.Errorf("director_weight must be non-negative, got %d", c.DirectorWeight)
	}
	switch c.Weighting {
	case WeightingTF, WeightingTFIDF:
	default:
		return fmt.Errorf("weighting must be %q or %q, got %q", WeightingTF, WeightingTFIDF, c.Weighting)
	}
	return nil
}

// MovieSource is the catalog view Build needs. *catalog.Index satisfies it.
type MovieSource interface {
	AllIDs() []int
	Movie(id int) (catalog.Movie, bool)
}

// Space is an immutable vocabulary plus one vector per movie.
type Space struct {
	config  Config
	vocab   []string
	ids     []int
	vectors map[int]Vector
	idf     []float64
}

// Build tokenizes every movie in src and weights the resulting counts.
func Build(src MovieSource, cfg Config) (*Space, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ids := src.AllIDs()
	if len(ids) == 0 {
		return nil, ErrNoMovies
	}

	// Pass 1: per-movie token counts and document frequency.
	counts := make(map[int]map[string]int, len(ids))
	df := make(map[string]int)
	kept := make([]int, 0, len(ids))
	for _, id := range ids {
		m, ok := src.Movie(id)
		if !ok {
			continue
		}
		kept = append(kept, id)
		c := make(map[string]int)
		for _, tok := range Soup(m, cfg) {
			c[tok]++
		}
		for tok := range c {
			df[tok]++
		}
		counts[id] = c
	}

	vocab := make([]string, 0, len(df))
	for tok := range df {
		vocab = append(vocab, tok)
	}
	sort.Strings(vocab)

	termIndex := make(map[string]int, len(vocab))
	for i, tok := range vocab {
		termIndex[tok] = i
	}

	idf := make([]float64, len(vocab))
	n := float64(len(counts))
	for i, tok := range vocab {
		if cfg.Weighting == WeightingTFIDF {
			idf[i] = math.Log((1+n)/(1+float64(df[tok]))) + 1
		} else {
			idf[i] = 1
		}
	}

	// Pass 2: sparse vectors with ascending term indices.
	vectors := make(map[int]Vector, len(counts))
	for id, c := range counts {
		terms := make([]int, 0, len(c))
		for tok := range c {
			terms = append(terms, termIndex[tok])
		}
		sort.Ints(terms)

		weights := make([]float64, len(terms))
		for i, t := range terms {
			weights[i] = float64(c[vocab[t]]) * idf[t]
		}
		vectors[id] = newVector(terms, weights)
	}

	return &Space{
		config:  cfg,
		vocab:   vocab,
		ids:     kept,
		vectors: vectors,
		idf:     idf,
	}, nil
}

// Vocabulary returns a copy of the ordered token list.
func (s *Space) Vocabulary() []string {
	out := make([]string, len(s.vocab))
	copy(out, s.vocab)
	return out
}

// VectorFor returns the vector of a movie. Movies whose soup is empty have
// a zero vector.
func (s *Space) VectorFor(id int) (Vector, bool) {
	v, ok := s.vectors[id]
	return v, ok
}

// IDs returns the vectorized movie ids in source order (ascending for a
// catalog.Index). The slice must not be modified.
func (s *Space) IDs() []int {
	return s.ids
}

// Len returns the number of vectorized movies.
func (s *Space) Len() int {
	return len(s.vectors)
}

// Config returns the configuration the space was built with.
func (s *Space) Config() Config {
	return s.config
}

// Terms decodes a vector back into (token, weight) pairs, mostly for
// debugging and explanations in logs.
func (s *Space) Terms(v Vector) map[string]float64 {
	out := make(map[string]float64, len(v.Terms))
	for i, t := range v.Terms {
		out[s.vocab[t]] = v.Weights[i]
	}
	return out
}
