// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package algorithms

import (
	"testing"

	"github.com/tomtom215/reelrec/internal/catalog"
	"github.com/tomtom215/reelrec/internal/ratings"
	"github.com/tomtom215/reelrec/internal/recommend/features"
)

func buildMatrix(t *testing.T, entries []ratings.Entry) *ratings.Matrix {
	t.Helper()
	b := ratings.NewBuilder(ratings.BuilderConfig{})
	for _, e := range entries {
		if err := b.Add(e); err != nil {
			t.Fatalf("Add(%+v) error = %v", e, err)
		}
	}
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return m
}

func buildSpace(t *testing.T, movies []catalog.Movie, weighting features.Weighting) *features.Space {
	t.Helper()
	idx, err := catalog.NewIndex(movies)
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	cfg := features.DefaultConfig()
	cfg.Weighting = weighting
	space, err := features.Build(idx, cfg)
	if err != nil {
		t.Fatalf("features.Build() error = %v", err)
	}
	return space
}

func ids(items []Scored) []int {
	out := make([]int, len(items))
	for i, s := range items {
		out[i] = s.MovieID
	}
	return out
}

func contains(items []Scored, id int) bool {
	for _, s := range items {
		if s.MovieID == id {
			return true
		}
	}
	return false
}
