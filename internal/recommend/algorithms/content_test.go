// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package algorithms

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/reelrec/internal/catalog"
	"github.com/tomtom215/reelrec/internal/recommend/features"
)

func TestContentSimilarity_GenreNeighbour(t *testing.T) {
	t.Parallel()

	movies := []catalog.Movie{
		{ID: 1, Title: "A", Genres: []string{"Action"}},
		{ID: 2, Title: "B", Genres: []string{"Action"}},
		{ID: 3, Title: "C", Genres: []string{"Comedy"}},
	}

	for _, w := range []features.Weighting{features.WeightingTF, features.WeightingTFIDF} {
		t.Run(string(w), func(t *testing.T) {
			t.Parallel()

			cs, err := NewContentSimilarity(buildSpace(t, movies, w), DefaultContentConfig())
			if err != nil {
				t.Fatalf("NewContentSimilarity() error = %v", err)
			}
			got, err := cs.Recommend(context.Background(), []int{1}, 1)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if !reflect.DeepEqual(ids(got), []int{2}) {
				t.Errorf("Recommend() = %v, want [2]", ids(got))
			}
		})
	}
}

func TestContentSimilarity_SharedNeighbourOutranksSingle(t *testing.T) {
	t.Parallel()

	// Z shares a genre with both seeds, W only with X.
	movies := []catalog.Movie{
		{ID: 1, Title: "X", Genres: []string{"Action", "Thriller"}},
		{ID: 2, Title: "Y", Genres: []string{"Action", "Comedy"}},
		{ID: 3, Title: "Z", Genres: []string{"Action"}},
		{ID: 4, Title: "W", Genres: []string{"Thriller"}},
	}

	cs, err := NewContentSimilarity(buildSpace(t, movies, features.WeightingTF), DefaultContentConfig())
	if err != nil {
		t.Fatalf("NewContentSimilarity() error = %v", err)
	}
	got, err := cs.Recommend(context.Background(), []int{1, 2}, 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !reflect.DeepEqual(ids(got), []int{3, 4}) {
		t.Fatalf("Recommend() = %v, want [3 4]", ids(got))
	}
	if want := math.Sqrt2; math.Abs(got[0].Score-want) > 1e-9 {
		t.Errorf("score(Z) = %v, want %v", got[0].Score, want)
	}
}

func TestContentSimilarity_Aggregate(t *testing.T) {
	t.Parallel()

	movies := []catalog.Movie{
		{ID: 1, Title: "X", Genres: []string{"Action", "Thriller"}},
		{ID: 2, Title: "Y", Genres: []string{"Action", "Comedy"}},
		{ID: 3, Title: "Z", Genres: []string{"Action"}},
	}
	space := buildSpace(t, movies, features.WeightingTF)

	sum, _ := NewContentSimilarity(space, ContentConfig{Aggregate: AggregateSum})
	mean, _ := NewContentSimilarity(space, ContentConfig{Aggregate: AggregateMean})

	s, err := sum.Score(context.Background(), []int{1, 2})
	if err != nil {
		t.Fatalf("sum Score() error = %v", err)
	}
	m, err := mean.Score(context.Background(), []int{1, 2})
	if err != nil {
		t.Fatalf("mean Score() error = %v", err)
	}
	if len(s) != 1 || len(m) != 1 {
		t.Fatalf("got %d and %d candidates, want 1 each", len(s), len(m))
	}
	if math.Abs(s[0].Score/2-m[0].Score) > 1e-12 {
		t.Errorf("mean = %v, want sum/2 = %v", m[0].Score, s[0].Score/2)
	}

	if _, err := NewContentSimilarity(space, ContentConfig{Aggregate: "max"}); err == nil {
		t.Error("NewContentSimilarity() with unknown aggregate should fail")
	}
}

func TestContentSimilarity_ZeroScoresRankLastByID(t *testing.T) {
	t.Parallel()

	movies := []catalog.Movie{
		{ID: 5, Title: "Seed", Genres: []string{"Drama"}},
		{ID: 9, Title: "Other 9", Genres: []string{"Horror"}},
		{ID: 7, Title: "Other 7", Genres: []string{"Western"}},
		{ID: 8, Title: "Close", Genres: []string{"Drama", "Romance"}},
		{ID: 6, Title: "Bare"},
	}

	cs, _ := NewContentSimilarity(buildSpace(t, movies, features.WeightingTFIDF), DefaultContentConfig())
	got, err := cs.Recommend(context.Background(), []int{5}, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if want := []int{8, 6, 7, 9}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Recommend() = %v, want %v", ids(got), want)
	}
	if contains(got, 5) {
		t.Error("seed returned as a recommendation")
	}
}

func TestContentSimilarity_Errors(t *testing.T) {
	t.Parallel()

	movies := []catalog.Movie{
		{ID: 1, Title: "A", Genres: []string{"Action"}},
		{ID: 2, Title: "B", Genres: []string{"Action"}},
	}
	cs, _ := NewContentSimilarity(buildSpace(t, movies, features.WeightingTF), DefaultContentConfig())

	t.Run("unknown seeds", func(t *testing.T) {
		t.Parallel()
		if _, err := cs.Score(context.Background(), []int{404}); !errors.Is(err, ErrNoSeeds) {
			t.Errorf("Score() error = %v, want ErrNoSeeds", err)
		}
	})

	t.Run("expired deadline", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()
		if _, err := cs.Score(ctx, []int{1}); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Score() error = %v, want context.DeadlineExceeded", err)
		}
	})
}

func TestRankTopN(t *testing.T) {
	t.Parallel()

	items := []Scored{
		{MovieID: 4, Score: 0.5},
		{MovieID: 2, Score: 0.9},
		{MovieID: 3, Score: 0.5},
		{MovieID: 1, Score: 0.1},
	}

	tests := []struct {
		name string
		n    int
		want []int
	}{
		{name: "ties by ascending id", n: 3, want: []int{2, 3, 4}},
		{name: "n larger than input", n: 10, want: []int{2, 3, 4, 1}},
		{name: "zero", n: 0, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := append([]Scored(nil), items...)
			if got := ids(RankTopN(in, tt.n)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RankTopN(n=%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}
