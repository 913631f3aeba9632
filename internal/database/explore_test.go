// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/reelrec/internal/ratings"
)

func setupExploreDB(t *testing.T) *DB {
	t.Helper()

	db := setupTestDB(t)
	ctx := context.Background()
	if err := db.IngestCatalog(ctx, testIndex(t)); err != nil {
		t.Fatalf("IngestCatalog() error = %v", err)
	}
	if _, err := db.IngestRatings(ctx, writeCSV(t, "ratings.csv", ratingsCSV), ratings.DefaultBounds()); err != nil {
		t.Fatalf("IngestRatings() error = %v", err)
	}
	return db
}

func TestExplore_Catalog(t *testing.T) {
	db := setupExploreDB(t)
	ctx := context.Background()

	genres, err := db.GenreCounts(ctx)
	if err != nil {
		t.Fatalf("GenreCounts() error = %v", err)
	}
	if len(genres) != 5 || genres[0] != (NameCount{Name: "Animation", Movies: 2}) {
		t.Errorf("GenreCounts() = %+v", genres)
	}

	years, err := db.ReleaseYears(ctx)
	if err != nil {
		t.Fatalf("ReleaseYears() error = %v", err)
	}
	wantYears := []YearCount{{Year: 1995, Count: 2}, {Year: 1999, Count: 1}}
	if len(years) != len(wantYears) {
		t.Fatalf("ReleaseYears() = %+v, want %+v", years, wantYears)
	}
	for i := range wantYears {
		if years[i] != wantYears[i] {
			t.Errorf("ReleaseYears()[%d] = %+v, want %+v", i, years[i], wantYears[i])
		}
	}

	trends, err := db.GenreTrends(ctx)
	if err != nil {
		t.Fatalf("GenreTrends() error = %v", err)
	}
	if len(trends) != 6 {
		t.Errorf("GenreTrends() rows = %d, want 6 (%+v)", len(trends), trends)
	}

	directors, err := db.TopDirectors(ctx, 1)
	if err != nil {
		t.Fatalf("TopDirectors() error = %v", err)
	}
	if len(directors) != 1 || directors[0] != (NameCount{Name: "John Lasseter", Movies: 2}) {
		t.Errorf("TopDirectors(1) = %+v", directors)
	}

	actors, err := db.TopActors(ctx, 0)
	if err != nil {
		t.Fatalf("TopActors() error = %v", err)
	}
	if len(actors) != 3 || actors[0].Name != "Tim Allen" || actors[0].Movies != 2 {
		t.Errorf("TopActors() = %+v", actors)
	}

	keywords, err := db.TopKeywords(ctx, 5)
	if err != nil {
		t.Fatalf("TopKeywords() error = %v", err)
	}
	if len(keywords) != 3 || keywords[0] != (NameCount{Name: "toy", Movies: 2}) {
		t.Errorf("TopKeywords() = %+v", keywords)
	}
}

func TestExplore_Ratings(t *testing.T) {
	db := setupExploreDB(t)
	ctx := context.Background()

	dist, err := db.RatingDistribution(ctx)
	if err != nil {
		t.Fatalf("RatingDistribution() error = %v", err)
	}
	total := 0
	for _, b := range dist {
		if !ratings.DefaultBounds().Contains(b.Rating) {
			t.Errorf("bucket %v outside bounds", b.Rating)
		}
		total += b.Count
	}
	if total != 5 {
		t.Errorf("distribution total = %d, want 5", total)
	}

	raters, err := db.TopRaters(ctx, 10)
	if err != nil {
		t.Fatalf("TopRaters() error = %v", err)
	}
	if len(raters) != 3 || raters[0].Ratings != 2 || raters[0].UserID != 1 || raters[0].MeanRating != 4.5 {
		t.Errorf("TopRaters() = %+v", raters)
	}

	mostRated, err := db.MostRated(ctx, 1)
	if err != nil {
		t.Fatalf("MostRated() error = %v", err)
	}
	if len(mostRated) != 1 || mostRated[0].MovieID != 2 || mostRated[0].Title != "Jumanji (1995)" || mostRated[0].Ratings != 3 {
		t.Errorf("MostRated(1) = %+v", mostRated)
	}

	perYear, err := db.RatingsPerYear(ctx)
	if err != nil {
		t.Fatalf("RatingsPerYear() error = %v", err)
	}
	want := []YearCount{{Year: 2000, Count: 2}, {Year: 2015, Count: 3}}
	if len(perYear) != len(want) || perYear[0] != want[0] || perYear[1] != want[1] {
		t.Errorf("RatingsPerYear() = %+v, want %+v", perYear, want)
	}
}

func TestExplore_Dispatch(t *testing.T) {
	db := setupExploreDB(t)
	ctx := context.Background()

	for _, topic := range Topics {
		if _, err := db.Explore(ctx, topic, 5); err != nil {
			t.Errorf("Explore(%q) error = %v", topic, err)
		}
	}

	if _, err := db.Explore(ctx, "box_office", 5); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("Explore(box_office) error = %v, want ErrUnknownTopic", err)
	}
}

func TestExplore_EmptyResultsAreNotNil(t *testing.T) {
	db := setupTestDB(t)

	raters, err := db.TopRaters(context.Background(), 5)
	if err != nil {
		t.Fatalf("TopRaters() error = %v", err)
	}
	if raters == nil || len(raters) != 0 {
		t.Errorf("TopRaters() = %#v, want empty non-nil slice", raters)
	}
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	tests := map[int]int{-1: DefaultExploreLimit, 0: DefaultExploreLimit, 7: 7, MaxExploreLimit + 1: MaxExploreLimit}
	for in, want := range tests {
		if got := clampLimit(in); got != want {
			t.Errorf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
