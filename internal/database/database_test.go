// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/reelrec/internal/catalog"
	"github.com/tomtom215/reelrec/internal/config"
	"github.com/tomtom215/reelrec/internal/ratings"
)

// testDBSemaphore limits concurrent DuckDB instances; each one spins up its
// own thread pool and memory arena.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Held for the whole test, not just creation.
	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := New(&config.DatabaseConfig{
		Path:                   ":memory:",
		MaxMemory:              "512MB",
		Threads:                2,
		PreserveInsertionOrder: true,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func testIndex(t *testing.T) *catalog.Index {
	t.Helper()

	idx, err := catalog.NewIndex([]catalog.Movie{
		{ID: 1, Title: "Toy Story (1995)", Genres: []string{"Animation", "Comedy"}, Director: "John Lasseter",
			Cast: []string{"Tom Hanks", "Tim Allen"}, Keywords: []string{"toy", "friendship"}},
		{ID: 2, Title: "Jumanji (1995)", Genres: []string{"Adventure", "Fantasy"}, Director: "Joe Johnston",
			Cast: []string{"Robin Williams"}, Keywords: []string{"board game"}},
		{ID: 3, Title: "Toy Story 2 (1999)", Genres: []string{"Animation", "Comedy"}, Director: "John Lasseter",
			Cast: []string{"Tom Hanks", "Tim Allen"}, Keywords: []string{"toy"}},
		{ID: 4, Title: "Untitled", Genres: []string{"Drama"}},
	})
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	return idx
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const ratingsCSV = `userId,movieId,rating,timestamp
1,1,4.0,964982703
1,2,5.0,964981247
2,1,3.5,1445714835
2,3,9.0,1445714835
3,1,abc,1445714835
3,2,2.0,1445714900
3,2,2.5,1445715000
`

func TestNew_CreatesSchema(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	for _, table := range []string{"movies", "movie_genres", "movie_cast", "movie_keywords", "ratings_raw", "ratings"} {
		var n int
		if err := db.Conn().QueryRowContext(ctx, "SELECT count(*) FROM "+table).Scan(&n); err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestNew_CreatesParentDirectory(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	path := filepath.Join(t.TempDir(), "nested", "dir", "reelrec.duckdb")
	db, err := New(&config.DatabaseConfig{Path: path, MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file missing: %v", err)
	}
}

func TestIngestCatalog(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Ingesting twice must replace, not append.
	for i := 0; i < 2; i++ {
		if err := db.IngestCatalog(ctx, testIndex(t)); err != nil {
			t.Fatalf("IngestCatalog() error = %v", err)
		}
	}

	counts := map[string]int{"movies": 4, "movie_genres": 7, "movie_cast": 5, "movie_keywords": 4}
	for table, want := range counts {
		var got int
		if err := db.Conn().QueryRowContext(ctx, "SELECT count(*) FROM "+table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s rows = %d, want %d", table, got, want)
		}
	}

	var actor string
	err := db.Conn().QueryRowContext(ctx,
		"SELECT actor FROM movie_cast WHERE movie_id = 1 ORDER BY position LIMIT 1").Scan(&actor)
	if err != nil || actor != "Tom Hanks" {
		t.Errorf("first billed actor = %q, %v; want Tom Hanks", actor, err)
	}
}

func TestIngestRatings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	stats, err := db.IngestRatings(ctx, writeCSV(t, "ratings.csv", ratingsCSV), ratings.DefaultBounds())
	if err != nil {
		t.Fatalf("IngestRatings() error = %v", err)
	}
	if stats.Rows != 7 {
		t.Errorf("Rows = %d, want 7", stats.Rows)
	}
	// Drops the 9.0 and the unparsable rating.
	if stats.Valid != 5 {
		t.Errorf("Valid = %d, want 5", stats.Valid)
	}
	if !stats.HasTimestamp {
		t.Error("HasTimestamp = false, want true")
	}
}

func TestIngestRatings_AliasesAndQuotedPath(t *testing.T) {
	db := setupTestDB(t)

	dir := filepath.Join(t.TempDir(), "it's here")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "r.csv")
	if err := os.WriteFile(path, []byte("user_id,movie_id,rating\n1,1,4\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	stats, err := db.IngestRatings(context.Background(), path, ratings.DefaultBounds())
	if err != nil {
		t.Fatalf("IngestRatings() error = %v", err)
	}
	if stats.Rows != 1 || stats.HasTimestamp {
		t.Errorf("stats = %+v, want 1 row without timestamps", stats)
	}
}

func TestIngestRatings_MissingColumn(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.IngestRatings(context.Background(),
		writeCSV(t, "bad.csv", "userId,rating\n1,4.0\n"), ratings.DefaultBounds())
	if !errors.Is(err, ratings.ErrMissingColumn) {
		t.Errorf("IngestRatings() error = %v, want ErrMissingColumn", err)
	}
}

func TestRatingsSource_MatchesCSVLoader(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.IngestRatings(ctx, writeCSV(t, "ratings.csv", ratingsCSV), ratings.DefaultBounds()); err != nil {
		t.Fatalf("IngestRatings() error = %v", err)
	}

	cfg := ratings.BuilderConfig{Bounds: ratings.DefaultBounds(), Duplicates: ratings.LastWriteWins}
	m, stats, err := db.RatingsSource(cfg).LoadRatings(ctx)
	if err != nil {
		t.Fatalf("LoadRatings() error = %v", err)
	}

	b := ratings.NewBuilder(cfg)
	if err := ratings.LoadCSV(ctx, strings.NewReader(ratingsCSV), b); err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	want, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if stats != b.Stats() {
		t.Errorf("stats = %+v, want %+v", stats, b.Stats())
	}
	if m.NNZ() != want.NNZ() || m.NumUsers() != want.NumUsers() || m.NumMovies() != want.NumMovies() {
		t.Errorf("matrix shape = %d/%d/%d, want %d/%d/%d",
			m.NumUsers(), m.NumMovies(), m.NNZ(), want.NumUsers(), want.NumMovies(), want.NNZ())
	}
	if r, ok := m.Rating(3, 2); !ok || r != 2.5 {
		t.Errorf("Rating(3, 2) = %v, %v; want last write 2.5", r, ok)
	}
}

func TestRatingsSource_Empty(t *testing.T) {
	db := setupTestDB(t)

	_, _, err := db.RatingsSource(ratings.BuilderConfig{}).LoadRatings(context.Background())
	if !errors.Is(err, ratings.ErrEmptyCorpus) {
		t.Errorf("LoadRatings() error = %v, want ErrEmptyCorpus", err)
	}
}

func TestSQLQuoting(t *testing.T) {
	t.Parallel()

	if got := sqlString("a'b"); got != "'a''b'" {
		t.Errorf("sqlString = %s", got)
	}
	if got := sqlIdent(`we"ird`); got != `"we""ird"` {
		t.Errorf("sqlIdent = %s", got)
	}
}
