// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/reelrec/internal/catalog"
	"github.com/tomtom215/reelrec/internal/logging"
	"github.com/tomtom215/reelrec/internal/metrics"
	"github.com/tomtom215/reelrec/internal/ratings"
)

// IngestStats summarizes a ratings ingest.
type IngestStats struct {
	// Rows is the number of data rows read from the CSV.
	Rows int64 `json:"rows"`

	// Valid is the number of typed, in-bounds rows visible in the ratings view.
	Valid int64 `json:"valid"`

	// HasTimestamp reports whether the source carried a timestamp column.
	HasTimestamp bool `json:"has_timestamp"`
}

// ratingsColumns maps the logical ratings columns onto CSV header names.
type ratingsColumns struct {
	user, movie, rating, timestamp string
}

// IngestCatalog replaces the movie tables with the contents of idx.
func (db *DB) IngestCatalog(ctx context.Context, idx *catalog.Index) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	db.ingestMu.Lock()
	defer db.ingestMu.Unlock()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("ingest_catalog", time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logging.Error().Err(rbErr).Msg("Failed to rollback catalog ingest")
			}
		}
	}()

	for _, table := range []string{"movies", "movie_genres", "movie_cast", "movie_keywords"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	stmts, err := prepareAll(ctx, tx, map[string]string{
		"movies":   "INSERT INTO movies (movie_id, title, year, director) VALUES (?, ?, ?, ?)",
		"genres":   "INSERT INTO movie_genres (movie_id, genre) VALUES (?, ?)",
		"cast":     "INSERT INTO movie_cast (movie_id, position, actor) VALUES (?, ?, ?)",
		"keywords": "INSERT INTO movie_keywords (movie_id, keyword) VALUES (?, ?)",
	})
	if err != nil {
		return err
	}
	defer func() {
		for name, stmt := range stmts {
			if closeErr := stmt.Close(); closeErr != nil {
				logging.Warn().Err(closeErr).Str("statement", name).Msg("Failed to close prepared statement")
			}
		}
	}()

	for _, id := range idx.AllIDs() {
		m, ok := idx.Movie(id)
		if !ok {
			continue
		}
		if _, err = stmts["movies"].ExecContext(ctx, m.ID, m.Title, m.Year, m.Director); err != nil {
			return fmt.Errorf("failed to insert movie %d: %w", m.ID, err)
		}
		for _, g := range m.Genres {
			if _, err = stmts["genres"].ExecContext(ctx, m.ID, g); err != nil {
				return fmt.Errorf("failed to insert genre for movie %d: %w", m.ID, err)
			}
		}
		for pos, actor := range m.Cast {
			if _, err = stmts["cast"].ExecContext(ctx, m.ID, pos, actor); err != nil {
				return fmt.Errorf("failed to insert cast for movie %d: %w", m.ID, err)
			}
		}
		for _, kw := range m.Keywords {
			if _, err = stmts["keywords"].ExecContext(ctx, m.ID, kw); err != nil {
				return fmt.Errorf("failed to insert keyword for movie %d: %w", m.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog ingest: %w", err)
	}

	logging.Info().
		Int("movies", idx.Len()).
		Dur("duration", time.Since(start)).
		Msg("Catalog ingested into DuckDB")
	return nil
}

func prepareAll(ctx context.Context, tx *sql.Tx, queries map[string]string) (map[string]*sql.Stmt, error) {
	stmts := make(map[string]*sql.Stmt, len(queries))
	for name, q := range queries {
		stmt, err := tx.PrepareContext(ctx, q)
		if err != nil {
			for _, s := range stmts {
				closeQuietly(s)
			}
			return nil, fmt.Errorf("failed to prepare %s insert: %w", name, err)
		}
		stmts[name] = stmt
	}
	return stmts, nil
}

// IngestRatings loads the ratings CSV at path into ratings_raw using
// DuckDB's CSV reader, and redefines the ratings view with bounds.
// Every field is read as text and cast with TRY_CAST so unparsable values
// become NULL rather than aborting the load.
func (db *DB) IngestRatings(ctx context.Context, path string, bounds ratings.Bounds) (stats IngestStats, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	db.ingestMu.Lock()
	defer db.ingestMu.Unlock()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("ingest_ratings", time.Since(start), err) }()

	source := fmt.Sprintf("read_csv(%s, header=true, all_varchar=true, null_padding=true, ignore_errors=true)", sqlString(path))

	cols, err := db.detectRatingsColumns(ctx, source)
	if err != nil {
		return IngestStats{}, err
	}
	stats.HasTimestamp = cols.timestamp != ""

	ratedAt := "CAST(NULL AS BIGINT)"
	if stats.HasTimestamp {
		ratedAt = fmt.Sprintf("TRY_CAST(trim(%s) AS BIGINT)", sqlIdent(cols.timestamp))
	}

	load := fmt.Sprintf(`CREATE OR REPLACE TABLE ratings_raw AS
		SELECT
			row_number() OVER () AS line,
			TRY_CAST(trim(%s) AS INTEGER) AS user_id,
			TRY_CAST(trim(%s) AS INTEGER) AS movie_id,
			TRY_CAST(trim(%s) AS DOUBLE)  AS rating,
			%s AS rated_at
		FROM %s`,
		sqlIdent(cols.user), sqlIdent(cols.movie), sqlIdent(cols.rating), ratedAt, source)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return IngestStats{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logging.Error().Err(rbErr).Msg("Failed to rollback ratings ingest")
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, load); err != nil {
		return IngestStats{}, fmt.Errorf("failed to load ratings from %s: %w", path, err)
	}
	if err = createRatingsView(ctx, tx, bounds); err != nil {
		return IngestStats{}, err
	}
	if err = tx.QueryRowContext(ctx, "SELECT count(*) FROM ratings_raw").Scan(&stats.Rows); err != nil {
		return IngestStats{}, fmt.Errorf("failed to count ratings rows: %w", err)
	}
	if err = tx.QueryRowContext(ctx, "SELECT count(*) FROM ratings").Scan(&stats.Valid); err != nil {
		return IngestStats{}, fmt.Errorf("failed to count valid ratings: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return IngestStats{}, fmt.Errorf("failed to commit ratings ingest: %w", err)
	}

	logging.Info().
		Str("path", path).
		Int64("rows", stats.Rows).
		Int64("valid", stats.Valid).
		Bool("timestamps", stats.HasTimestamp).
		Dur("duration", time.Since(start)).
		Msg("Ratings ingested into DuckDB")
	return stats, nil
}

// detectRatingsColumns reads the CSV header and resolves the column aliases
// accepted by ratings.LoadCSV.
func (db *DB) detectRatingsColumns(ctx context.Context, source string) (ratingsColumns, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT * FROM "+source+" LIMIT 0")
	if err != nil {
		return ratingsColumns{}, fmt.Errorf("failed to read ratings header: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return ratingsColumns{}, fmt.Errorf("failed to read ratings header: %w", err)
	}

	var cols ratingsColumns
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "userid", "user_id":
			cols.user = name
		case "movieid", "movie_id":
			cols.movie = name
		case "rating":
			cols.rating = name
		case "timestamp":
			cols.timestamp = name
		}
	}
	if cols.user == "" || cols.movie == "" || cols.rating == "" {
		return ratingsColumns{}, fmt.Errorf("need userId, movieId and rating columns, got %v: %w", names, ratings.ErrMissingColumn)
	}
	return cols, nil
}
