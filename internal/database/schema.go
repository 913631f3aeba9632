// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/reelrec/internal/ratings"
)

// Tables carry no primary keys: ingestion replaces whole tables, and
// DuckDB rejects delete-then-insert of the same key inside one transaction.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		movie_id INTEGER NOT NULL,
		title    VARCHAR NOT NULL,
		year     INTEGER NOT NULL DEFAULT 0,
		director VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id INTEGER NOT NULL,
		genre    VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movie_cast (
		movie_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		actor    VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movie_keywords (
		movie_id INTEGER NOT NULL,
		keyword  VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ratings_raw (
		line     BIGINT,
		user_id  INTEGER,
		movie_id INTEGER,
		rating   DOUBLE,
		rated_at BIGINT
	)`,
}

// createSchema creates all tables and the ratings view.
func (db *DB) createSchema(ctx context.Context, bounds ratings.Bounds) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return createRatingsView(ctx, db.conn, bounds)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// createRatingsView (re)defines the ratings view as the typed, in-bounds
// subset of ratings_raw. Bounds are inlined because views cannot hold
// bind parameters.
func createRatingsView(ctx context.Context, ex execer, bounds ratings.Bounds) error {
	query := fmt.Sprintf(`CREATE OR REPLACE VIEW ratings AS
		SELECT user_id, movie_id, rating, rated_at
		FROM ratings_raw
		WHERE user_id IS NOT NULL
		  AND movie_id IS NOT NULL
		  AND rating IS NOT NULL
		  AND NOT isnan(rating)
		  AND rating BETWEEN %g AND %g`, bounds.Min, bounds.Max)

	if _, err := ex.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create ratings view: %w", err)
	}
	return nil
}
