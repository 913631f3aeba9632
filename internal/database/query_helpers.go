// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/reelrec/internal/metrics"
)

const (
	// DefaultExploreLimit is used when a ranked topic is requested without a limit.
	DefaultExploreLimit = 20

	// MaxExploreLimit caps ranked topics.
	MaxExploreLimit = 1000
)

// scanFunc scans one row into T.
type scanFunc[T any] func(*sql.Rows) (T, error)

// queryAndScan runs query and scans every row with scan.
func queryAndScan[T any](ctx context.Context, db *sql.DB, query string, args []interface{}, scan scanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// timedQuery wraps queryAndScan with the default timeout and query metrics.
// It never returns a nil slice on success so empty results encode as [].
func timedQuery[T any](ctx context.Context, db *DB, op, query string, args []interface{}, scan scanFunc[T]) ([]T, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	results, err := queryAndScan(ctx, db.conn, query, args, scan)
	metrics.RecordDBQuery(op, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", op, err)
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

// clampLimit maps non-positive limits to the default and caps large ones.
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultExploreLimit
	case limit > MaxExploreLimit:
		return MaxExploreLimit
	default:
		return limit
	}
}
