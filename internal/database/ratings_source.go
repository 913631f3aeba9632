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
	"time"

	"github.com/tomtom215/reelrec/internal/metrics"
	"github.com/tomtom215/reelrec/internal/ratings"
)

// RatingsSource streams ratings_raw into a ratings.Builder. It satisfies
// the recommendation engine's ratings source interface.
type RatingsSource struct {
	db  *DB
	cfg ratings.BuilderConfig
}

// RatingsSource returns a source that builds matrices with cfg.
func (db *DB) RatingsSource(cfg ratings.BuilderConfig) *RatingsSource {
	return &RatingsSource{db: db, cfg: cfg}
}

// LoadRatings builds a matrix from the last ingested ratings CSV. Rows with
// an unparsable field count as malformed; bounds and duplicate handling are
// left to the builder so the counters match the CSV loader.
func (s *RatingsSource) LoadRatings(ctx context.Context) (m *ratings.Matrix, stats ratings.BuildStats, err error) {
	start := time.Now()
	defer func() {
		if !errors.Is(err, ratings.ErrEmptyCorpus) {
			metrics.RecordDBQuery("load_ratings", time.Since(start), err)
		}
	}()

	rows, err := s.db.conn.QueryContext(ctx,
		"SELECT user_id, movie_id, rating FROM ratings_raw ORDER BY line")
	if err != nil {
		return nil, ratings.BuildStats{}, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	b := ratings.NewBuilder(s.cfg)
	for rows.Next() {
		var user, movie sql.NullInt64
		var rating sql.NullFloat64
		if err := rows.Scan(&user, &movie, &rating); err != nil {
			return nil, b.Stats(), fmt.Errorf("failed to scan rating: %w", err)
		}
		if !user.Valid || !movie.Valid || !rating.Valid {
			b.MarkMalformed()
			continue
		}
		// Out-of-range is counted inside Add.
		_ = b.Add(ratings.Entry{UserID: int(user.Int64), MovieID: int(movie.Int64), Rating: rating.Float64})
	}
	if err := rows.Err(); err != nil {
		return nil, b.Stats(), fmt.Errorf("failed to iterate ratings: %w", err)
	}

	m, err = b.Build()
	return m, b.Stats(), err
}
