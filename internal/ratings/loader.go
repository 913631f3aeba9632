// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package ratings

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMissingColumn is returned when the ratings header lacks a required column.
var ErrMissingColumn = errors.New("required column missing")

// cancelCheckInterval is how many rows are parsed between context checks.
const cancelCheckInterval = 65536

// LoadCSV streams a ratings CSV (userId,movieId,rating[,timestamp]) into b.
// Unparsable rows are counted as malformed and out-of-range ratings are
// counted by the builder; neither stops the load.
func LoadCSV(ctx context.Context, r io.Reader, b *Builder) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("read header: empty source: %w", ErrMissingColumn)
		}
		return fmt.Errorf("read header: %w", err)
	}

	userCol, movieCol, ratingCol := -1, -1, -1
	for i, name := range head {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "userid", "user_id":
			userCol = i
		case "movieid", "movie_id":
			movieCol = i
		case "rating":
			ratingCol = i
		}
	}
	if userCol < 0 || movieCol < 0 || ratingCol < 0 {
		return fmt.Errorf("need userId, movieId and rating columns: %w", ErrMissingColumn)
	}
	width := len(head)

	for n := 1; ; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			b.MarkMalformed()
			continue
		}
		if err != nil {
			return fmt.Errorf("read row %d: %w", n, err)
		}
		if len(row) != width {
			b.MarkMalformed()
			continue
		}

		e, ok := parseEntry(row[userCol], row[movieCol], row[ratingCol])
		if !ok {
			b.MarkMalformed()
			continue
		}
		// Out-of-range is counted inside Add.
		_ = b.Add(e)
	}
}

func parseEntry(user, movie, rating string) (Entry, bool) {
	u, err := strconv.Atoi(strings.TrimSpace(user))
	if err != nil {
		return Entry{}, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(movie))
	if err != nil {
		return Entry{}, false
	}
	r, err := strconv.ParseFloat(strings.TrimSpace(rating), 64)
	if err != nil {
		return Entry{}, false
	}
	return Entry{UserID: u, MovieID: m, Rating: r}, true
}
