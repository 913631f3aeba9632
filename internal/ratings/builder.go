// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package ratings

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrOutOfRange is returned by Builder.Add for ratings outside the bounds.
	ErrOutOfRange = errors.New("rating out of range")

	// ErrEmptyCorpus is returned by Builder.Build when nothing was accepted.
	ErrEmptyCorpus = errors.New("ratings corpus is empty")
)

// DuplicatePolicy decides which entry survives when a (user, movie) pair
// appears more than once.
type DuplicatePolicy string

const (
	// LastWriteWins keeps the entry added last.
	LastWriteWins DuplicatePolicy = "last_write_wins"

	// RejectDuplicate keeps the entry added first and rejects later ones.
	RejectDuplicate DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy validates a policy name.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case LastWriteWins, RejectDuplicate:
		return DuplicatePolicy(s), nil
	case "":
		return LastWriteWins, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want %q or %q)", s, LastWriteWins, RejectDuplicate)
	}
}

// Bounds is the inclusive valid rating range.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultBounds is the MovieLens half-star scale.
func DefaultBounds() Bounds {
	return Bounds{Min: 0.5, Max: 5.0}
}

// Contains reports whether r lies in the range. NaN is never contained.
func (b Bounds) Contains(r float64) bool {
	return !math.IsNaN(r) && r >= b.Min && r <= b.Max
}

// Entry is one (user, movie, rating) triple.
type Entry struct {
	UserID  int     `json:"user_id"`
	MovieID int     `json:"movie_id"`
	Rating  float64 `json:"rating"`
}

// BuildStats counts what the builder accepted and rejected.
type BuildStats struct {
	// Accepted is the number of entries that passed Add.
	Accepted int `json:"accepted"`

	// OutOfRange is the number of entries rejected by the bounds check.
	OutOfRange int `json:"out_of_range"`

	// Malformed is the number of source rows that could not be parsed.
	Malformed int `json:"malformed"`

	// Duplicates is the number of accepted entries dropped by the
	// duplicate policy at Build time.
	Duplicates int `json:"duplicates"`

	// Stored is the number of ratings in the built matrix.
	Stored int `json:"stored"`
}

// Rejected returns the total number of entries that did not reach the matrix.
func (s BuildStats) Rejected() int {
	return s.OutOfRange + s.Malformed + s.Duplicates
}

// BuilderConfig configures a Builder.
type BuilderConfig struct {
	Bounds     Bounds
	Duplicates DuplicatePolicy
}

// Builder accumulates entries and produces a Matrix.
// A Builder is not safe for concurrent use.
type Builder struct {
	config  BuilderConfig
	entries []Entry
	stats   BuildStats
}

// NewBuilder creates a builder. Zero bounds default to DefaultBounds and
// an empty policy defaults to LastWriteWins.
func NewBuilder(cfg BuilderConfig) *Builder {
	if cfg.Bounds == (Bounds{}) {
		cfg.Bounds = DefaultBounds()
	}
	if cfg.Duplicates == "" {
		cfg.Duplicates = LastWriteWins
	}
	return &Builder{config: cfg}
}

// Add validates and records an entry. Out-of-range ratings are counted and
// rejected, never clamped.
func (b *Builder) Add(e Entry) error {
	if !b.config.Bounds.Contains(e.Rating) {
		b.stats.OutOfRange++
		return fmt.Errorf("user %d movie %d rating %v: %w", e.UserID, e.MovieID, e.Rating, ErrOutOfRange)
	}
	b.entries = append(b.entries, e)
	b.stats.Accepted++
	return nil
}

// MarkMalformed counts a source row that could not be parsed into an Entry.
func (b *Builder) MarkMalformed() {
	b.stats.Malformed++
}

// Stats returns the counters so far.
func (b *Builder) Stats() BuildStats {
	return b.stats
}

// Build resolves duplicates and assembles the matrix. The builder's
// entries are released afterwards; calling Build twice returns ErrEmptyCorpus.
func (b *Builder) Build() (*Matrix, error) {
	entries := b.entries
	b.entries = nil

	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}

	// Stable sort keeps insertion order inside each (user, movie) run.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].UserID != entries[j].UserID {
			return entries[i].UserID < entries[j].UserID
		}
		return entries[i].MovieID < entries[j].MovieID
	})

	out := entries[:0]
	for i := 0; i < len(entries); {
		j := i + 1
		for j < len(entries) && entries[j].UserID == entries[i].UserID && entries[j].MovieID == entries[i].MovieID {
			j++
		}

		keep := entries[i]
		if b.config.Duplicates == LastWriteWins {
			keep = entries[j-1]
		}
		out = append(out, keep)
		b.stats.Duplicates += j - i - 1
		i = j
	}

	b.stats.Stored = len(out)
	return newMatrix(out, b.config.Bounds), nil
}
