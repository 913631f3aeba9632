// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package algorithms

import (
	"fmt"
	"time"

	"github.com/tomtom215/reelrec/internal/ratings"
)

// SnapshotNeighbor is a neighbour stored by movie id rather than column.
type SnapshotNeighbor struct {
	MovieID    int
	Similarity float64
}

// KNNSnapshot is the serializable form of an ItemKNN model.
type KNNSnapshot struct {
	Config      KNNConfig
	Fingerprint CorpusFingerprint
	MovieIDs    []int
	Neighbors   [][]SnapshotNeighbor
	TrainedAt   time.Time
}

// ALSSnapshot is the serializable form of an ALS model. User factors are
// not kept: scoring only needs movie factors.
type ALSSnapshot struct {
	Config      ALSConfig
	Fingerprint CorpusFingerprint
	MovieIDs    []int
	Y           [][]float64
	TrainedAt   time.Time
}

// Snapshot captures the model for persistence.
func (i *ItemKNN) Snapshot() *KNNSnapshot {
	snap := &KNNSnapshot{
		Config:      i.config,
		Fingerprint: i.Fingerprint(),
		MovieIDs:    i.matrix.MovieIDs(),
		Neighbors:   make([][]SnapshotNeighbor, len(i.neighbors)),
		TrainedAt:   i.trainedAt,
	}
	for col, ns := range i.neighbors {
		row := make([]SnapshotNeighbor, len(ns))
		for k, n := range ns {
			row[k] = SnapshotNeighbor{MovieID: i.matrix.MovieID(n.Col), Similarity: n.Similarity}
		}
		snap.Neighbors[col] = row
	}
	return snap
}

// RestoreItemKNN rebuilds a model from a snapshot taken on the same corpus
// as m.
func RestoreItemKNN(snap *KNNSnapshot, m *ratings.Matrix) (*ItemKNN, error) {
	if err := checkSnapshot(snap.Fingerprint, snap.MovieIDs, m); err != nil {
		return nil, err
	}
	if len(snap.Neighbors) != m.NumMovies() {
		return nil, fmt.Errorf("neighbour lists %d, movies %d: %w", len(snap.Neighbors), m.NumMovies(), ErrSnapshotMismatch)
	}

	neighbors := make([][]neighbor, len(snap.Neighbors))
	for col, ns := range snap.Neighbors {
		row := make([]neighbor, 0, len(ns))
		for _, n := range ns {
			c, ok := m.MovieIndex(n.MovieID)
			if !ok {
				return nil, fmt.Errorf("neighbour movie %d not rated: %w", n.MovieID, ErrSnapshotMismatch)
			}
			row = append(row, neighbor{Col: c, Similarity: n.Similarity})
		}
		neighbors[col] = row
	}

	cfg := snap.Config
	cfg.applyDefaults()
	return &ItemKNN{
		matrix:    m,
		config:    cfg,
		neighbors: neighbors,
		trainedAt: snap.TrainedAt,
	}, nil
}

// Snapshot captures the model for persistence.
func (a *ALS) Snapshot() *ALSSnapshot {
	y := make([][]float64, len(a.Y))
	for k := range a.Y {
		y[k] = append([]float64(nil), a.Y[k]...)
	}
	return &ALSSnapshot{
		Config:      a.config,
		Fingerprint: a.Fingerprint(),
		MovieIDs:    a.matrix.MovieIDs(),
		Y:           y,
		TrainedAt:   a.trainedAt,
	}
}

// RestoreALS rebuilds a model from a snapshot taken on the same corpus as m.
func RestoreALS(snap *ALSSnapshot, m *ratings.Matrix) (*ALS, error) {
	if err := checkSnapshot(snap.Fingerprint, snap.MovieIDs, m); err != nil {
		return nil, err
	}
	cfg := snap.Config
	cfg.applyDefaults()
	if len(snap.Y) != m.NumMovies() {
		return nil, fmt.Errorf("factor rows %d, movies %d: %w", len(snap.Y), m.NumMovies(), ErrSnapshotMismatch)
	}
	for _, row := range snap.Y {
		if len(row) != cfg.NumFactors {
			return nil, fmt.Errorf("factor width %d, want %d: %w", len(row), cfg.NumFactors, ErrSnapshotMismatch)
		}
	}

	return &ALS{
		matrix:    m,
		config:    cfg,
		Y:         snap.Y,
		YtY:       gram(snap.Y, cfg.NumFactors),
		trainedAt: snap.TrainedAt,
	}, nil
}

func checkSnapshot(fp CorpusFingerprint, movieIDs []int, m *ratings.Matrix) error {
	if m == nil {
		return ErrEmptyMatrix
	}
	if got := fingerprint(m); got != fp {
		return fmt.Errorf("trained on %+v, matrix is %+v: %w", fp, got, ErrSnapshotMismatch)
	}
	if len(movieIDs) != m.NumMovies() {
		return ErrSnapshotMismatch
	}
	for col, id := range movieIDs {
		if m.MovieID(col) != id {
			return fmt.Errorf("column %d is movie %d, snapshot has %d: %w", col, m.MovieID(col), id, ErrSnapshotMismatch)
		}
	}
	return nil
}
