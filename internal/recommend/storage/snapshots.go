// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package storage

import (
	"context"
	"fmt"

	"github.com/tomtom215/reelrec/internal/ratings"
	"github.com/tomtom215/reelrec/internal/recommend"
	"github.com/tomtom215/reelrec/internal/recommend/algorithms"
)

// DefaultKeepVersions is how many versions SaveModel retains per algorithm.
const DefaultKeepVersions = 3

// SaveModel snapshots a trained collaborative model and prunes old versions.
func (s *Store) SaveModel(ctx context.Context, model recommend.CollabModel) error {
	fp := model.Fingerprint()
	meta := ModelMetadata{
		TrainedAt:   model.TrainedAt(),
		RatingCount: fp.NNZ,
		MovieCount:  fp.Movies,
		UserCount:   fp.Users,
	}

	var snapshot interface{}
	switch m := model.(type) {
	case *algorithms.ItemKNN:
		snapshot = m.Snapshot()
	case *algorithms.ALS:
		snapshot = m.Snapshot()
	default:
		return fmt.Errorf("no snapshot format for model %q", model.Name())
	}

	if _, err := s.Save(ctx, model.Name(), snapshot, meta); err != nil {
		return fmt.Errorf("save %s: %w", model.Name(), err)
	}
	if _, err := s.Prune(ctx, model.Name(), DefaultKeepVersions); err != nil {
		return fmt.Errorf("prune %s: %w", model.Name(), err)
	}
	return nil
}

// LoadModel restores the latest snapshot of algorithm against m. It fails
// with algorithms.ErrSnapshotMismatch when the snapshot was trained on a
// different corpus.
func (s *Store) LoadModel(ctx context.Context, algorithm string, m *ratings.Matrix) (recommend.CollabModel, error) {
	switch algorithm {
	case recommend.AlgorithmItemKNN:
		var snap algorithms.KNNSnapshot
		if _, err := s.Load(ctx, algorithm, 0, &snap); err != nil {
			return nil, err
		}
		model, err := algorithms.RestoreItemKNN(&snap, m)
		if err != nil {
			return nil, err
		}
		return model, nil

	case recommend.AlgorithmALS:
		var snap algorithms.ALSSnapshot
		if _, err := s.Load(ctx, algorithm, 0, &snap); err != nil {
			return nil, err
		}
		model, err := algorithms.RestoreALS(&snap, m)
		if err != nil {
			return nil, err
		}
		return model, nil

	default:
		return nil, fmt.Errorf("unknown algorithm %q: %w", algorithm, ErrModelNotFound)
	}
}

var _ recommend.ModelStore = (*Store)(nil)
