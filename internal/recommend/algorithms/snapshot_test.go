// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package algorithms

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/reelrec/internal/ratings"
)

func TestItemKNN_SnapshotRestore(t *testing.T) {
	t.Parallel()

	m := buildMatrix(t, knnEntries())
	model, err := TrainItemKNN(context.Background(), m, looseKNN())
	if err != nil {
		t.Fatalf("TrainItemKNN() error = %v", err)
	}

	restored, err := RestoreItemKNN(model.Snapshot(), m)
	if err != nil {
		t.Fatalf("RestoreItemKNN() error = %v", err)
	}

	want, _ := model.Score(context.Background(), []int{10})
	got, _ := restored.Score(context.Background(), []int{10})
	if !reflect.DeepEqual(RankTopN(got, 10), RankTopN(want, 10)) {
		t.Errorf("restored Score() = %v, want %v", got, want)
	}
	if !restored.TrainedAt().Equal(model.TrainedAt()) {
		t.Errorf("TrainedAt() = %v, want %v", restored.TrainedAt(), model.TrainedAt())
	}

	other := buildMatrix(t, append(knnEntries(), ratings.Entry{UserID: 9, MovieID: 50, Rating: 3}))
	if _, err := RestoreItemKNN(model.Snapshot(), other); !errors.Is(err, ErrSnapshotMismatch) {
		t.Errorf("RestoreItemKNN(other corpus) error = %v, want ErrSnapshotMismatch", err)
	}
}

func TestALS_SnapshotRestore(t *testing.T) {
	t.Parallel()

	m := buildMatrix(t, clusterEntries())
	model, err := TrainALS(context.Background(), m, testALSConfig())
	if err != nil {
		t.Fatalf("TrainALS() error = %v", err)
	}

	restored, err := RestoreALS(model.Snapshot(), m)
	if err != nil {
		t.Fatalf("RestoreALS() error = %v", err)
	}

	want, _ := model.Score(context.Background(), []int{10, 20})
	got, _ := restored.Score(context.Background(), []int{10, 20})
	if !reflect.DeepEqual(ids(RankTopN(got, 10)), ids(RankTopN(want, 10))) {
		t.Errorf("restored ranking = %v, want %v", ids(got), ids(want))
	}

	snap := model.Snapshot()
	snap.Y = snap.Y[:len(snap.Y)-1]
	if _, err := RestoreALS(snap, m); !errors.Is(err, ErrSnapshotMismatch) {
		t.Errorf("RestoreALS(truncated) error = %v, want ErrSnapshotMismatch", err)
	}
}
