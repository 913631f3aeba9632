// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package algorithms

import (
	"context"
	"errors"
	"sort"
)

var (
	// ErrNoSeeds is returned when none of the seeds can be scored against.
	ErrNoSeeds = errors.New("no usable seed movies")

	// ErrEmptyMatrix is returned when training on a matrix without ratings.
	ErrEmptyMatrix = errors.New("rating matrix is empty")

	// ErrSnapshotMismatch is returned when a snapshot was trained on a
	// different corpus than the matrix it is restored against.
	ErrSnapshotMismatch = errors.New("snapshot does not match rating matrix")
)

// Scored is a movie id with its aggregate score.
type Scored struct {
	MovieID int     `json:"movie_id"`
	Score   float64 `json:"score"`
}

// neighbor is a similar movie, addressed by matrix column.
type neighbor struct {
	Col        int
	Similarity float64
}

// CorpusFingerprint identifies the matrix a collaborative model was
// trained on.
type CorpusFingerprint struct {
	Users  int `json:"users"`
	Movies int `json:"movies"`
	NNZ    int `json:"nnz"`
}

// RankTopN sorts items by score descending, ties by ascending movie id, and
// truncates to n. The input slice is reordered in place.
func RankTopN(items []Scored, n int) []Scored {
	sort.Slice(items, func(a, b int) bool {
		if items[a].Score != items[b].Score {
			return items[a].Score > items[b].Score
		}
		return items[a].MovieID < items[b].MovieID
	})
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// sortNeighbors orders by similarity descending; columns are in ascending
// id order so the column tie-break is an id tie-break.
func sortNeighbors(ns []neighbor) {
	sort.Slice(ns, func(a, b int) bool {
		if ns[a].Similarity != ns[b].Similarity {
			return ns[a].Similarity > ns[b].Similarity
		}
		return ns[a].Col < ns[b].Col
	})
}

func seedSet(seeds []int) map[int]struct{} {
	set := make(map[int]struct{}, len(seeds))
	for _, s := range seeds {
		set[s] = struct{}{}
	}
	return set
}

// workerChunks splits [0, n) into at most workers contiguous ranges.
func workerChunks(n, workers int) [][2]int {
	if workers <= 0 {
		workers = 1
	}
	chunkSize := (n + workers - 1) / workers
	var out [][2]int
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
