// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package ratings

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ratings.csv")
	csv := "userId,movieId,rating\n1,10,4.0\n1,10,3.0\n2,10,7\n2,11,x\n"
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}

	src := FileSource{Path: path, Config: BuilderConfig{Duplicates: RejectDuplicate}}
	m, stats, err := src.LoadRatings(context.Background())
	if err != nil {
		t.Fatalf("LoadRatings() error = %v", err)
	}
	want := BuildStats{Accepted: 2, OutOfRange: 1, Malformed: 1, Duplicates: 1, Stored: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
	if r, _ := m.Rating(1, 10); r != 4.0 {
		t.Errorf("Rating(1, 10) = %v, want 4 (first kept)", r)
	}
}

func TestFileSource_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")}.LoadRatings(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}

	path := filepath.Join(t.TempDir(), "header.csv")
	if err := os.WriteFile(path, []byte("userId,movieId,rating\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, _, err = FileSource{Path: path}.LoadRatings(context.Background())
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("header-only error = %v, want ErrEmptyCorpus", err)
	}
}
