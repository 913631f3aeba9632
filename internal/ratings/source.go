// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package ratings

import (
	"context"
	"fmt"
	"os"
)

// FileSource re-reads a ratings CSV from disk on every load.
type FileSource struct {
	Path   string
	Config BuilderConfig
}

// LoadRatings parses the file and builds a matrix.
func (s FileSource) LoadRatings(ctx context.Context) (*Matrix, BuildStats, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, BuildStats{}, fmt.Errorf("open ratings %s: %w", s.Path, err)
	}
	defer f.Close()

	b := NewBuilder(s.Config)
	if err := LoadCSV(ctx, f, b); err != nil {
		return nil, b.Stats(), fmt.Errorf("read ratings %s: %w", s.Path, err)
	}

	m, err := b.Build()
	return m, b.Stats(), err
}
