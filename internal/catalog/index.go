// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a title or id is not in the catalog.
	ErrNotFound = errors.New("movie not found")

	// ErrEmptyCatalog is returned when an index would contain no movies.
	ErrEmptyCatalog = errors.New("catalog is empty")
)

// IndexStats reports what NewIndex kept and dropped.
type IndexStats struct {
	Movies          int `json:"movies"`
	EmptyTitles     int `json:"empty_titles"`
	DuplicateIDs    int `json:"duplicate_ids"`
	DuplicateTitles int `json:"duplicate_titles"`
}

// Index is the read-only catalog lookup structure.
// All methods are safe for concurrent use once NewIndex returns.
type Index struct {
	movies  map[int]*Movie
	byTitle map[string]int
	ids     []int
	titles  *titleTrie
	stats   IndexStats
}

// NewIndex builds an index over movies. Movies with an empty title are
// skipped; for duplicate ids or titles the first occurrence wins.
//
//nolint:gocritic // rangeValCopy: Movie copied once into the index
func NewIndex(movies []Movie) (*Index, error) {
	idx := &Index{
		movies:  make(map[int]*Movie, len(movies)),
		byTitle: make(map[string]int, len(movies)),
		titles:  newTitleTrie(),
	}

	for _, m := range movies {
		m.Title = strings.TrimSpace(m.Title)
		if m.Title == "" {
			idx.stats.EmptyTitles++
			continue
		}
		if _, ok := idx.movies[m.ID]; ok {
			idx.stats.DuplicateIDs++
			continue
		}
		if _, ok := idx.byTitle[m.Title]; ok {
			idx.stats.DuplicateTitles++
			continue
		}
		if m.Year == 0 {
			m.Year = parseYear(m.Title)
		}

		movie := m
		idx.movies[m.ID] = &movie
		idx.byTitle[m.Title] = m.ID
		idx.ids = append(idx.ids, m.ID)
		idx.titles.insert(m.Title, m.ID)
	}

	if len(idx.ids) == 0 {
		return nil, ErrEmptyCatalog
	}

	sort.Ints(idx.ids)
	idx.stats.Movies = len(idx.ids)
	return idx, nil
}

// LookupID resolves an exact, case-sensitive title.
func (idx *Index) LookupID(title string) (int, error) {
	id, ok := idx.byTitle[title]
	if !ok {
		return 0, fmt.Errorf("title %q: %w", title, ErrNotFound)
	}
	return id, nil
}

// LookupTitle returns the title for id.
func (idx *Index) LookupTitle(id int) (string, bool) {
	m, ok := idx.movies[id]
	if !ok {
		return "", false
	}
	return m.Title, true
}

// Movie returns a copy of the movie with the given id.
func (idx *Index) Movie(id int) (Movie, bool) {
	m, ok := idx.movies[id]
	if !ok {
		return Movie{}, false
	}
	return *m, true
}

// AllIDs returns every movie id in ascending order.
// The returned slice is a copy.
func (idx *Index) AllIDs() []int {
	out := make([]int, len(idx.ids))
	copy(out, idx.ids)
	return out
}

// Len returns the number of movies.
func (idx *Index) Len() int {
	return len(idx.ids)
}

// Stats returns the build statistics.
func (idx *Index) Stats() IndexStats {
	return idx.stats
}

// Search returns up to limit movies whose title starts with prefix,
// compared case-insensitively, ordered by title then id.
func (idx *Index) Search(prefix string, limit int) []Movie {
	ids := idx.titles.withPrefix(prefix, limit)
	out := make([]Movie, 0, len(ids))
	for _, id := range ids {
		out = append(out, *idx.movies[id])
	}
	return out
}
