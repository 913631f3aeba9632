// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMissingColumn is returned when a required header column is absent.
var ErrMissingColumn = errors.New("required column missing")

// LoadStats counts rows seen and skipped while parsing a metadata source.
type LoadStats struct {
	Rows       int `json:"rows"`
	Loaded     int `json:"loaded"`
	EmptyTitle int `json:"empty_title"`
	BadID      int `json:"bad_id"`
	Malformed  int `json:"malformed"`
	UnknownID  int `json:"unknown_id,omitempty"`
}

// Skipped returns the number of rows that were not loaded.
func (s LoadStats) Skipped() int {
	return s.EmptyTitle + s.BadID + s.Malformed + s.UnknownID
}

// column aliases accepted in headers, matched case-insensitively.
var (
	idColumns       = []string{"movieid", "movie_id", "id"}
	titleColumns    = []string{"title"}
	genreColumns    = []string{"genres"}
	castColumns     = []string{"title_cast", "cast"}
	directorColumns = []string{"director"}
	keywordColumns  = []string{"plot_keywords", "keywords"}
)

// header maps lowercased column names to positions.
type header map[string]int

func readHeader(r *csv.Reader) (header, int, error) {
	row, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("read header: empty source: %w", ErrMissingColumn)
		}
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	h := make(header, len(row))
	for i, name := range row {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	return h, len(row), nil
}

// find returns the position of the first alias present, or -1.
func (h header) find(aliases []string) int {
	for _, a := range aliases {
		if i, ok := h[a]; ok {
			return i
		}
	}
	return -1
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false
	return cr
}

// Load parses a movies CSV. The header must contain a movie id column and
// a title column; genres, cast, director and keyword columns are optional.
// Rows with an unparsable id, an empty title or a field count that does not
// match the header are skipped and counted.
func Load(r io.Reader) ([]Movie, LoadStats, error) {
	var stats LoadStats

	cr := newCSVReader(r)
	h, width, err := readHeader(cr)
	if err != nil {
		return nil, stats, err
	}

	idCol := h.find(idColumns)
	titleCol := h.find(titleColumns)
	if idCol < 0 {
		return nil, stats, fmt.Errorf("movie id: %w", ErrMissingColumn)
	}
	if titleCol < 0 {
		return nil, stats, fmt.Errorf("title: %w", ErrMissingColumn)
	}
	genreCol := h.find(genreColumns)
	castCol := h.find(castColumns)
	directorCol := h.find(directorColumns)
	keywordCol := h.find(keywordColumns)

	var movies []Movie
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		stats.Rows++

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			stats.Malformed++
			continue
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row %d: %w", stats.Rows, err)
		}
		if len(row) != width {
			stats.Malformed++
			continue
		}

		id, err := strconv.Atoi(field(row, idCol))
		if err != nil {
			stats.BadID++
			continue
		}
		title := field(row, titleCol)
		if title == "" {
			stats.EmptyTitle++
			continue
		}

		movies = append(movies, Movie{
			ID:       id,
			Title:    title,
			Year:     parseYear(title),
			Genres:   splitList(field(row, genreCol)),
			Cast:     splitList(field(row, castCol)),
			Director: field(row, directorCol),
			Keywords: splitList(field(row, keywordCol)),
		})
		stats.Loaded++
	}

	return movies, stats, nil
}

// LoadMetadata merges a credits/keywords CSV into movies by id. Rows for
// ids not present in movies are counted as UnknownID. Non-empty fields in
// the metadata source replace the corresponding movie fields.
func LoadMetadata(r io.Reader, movies []Movie) ([]Movie, LoadStats, error) {
	var stats LoadStats

	cr := newCSVReader(r)
	h, width, err := readHeader(cr)
	if err != nil {
		return nil, stats, err
	}

	idCol := h.find(idColumns)
	if idCol < 0 {
		return nil, stats, fmt.Errorf("movie id: %w", ErrMissingColumn)
	}
	castCol := h.find(castColumns)
	directorCol := h.find(directorColumns)
	keywordCol := h.find(keywordColumns)

	pos := make(map[int]int, len(movies))
	out := make([]Movie, len(movies))
	copy(out, movies)
	for i := range out {
		if _, ok := pos[out[i].ID]; !ok {
			pos[out[i].ID] = i
		}
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		stats.Rows++

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			stats.Malformed++
			continue
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row %d: %w", stats.Rows, err)
		}
		if len(row) != width {
			stats.Malformed++
			continue
		}

		id, err := strconv.Atoi(field(row, idCol))
		if err != nil {
			stats.BadID++
			continue
		}
		i, ok := pos[id]
		if !ok {
			stats.UnknownID++
			continue
		}

		if cast := splitList(field(row, castCol)); cast != nil {
			out[i].Cast = cast
		}
		if director := field(row, directorCol); director != "" {
			out[i].Director = director
		}
		if keywords := splitList(field(row, keywordCol)); keywords != nil {
			out[i].Keywords = keywords
		}
		stats.Loaded++
	}

	return out, stats, nil
}
