// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// Movie is one catalog entry.
type Movie struct {
	// ID is the stable movie identifier from the source dataset.
	ID int `json:"id"`

	// Title is the canonical title, unique within the catalog.
	Title string `json:"title"`

	// Year is the release year parsed from the title, 0 if absent.
	Year int `json:"year,omitempty"`

	// Genres lists genre names.
	Genres []string `json:"genres,omitempty"`

	// Cast lists cast members in billing order.
	Cast []string `json:"cast,omitempty"`

	// Director is the director name, empty if unknown.
	Director string `json:"director,omitempty"`

	// Keywords lists plot keywords.
	Keywords []string `json:"keywords,omitempty"`
}

var yearSuffix = regexp.MustCompile(`\((\d{4})\)\s*$`)

// parseYear extracts a trailing "(YYYY)" from a title.
func parseYear(title string) int {
	m := yearSuffix.FindStringSubmatch(title)
	if len(m) != 2 {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return year
}

// splitList splits a "|"-separated field, dropping empty parts and
// the MovieLens "(no genres listed)" marker.
func splitList(field string) []string {
	field = strings.TrimSpace(field)
	if field == "" || field == "(no genres listed)" {
		return nil
	}

	parts := strings.Split(field, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
