// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

// Package features turns catalog metadata into sparse term vectors.
//
// Each movie's "soup" is the bag of normalized tokens from its genres, its
// top-billed cast, its director and its plot keywords. Multi-word names are
// collapsed into a single token ("Tom Hanks" -> "tomhanks") so that two
// people sharing a first name do not look similar; keywords are split into
// words.
//
// The vocabulary is sorted lexicographically and vectors store term indices
// in ascending order, so building twice from the same catalog yields
// identical vocabularies and identical vectors.
package features

import (
	"strings"
	"unicode"

	"github.com/tomtom215/reelrec/internal/catalog"
)

// Normalize lowercases s and removes every rune that is not a letter or digit.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Soup returns the token bag for a movie. Tokens may repeat; repetition
// is what term frequency counts.
//
//nolint:gocritic // hugeParam: Movie passed by value for read-only access
func Soup(m catalog.Movie, cfg Config) []string {
	tokens := make([]string, 0, len(m.Genres)+cfg.TopCast+cfg.DirectorWeight+len(m.Keywords)*2)

	add := func(s string) {
		if tok := Normalize(s); tok != "" {
			tokens = append(tokens, tok)
		}
	}

	for _, g := range m.Genres {
		add(g)
	}

	cast := m.Cast
	if len(cast) > cfg.TopCast {
		cast = cast[:cfg.TopCast]
	}
	for _, c := range cast {
		add(c)
	}

	if m.Director != "" {
		for i := 0; i < cfg.DirectorWeight; i++ {
			add(m.Director)
		}
	}

	for _, kw := range m.Keywords {
		for _, word := range strings.Fields(kw) {
			add(word)
		}
	}

	return tokens
}
