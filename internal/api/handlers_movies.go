// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/reelrec/internal/models"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// SearchMovies handles GET /api/v1/movies?q=<prefix>&limit=<n>.
// Matching is a case-insensitive title prefix, so clients can resolve the
// exact catalog title before asking for recommendations.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "q is required", nil)
		return
	}

	limit := getIntParam(r, "limit", defaultSearchLimit)
	if limit < 1 || limit > maxSearchLimit {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 100", nil)
		return
	}

	movies := h.engine.Catalog().Search(query, limit)
	respondSuccess(w, r, models.MovieSearchResponse{
		Query:   query,
		Total:   len(movies),
		Results: movies,
	}, start)
}

// GetMovie handles GET /api/v1/movies/{id}.
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "id must be an integer", nil)
		return
	}

	movie, ok := h.engine.Catalog().Movie(id)
	if !ok {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Movie not found", nil)
		return
	}
	respondSuccess(w, r, movie, start)
}
