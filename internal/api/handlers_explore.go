// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/reelrec/internal/database"
	"github.com/tomtom215/reelrec/internal/models"
)

// ExploreTopics handles GET /api/v1/explore.
func (h *Handler) ExploreTopics(w http.ResponseWriter, r *http.Request) {
	if h.explorer == nil {
		respondError(w, r, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE", ErrExplorerDisabled.Error(), nil)
		return
	}
	respondSuccess(w, r, h.topics, time.Now())
}

// Explore handles GET /api/v1/explore/{topic}?limit=<n>.
func (h *Handler) Explore(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.explorer == nil {
		respondError(w, r, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE", ErrExplorerDisabled.Error(), nil)
		return
	}

	topic := chi.URLParam(r, "topic")
	limit := getIntParam(r, "limit", database.DefaultExploreLimit)
	if limit < 1 || limit > database.MaxExploreLimit {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 1000", nil)
		return
	}

	rows, err := h.explorer.Explore(r.Context(), topic, limit)
	if err != nil {
		if errors.Is(err, database.ErrUnknownTopic) {
			respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Unknown explore topic", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to run explore query", err)
		return
	}

	respondSuccess(w, r, models.ExploreResponse{Topic: topic, Rows: rows}, start)
}
