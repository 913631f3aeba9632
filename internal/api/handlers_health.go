// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/reelrec/internal/models"
)

// Health handles GET /health.
//
// The service is "healthy" when the catalog is loaded and, if DuckDB is
// enabled, the database answers a ping. A missing collaborative model is
// reported but does not degrade health: content recommendations still work.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.engine.Status()

	health := models.HealthStatus{
		Status:          "healthy",
		Version:         h.version,
		CatalogMovies:   h.engine.Catalog().Len(),
		CollabReady:     status.ModelReady,
		DatabaseEnabled: h.explorer != nil,
		Uptime:          time.Since(h.startTime).Seconds(),
	}

	if h.explorer != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		health.DatabaseConnected = h.explorer.Ping(ctx) == nil
		cancel()
		if !health.DatabaseConnected {
			health.Status = "degraded"
		}
	}

	code := http.StatusOK
	if health.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, &models.APIResponse{
		Status:   models.StatusSuccess,
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
