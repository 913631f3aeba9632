// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/reelrec/internal/logging"
	"github.com/tomtom215/reelrec/internal/metrics"
	"github.com/tomtom215/reelrec/internal/models"
	"github.com/tomtom215/reelrec/internal/recommend"
)

// Recommend handles POST /api/v1/recommendations/{variant}.
//
// Request body:
//
//	{"titles": ["Toy Story (1995)", "Jumanji (1995)", "Heat (1995)"], "top_n": 10}
//
// Seeds missing from the catalog (or, for collab_model, without ratings)
// are skipped and listed under "unresolved". The request fails with
// NO_VALID_SEEDS only when none of the three can be used.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	variant, err := recommend.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		// Unknown variants are not counted: the label set must stay bounded.
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Unknown variant; use content_model or collab_model", nil)
		return
	}

	var req models.RecommendRequest
	if err := decodeJSONBody(r, &req); err != nil {
		metrics.RecordRecommendation(variant.String(), outcomeInvalidRequest, time.Since(start), 0)
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		metrics.RecordRecommendation(variant.String(), outcomeInvalidRequest, time.Since(start), 0)
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	topN := req.TopN
	if topN == 0 {
		topN = h.engine.Config().Limits.DefaultTopN
	}

	res, err := h.engine.Recommend(r.Context(), recommend.Request{
		Variant: variant,
		Titles:  req.Titles,
		TopN:    topN,
	})
	if err != nil {
		m := mapRecommendError(err)
		unresolved := 0
		if m.outcome == outcomeNoValidSeeds {
			unresolved = len(req.Titles)
		}
		metrics.RecordRecommendation(variant.String(), m.outcome, time.Since(start), unresolved)

		message := err.Error()
		if m.status == http.StatusInternalServerError {
			message = "Internal server error"
		}
		respondError(w, r, m.status, m.code, message, err)
		return
	}

	metrics.RecordRecommendation(variant.String(), outcomeOK, time.Since(start), len(res.Unresolved))
	logging.Ctx(r.Context()).Debug().
		Str("variant", variant.String()).
		Int("results", res.Len()).
		Strs("unresolved", res.Unresolved).
		Msg("Recommendation served")

	respondSuccess(w, r, toRecommendResponse(res), start)
}

func toRecommendResponse(res *recommend.Result) models.RecommendResponse {
	recs := make([]models.Recommendation, res.Len())
	for i := range recs {
		recs[i] = models.Recommendation{
			Rank:    i + 1,
			MovieID: res.MovieIDs[i],
			Title:   res.Titles[i],
			Score:   res.Scores[i],
		}
	}
	return models.RecommendResponse{
		Variant:         res.Variant.String(),
		Model:           res.Model,
		Recommendations: recs,
		SeedIDs:         res.Seeds,
		Unresolved:      res.Unresolved,
	}
}

// RecommendationStatus handles GET /api/v1/recommendations/status.
func (h *Handler) RecommendationStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, h.engine.Status(), time.Now())
}
