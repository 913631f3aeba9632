// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package models

// RecommendRequest is the body of POST /api/v1/recommendations/{variant}.
// A zero TopN means the configured default.
type RecommendRequest struct {
	Titles []string `json:"titles" validate:"required,len=3,dive,notblank,max=500"`
	TopN   int      `json:"top_n,omitempty" validate:"omitempty,min=1"`
}

// Recommendation is one ranked entry.
type Recommendation struct {
	Rank    int     `json:"rank"`
	MovieID int     `json:"movie_id"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
}

// RecommendResponse is the data payload of a recommendation.
type RecommendResponse struct {
	Variant         string           `json:"variant"`
	Model           string           `json:"model"`
	Recommendations []Recommendation `json:"recommendations"`
	SeedIDs         []int            `json:"seed_ids"`
	Unresolved      []string         `json:"unresolved,omitempty"`
}

// MovieSearchResponse is the data payload of GET /api/v1/movies.
type MovieSearchResponse struct {
	Query   string      `json:"query"`
	Total   int         `json:"total"`
	Results interface{} `json:"results"`
}

// ExploreResponse is the data payload of GET /api/v1/explore/{topic}.
type ExploreResponse struct {
	Topic string      `json:"topic"`
	Rows  interface{} `json:"rows"`
}
