// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope for every JSON response.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Error codes:
//   - VALIDATION_ERROR: Malformed body or parameters (400)
//   - INVALID_REQUEST: Wrong seed count, top_n out of range, unknown variant (400)
//   - NOT_FOUND: Movie id or explore topic does not exist (404)
//   - NO_VALID_SEEDS: None of the seed titles could be used (404)
//   - MODEL_UNAVAILABLE: Empty catalog or no collaborative model (503)
//   - TIMEOUT: Request exceeded its deadline (504)
//   - RATE_LIMIT_EXCEEDED: Too many requests (429)
//   - INTERNAL_ERROR: Anything else (500)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the /health payload.
type HealthStatus struct {
	// Status is "healthy" or "degraded".
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	CatalogMovies     int     `json:"catalog_movies"`
	CollabReady       bool    `json:"collab_ready"`
	DatabaseEnabled   bool    `json:"database_enabled"`
	DatabaseConnected bool    `json:"database_connected"`
	Uptime            float64 `json:"uptime_seconds"`
}
