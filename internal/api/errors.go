// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/reelrec/internal/recommend"
)

// ErrExplorerDisabled is reported when explore endpoints are hit without a database.
var ErrExplorerDisabled = errors.New("analytics store is disabled")

// Recommendation outcome labels, shared with metrics.
const (
	outcomeOK             = "ok"
	outcomeInvalidRequest = "invalid_request"
	outcomeNoValidSeeds   = "no_valid_seeds"
	outcomeUnavailable    = "unavailable"
	outcomeTimeout        = "timeout"
	outcomeCanceled       = "canceled"
	outcomeError          = "error"
)

// statusClientClosedRequest is the non-standard status for a request the
// client abandoned before the response was written.
const statusClientClosedRequest = 499

// errorMapping is how one engine error reaches the client.
type errorMapping struct {
	status  int
	code    string
	outcome string
}

// mapRecommendError classifies an engine error. Order matters: a
// no-valid-seeds error also wraps the not-found sentinel.
func mapRecommendError(err error) errorMapping {
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		return errorMapping{http.StatusBadRequest, "INVALID_REQUEST", outcomeInvalidRequest}
	case errors.Is(err, recommend.ErrNoValidSeeds):
		return errorMapping{http.StatusNotFound, "NO_VALID_SEEDS", outcomeNoValidSeeds}
	case errors.Is(err, recommend.ErrEmptyCatalog), errors.Is(err, recommend.ErrEmptyCorpus):
		return errorMapping{http.StatusServiceUnavailable, "MODEL_UNAVAILABLE", outcomeUnavailable}
	case errors.Is(err, recommend.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return errorMapping{http.StatusGatewayTimeout, "TIMEOUT", outcomeTimeout}
	case errors.Is(err, context.Canceled):
		return errorMapping{statusClientClosedRequest, "CLIENT_CLOSED_REQUEST", outcomeCanceled}
	case errors.Is(err, recommend.ErrNotFound):
		return errorMapping{http.StatusNotFound, "NOT_FOUND", outcomeNoValidSeeds}
	default:
		return errorMapping{http.StatusInternalServerError, "INTERNAL_ERROR", outcomeError}
	}
}
