// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package recommend

import (
	"errors"

	"github.com/tomtom215/reelrec/internal/catalog"
	"github.com/tomtom215/reelrec/internal/ratings"
)

var (
	// ErrNotFound is returned when a title is not in the catalog.
	ErrNotFound = catalog.ErrNotFound

	// ErrNoValidSeeds is returned when none of the seed titles can be used.
	// It is always joined with ErrNotFound.
	ErrNoValidSeeds = errors.New("no valid seed titles")

	// ErrInvalidRequest is returned for malformed requests.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrEmptyCatalog is returned when the engine has no catalog.
	ErrEmptyCatalog = catalog.ErrEmptyCatalog

	// ErrEmptyCorpus is returned when no collaborative model is available.
	ErrEmptyCorpus = ratings.ErrEmptyCorpus

	// ErrTimeout is returned when a request exceeds its deadline.
	ErrTimeout = errors.New("recommendation timed out")

	// ErrTrainingInProgress is returned when Train is called concurrently.
	ErrTrainingInProgress = errors.New("training already in progress")
)
