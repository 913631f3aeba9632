// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reelrec/internal/ratings"
	"github.com/tomtom215/reelrec/internal/recommend/algorithms"
)

// RequiredSeeds is the number of seed titles a request must carry.
const RequiredSeeds = 3

// Variant selects the recommendation model.
type Variant string

const (
	// VariantContent ranks by metadata similarity.
	VariantContent Variant = "content_model"

	// VariantCollab ranks by the trained collaborative model.
	VariantCollab Variant = "collab_model"
)

// ParseVariant accepts the canonical names and the short forms used in
// URLs ("content", "collab").
func ParseVariant(s string) (Variant, error) {
	switch s {
	case string(VariantContent), "content":
		return VariantContent, nil
	case string(VariantCollab), "collab":
		return VariantCollab, nil
	default:
		return "", fmt.Errorf("unknown variant %q: %w", s, ErrInvalidRequest)
	}
}

// String returns the canonical variant name.
func (v Variant) String() string {
	return string(v)
}

// Request is a recommendation request.
type Request struct {
	// Variant selects the model.
	Variant Variant `json:"variant"`

	// Titles are exactly RequiredSeeds seed titles, matched exactly.
	Titles []string `json:"titles"`

	// TopN is how many recommendations to return (1..Limits.MaxTopN).
	TopN int `json:"top_n"`
}

// Result is a ranked recommendation list.
// Titles, MovieIDs and Scores are parallel and ordered best first.
type Result struct {
	Variant    Variant   `json:"variant"`
	Model      string    `json:"model"`
	Titles     []string  `json:"titles"`
	MovieIDs   []int     `json:"movie_ids"`
	Scores     []float64 `json:"scores"`
	Seeds      []int     `json:"seeds"`
	Unresolved []string  `json:"unresolved,omitempty"`
}

// Len returns the number of recommendations.
func (r *Result) Len() int {
	return len(r.MovieIDs)
}

// CollabModel is a trained collaborative model. Implementations are
// immutable once returned by their training function.
type CollabModel interface {
	// Name is the algorithm identifier ("item_knn", "als").
	Name() string

	// Warm reports whether the movie has ratings in the training corpus.
	Warm(movieID int) bool

	// Score returns positive scores for non-seed warm movies.
	Score(ctx context.Context, seeds []int) ([]algorithms.Scored, error)

	// TrainedAt is when the model finished training.
	TrainedAt() time.Time

	// Fingerprint identifies the training corpus.
	Fingerprint() algorithms.CorpusFingerprint
}

// RatingsSource loads the ratings corpus for training.
// It is typically implemented by the database layer.
type RatingsSource interface {
	LoadRatings(ctx context.Context) (*ratings.Matrix, ratings.BuildStats, error)
}

// ModelStore persists trained collaborative models.
type ModelStore interface {
	// SaveModel stores a snapshot of model.
	SaveModel(ctx context.Context, model CollabModel) error

	// LoadModel restores the latest snapshot of algorithm trained on m.
	LoadModel(ctx context.Context, algorithm string, m *ratings.Matrix) (CollabModel, error)
}

// TrainingStatus reports the state of the collaborative model.
type TrainingStatus struct {
	// IsTraining indicates whether training is currently in progress.
	IsTraining bool `json:"is_training"`

	// Algorithm is the configured collaborative algorithm.
	Algorithm string `json:"algorithm"`

	// ModelReady reports whether a collaborative model is installed.
	ModelReady bool `json:"model_ready"`

	// ModelVersion increments on every install.
	ModelVersion int `json:"model_version"`

	// Restored is true when the installed model came from a snapshot.
	Restored bool `json:"restored"`

	// LastTrainedAt is when the installed model finished training.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// LastTrainingDurationMS is how long the last successful training took.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// LastError contains the last training error, if any.
	LastError string `json:"last_error,omitempty"`

	// Corpus describes the installed model's training corpus.
	Corpus algorithms.CorpusFingerprint `json:"corpus"`

	// Rejected counts ratings dropped during the last load.
	Rejected ratings.BuildStats `json:"rejected"`

	// CatalogSize is the number of indexed movies.
	CatalogSize int `json:"catalog_size"`
}
