// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

// Package recommend answers "movies like these three" requests.
//
// # Variants
//
// A Request names one of two variants:
//
//   - content_model: feature-vector cosine similarity over genres, cast,
//     director and keywords (always available once the catalog loads)
//   - collab_model: a collaborative model trained from the ratings corpus,
//     either item-based KNN or ALS, answered for a pseudo-user whose only
//     history is the seed titles
//
// Seed titles are resolved against the catalog. Titles that do not resolve
// are reported in Result.Unresolved and logged at warn level; a request in
// which no seed resolves fails with ErrNoValidSeeds.
//
// # Training
//
// Requests never train. Engine.Train loads the ratings through the
// configured RatingsSource, builds a new model and installs it with an
// atomic pointer swap, so requests in flight keep the model they started
// with. If a ModelStore is set, trained models are snapshotted and
// Engine.Bootstrap restores the latest snapshot when it matches the corpus.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, idx, logger)
//	engine.SetRatingsSource(src)
//	if err := engine.Bootstrap(ctx); err != nil { ... }
//
//	res, err := engine.Recommend(ctx, recommend.Request{
//	    Variant: recommend.VariantContent,
//	    Titles:  []string{"Heat (1995)", "Ronin (1998)", "Thief (1981)"},
//	    TopN:    10,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Only Train and Bootstrap mutate
// state, and they serialize on a training mutex.
package recommend
