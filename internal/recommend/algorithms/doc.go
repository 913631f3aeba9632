// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

// Package algorithms implements the scoring models behind the two
// recommendation variants.
//
// # Content Similarity
//
// ContentSimilarity scores every catalog movie against a set of seed movies
// by cosine similarity of their feature vectors (see package features). The
// per-seed similarities are summed, or averaged when configured, and the
// seeds themselves are never candidates. No N x N similarity matrix is
// precomputed; each request does one pass over the catalog.
//
// # Collaborative Filtering
//
// Two models are trained from a ratings.Matrix:
//
//   - ItemKNN: item-item cosine similarity over co-rating users with
//     shrinkage, keeping the top K neighbours of every movie.
//   - ALS: implicit-feedback matrix factorization (Hu, Koren, Volinsky 2008).
//
// Neither model knows the requesting user. A request is answered for a
// pseudo-user whose only history is the seed movies: ItemKNN sums the seed
// neighbourhoods, ALS folds the seeds in as a new user row and solves for
// its factors. Movies without ratings are cold and are never scored.
//
// # Determinism
//
// Models are trained from CSR/CSC arrays in ascending id order and factors
// are initialized from a fixed formula, so the same corpus and config
// produce the same model. RankTopN orders by score descending and breaks
// ties by ascending movie id.
//
// # Thread Safety
//
// Trained models are immutable. Train* functions return a new value and
// never modify a model that is already serving requests.
package algorithms
