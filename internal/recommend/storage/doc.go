// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

// Package storage persists trained collaborative models in BadgerDB.
//
// # Storage Format
//
// Each saved model gets a monotonically increasing version per algorithm.
// Three kinds of keys are written in one transaction:
//
//	model:<name>:latest          -> decimal version
//	model:<name>:meta:<version>  -> ModelMetadata (JSON)
//	model:<name>:data:<version>  -> gzip(gob(snapshot))
//
// Versions are zero-padded in keys so a prefix scan returns them in order.
// The metadata carries a SHA-256 checksum of the uncompressed gob payload,
// which Load verifies before decoding.
//
// # Snapshots
//
// SaveModel and LoadModel adapt the generic Save/Load to recommend.ModelStore:
// ItemKNN and ALS models are converted to their algorithms snapshot types and
// restored only against a rating matrix with the same corpus fingerprint.
//
// # Thread Safety
//
// All operations run inside Badger transactions and are safe for concurrent
// use.
package storage
