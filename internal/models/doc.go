// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

// Package models defines the JSON shapes exchanged over the HTTP API.
//
// Every endpoint except /metrics wraps its payload in APIResponse so that
// clients can branch on a single "status" field:
//
//	{"status": "success", "data": {...}, "metadata": {"timestamp": "..."}}
//	{"status": "error", "error": {"code": "NO_VALID_SEEDS", "message": "..."}, "metadata": {...}}
package models
