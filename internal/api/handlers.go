// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

// Package api provides the HTTP surface of the recommendation service.
//
// Routes (chi):
//
//	GET  /health                              liveness and readiness summary
//	GET  /metrics                             Prometheus exposition
//	GET  /api/v1/movies?q=&limit=             title prefix search
//	GET  /api/v1/movies/{id}                  one catalog entry
//	POST /api/v1/recommendations/{variant}    content_model or collab_model
//	GET  /api/v1/recommendations/status       collaborative training status
//	GET  /api/v1/explore                      available explore topics
//	GET  /api/v1/explore/{topic}?limit=       DuckDB analytics
package api

import (
	"context"
	"time"

	"github.com/tomtom215/reelrec/internal/catalog"
	"github.com/tomtom215/reelrec/internal/recommend"
)

// Recommender is the engine surface the handlers use.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
	Status() recommend.TrainingStatus
	Catalog() *catalog.Index
	Config() *recommend.Config
}

// Explorer answers analytics queries. It is nil when DuckDB is disabled.
type Explorer interface {
	Explore(ctx context.Context, topic string, limit int) (interface{}, error)
	Ping(ctx context.Context) error
}

// Handler holds the dependencies of every HTTP handler.
type Handler struct {
	engine    Recommender
	explorer  Explorer
	topics    []string
	version   string
	startTime time.Time
}

// NewHandler creates a handler. explorer may be nil, in which case explore
// endpoints answer 503.
func NewHandler(engine Recommender, explorer Explorer, topics []string, version string) *Handler {
	return &Handler{
		engine:    engine,
		explorer:  explorer,
		topics:    topics,
		version:   version,
		startTime: time.Now(),
	}
}
