// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

/*
Package main is the entry point for the reelrec server.

reelrec answers "given three movies I like, what should I watch next?" with
two models: a content model over genres, cast, director and keywords, and a
collaborative model trained on user ratings (item-based kNN or ALS).

# Application Architecture

	RootSupervisor ("reelrec")
	├── DataSupervisor ("data-layer")
	│   └── RecommendService (periodic retraining)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog
 3. Catalog: movies CSV plus optional metadata CSV, indexed by title
 4. DuckDB (optional): CSV ingestion and Explore analytics
 5. Engine: content features, then the first collaborative model from a
    Badger snapshot or a fresh training run
 6. Supervisor tree: HTTP server and retraining loop

The catalog load and first training run complete before the HTTP server
starts, so no request is served against a partially built model.

# Configuration

Common environment variables:

	MOVIES_PATH=/data/movies.csv
	METADATA_PATH=/data/metadata.csv
	RATINGS_PATH=/data/ratings.csv
	RECOMMEND_ALGORITHM=item_knn          # or als
	RECOMMEND_TRAIN_INTERVAL=24h
	RECOMMEND_MODEL_PATH=/data/models
	DUCKDB_ENABLED=true
	HTTP_PORT=8080
	LOG_LEVEL=info

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests within the supervisor shutdown timeout, then the model store and
database are closed.
*/
package main
