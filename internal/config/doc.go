// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

/*
Package config provides centralized configuration management for Reelrec.

# Configuration Sources

Configuration is layered with Koanf v2, later layers overriding earlier ones:
 1. Struct defaults (defaultConfig)
 2. Optional YAML file: CONFIG_PATH, config.yaml, config.yml,
    /etc/reelrec/config.yaml, /etc/reelrec/config.yml
 3. Environment variables, mapped explicitly by envTransformFunc

Unknown environment variables are ignored.

# Environment Variables

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 3858)
  - HTTP_TIMEOUT: Read/write timeout (default: 30s)
  - ENVIRONMENT: development, staging, production (default: development)

Data sources:
  - MOVIES_PATH: Movies CSV, movieId,title,genres (default: /data/movies.csv)
  - METADATA_PATH: Optional credits/keywords CSV (default: empty)
  - RATINGS_PATH: Ratings CSV, userId,movieId,rating (default: /data/ratings.csv)
  - RATINGS_DUPLICATE_POLICY: last_write_wins or reject (default: last_write_wins)
  - RATINGS_MIN / RATINGS_MAX: Declared rating range (default: 0.5 / 5.0)

Database (Explore analytics):
  - DUCKDB_ENABLED: Ingest sources into DuckDB (default: true)
  - DUCKDB_PATH: Database file path (default: /data/reelrec.duckdb)
  - DUCKDB_MAX_MEMORY: Memory limit (default: 1GB)
  - DUCKDB_THREADS: Worker threads, 0 means NumCPU (default: 0)

Recommendation engine:
  - RECOMMEND_ALGORITHM: item_knn or als (default: item_knn)
  - RECOMMEND_TRAIN_INTERVAL: Retraining period, 0 disables (default: 24h)
  - RECOMMEND_TRAIN_TIMEOUT: Bound on one training run (default: 30m)
  - RECOMMEND_MIN_RATINGS: Ratings required to train (default: 1)
  - RECOMMEND_MODEL_PATH: Badger directory for model snapshots (default: /data/models)
  - RECOMMEND_RESTORE_SNAPSHOT: Restore the last snapshot on startup (default: true)
  - RECOMMEND_REQUEST_TIMEOUT, RECOMMEND_DEFAULT_TOP_N, RECOMMEND_MAX_TOP_N
  - RECOMMEND_WEIGHTING (tf, tfidf), RECOMMEND_AGGREGATE (sum, mean),
    RECOMMEND_TOP_CAST, RECOMMEND_DIRECTOR_WEIGHT
  - RECOMMEND_KNN_*: NEIGHBORS, SHRINKAGE, MIN_COMMON, MIN_SIMILARITY, WORKERS
  - RECOMMEND_ALS_*: FACTORS, ITERATIONS, REGULARIZATION, ALPHA, WORKERS

Security:
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: Include caller file:line (default: false)

Supervisor:
  - SUPERVISOR_FAILURE_THRESHOLD, SUPERVISOR_FAILURE_DECAY,
    SUPERVISOR_FAILURE_BACKOFF, SUPERVISOR_SHUTDOWN_TIMEOUT

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("invalid configuration")
	}

# Thread Safety

Config is immutable after Load and safe for concurrent reads.
*/
package config
