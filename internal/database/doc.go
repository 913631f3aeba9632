// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

/*
Package database provides the DuckDB-backed analytics store.

The store mirrors the movie catalog and the ratings corpus into columnar
tables so that exploratory questions (genre counts, release years, rating
distribution, prolific raters) can be answered with SQL instead of ad-hoc
loops. It also acts as a ratings source for the collaborative model: the
ratings CSV is ingested once with DuckDB's read_csv and then streamed back
into a ratings.Builder on every training run.

# Tables

	movies          (movie_id, title, year, director)
	movie_genres    (movie_id, genre)
	movie_cast      (movie_id, position, actor)
	movie_keywords  (movie_id, keyword)
	ratings_raw     (line, user_id, movie_id, rating, rated_at)
	ratings         view over ratings_raw: typed, in-bounds rows only

ratings_raw keeps every CSV row, with NULLs where a field failed to parse,
so the builder can count malformed rows exactly as the plain CSV loader
does.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	if err := db.IngestCatalog(ctx, idx); err != nil {
	    return err
	}
	stats, err := db.IngestRatings(ctx, cfg.Data.RatingsPath, bounds)
	engine.SetRatingsSource(db.RatingsSource(builderCfg))

	genres, err := db.Explore(ctx, database.TopicGenres, 20)

# Thread Safety

DB is safe for concurrent use. Ingestion replaces tables inside a single
transaction; concurrent readers see either the old or the new data.
*/
package database
