// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

/*
Package catalog holds the movie metadata used by both recommendation variants.

The Index is built once from the metadata source and is read-only afterwards,
so it can be shared by concurrent requests without locking. It maps titles
to movie ids (exact, case-sensitive), ids back to titles, and offers a
case-insensitive prefix search for title pickers.

# Loading

Load parses a movies CSV (movieId,title,genres) and LoadMetadata merges an
optional credits/keywords CSV (movieId,title_cast,director,plot_keywords)
into it. Malformed rows are skipped and counted in LoadStats; only a
structurally invalid header aborts the load.

	movies, stats, err := catalog.Load(moviesFile)
	if err != nil {
	    return err
	}
	idx, err := catalog.NewIndex(movies)
*/
package catalog
