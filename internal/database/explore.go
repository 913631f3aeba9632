// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrUnknownTopic is returned by Explore for a topic it does not serve.
var ErrUnknownTopic = errors.New("unknown explore topic")

// Explore topics.
const (
	TopicGenres       = "genres"
	TopicGenreTrends  = "genre_trends"
	TopicReleaseYears = "release_years"
	TopicDirectors    = "directors"
	TopicActors       = "actors"
	TopicKeywords     = "keywords"
	TopicRatings      = "ratings"
	TopicRatingYears  = "rating_years"
	TopicRaters       = "raters"
	TopicMostRated    = "most_rated"
)

// Topics lists every topic Explore accepts, in display order.
var Topics = []string{
	TopicGenres, TopicGenreTrends, TopicReleaseYears,
	TopicDirectors, TopicActors, TopicKeywords,
	TopicRatings, TopicRatingYears, TopicRaters, TopicMostRated,
}

// NameCount is a name with the number of movies it appears in.
type NameCount struct {
	Name   string `json:"name"`
	Movies int    `json:"movies"`
}

// GenreYear is the number of movies of one genre released in one year.
type GenreYear struct {
	Year   int    `json:"year"`
	Genre  string `json:"genre"`
	Movies int    `json:"movies"`
}

// YearCount is a count keyed by year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// RatingBucket is the number of ratings with one star value.
type RatingBucket struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

// RaterCount summarizes one user's ratings.
type RaterCount struct {
	UserID     int     `json:"user_id"`
	Ratings    int     `json:"ratings"`
	MeanRating float64 `json:"mean_rating"`
}

// MovieRatings summarizes the ratings one movie received.
type MovieRatings struct {
	MovieID    int     `json:"movie_id"`
	Title      string  `json:"title"`
	Ratings    int     `json:"ratings"`
	MeanRating float64 `json:"mean_rating"`
}

// Explore runs the query for topic. limit caps ranked topics and is
// ignored by distributions.
func (db *DB) Explore(ctx context.Context, topic string, limit int) (interface{}, error) {
	switch topic {
	case TopicGenres:
		return db.GenreCounts(ctx)
	case TopicGenreTrends:
		return db.GenreTrends(ctx)
	case TopicReleaseYears:
		return db.ReleaseYears(ctx)
	case TopicDirectors:
		return db.TopDirectors(ctx, limit)
	case TopicActors:
		return db.TopActors(ctx, limit)
	case TopicKeywords:
		return db.TopKeywords(ctx, limit)
	case TopicRatings:
		return db.RatingDistribution(ctx)
	case TopicRatingYears:
		return db.RatingsPerYear(ctx)
	case TopicRaters:
		return db.TopRaters(ctx, limit)
	case TopicMostRated:
		return db.MostRated(ctx, limit)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}
}

// GenreCounts returns the number of movies per genre, largest first.
func (db *DB) GenreCounts(ctx context.Context) ([]NameCount, error) {
	query := `
		SELECT genre, count(DISTINCT movie_id) AS movies
		FROM movie_genres
		GROUP BY genre
		ORDER BY movies DESC, genre`
	return timedQuery(ctx, db, "genre_counts", query, nil, scanNameCount)
}

// GenreTrends returns movies released per genre and year.
func (db *DB) GenreTrends(ctx context.Context) ([]GenreYear, error) {
	query := `
		SELECT m.year, g.genre, count(*) AS movies
		FROM movies m
		JOIN movie_genres g ON g.movie_id = m.movie_id
		WHERE m.year > 0
		GROUP BY m.year, g.genre
		ORDER BY m.year, g.genre`
	return timedQuery(ctx, db, "genre_trends", query, nil, func(rows *sql.Rows) (GenreYear, error) {
		var gy GenreYear
		err := rows.Scan(&gy.Year, &gy.Genre, &gy.Movies)
		return gy, err
	})
}

// ReleaseYears returns movies released per year.
func (db *DB) ReleaseYears(ctx context.Context) ([]YearCount, error) {
	query := `
		SELECT year, count(*)
		FROM movies
		WHERE year > 0
		GROUP BY year
		ORDER BY year`
	return timedQuery(ctx, db, "release_years", query, nil, scanYearCount)
}

// TopDirectors returns the directors with the most movies.
func (db *DB) TopDirectors(ctx context.Context, limit int) ([]NameCount, error) {
	query := `
		SELECT director, count(*) AS movies
		FROM movies
		WHERE director <> ''
		GROUP BY director
		ORDER BY movies DESC, director
		LIMIT ?`
	return timedQuery(ctx, db, "top_directors", query, []interface{}{clampLimit(limit)}, scanNameCount)
}

// TopActors returns the cast members appearing in the most movies.
func (db *DB) TopActors(ctx context.Context, limit int) ([]NameCount, error) {
	query := `
		SELECT actor, count(DISTINCT movie_id) AS movies
		FROM movie_cast
		GROUP BY actor
		ORDER BY movies DESC, actor
		LIMIT ?`
	return timedQuery(ctx, db, "top_actors", query, []interface{}{clampLimit(limit)}, scanNameCount)
}

// TopKeywords returns the most common plot keywords.
func (db *DB) TopKeywords(ctx context.Context, limit int) ([]NameCount, error) {
	query := `
		SELECT keyword, count(DISTINCT movie_id) AS movies
		FROM movie_keywords
		GROUP BY keyword
		ORDER BY movies DESC, keyword
		LIMIT ?`
	return timedQuery(ctx, db, "top_keywords", query, []interface{}{clampLimit(limit)}, scanNameCount)
}

// RatingDistribution returns the number of valid ratings per star value.
func (db *DB) RatingDistribution(ctx context.Context) ([]RatingBucket, error) {
	query := `
		SELECT rating, count(*)
		FROM ratings
		GROUP BY rating
		ORDER BY rating`
	return timedQuery(ctx, db, "rating_distribution", query, nil, func(rows *sql.Rows) (RatingBucket, error) {
		var b RatingBucket
		err := rows.Scan(&b.Rating, &b.Count)
		return b, err
	})
}

// RatingsPerYear returns valid ratings per calendar year of the rating
// timestamp. Sources without timestamps yield no rows.
func (db *DB) RatingsPerYear(ctx context.Context) ([]YearCount, error) {
	query := `
		SELECT year(epoch_ms(rated_at * 1000)) AS y, count(*)
		FROM ratings
		WHERE rated_at IS NOT NULL
		GROUP BY y
		ORDER BY y`
	return timedQuery(ctx, db, "ratings_per_year", query, nil, scanYearCount)
}

// TopRaters returns the users with the most valid ratings.
func (db *DB) TopRaters(ctx context.Context, limit int) ([]RaterCount, error) {
	query := `
		SELECT user_id, count(*) AS n, avg(rating)
		FROM ratings
		GROUP BY user_id
		ORDER BY n DESC, user_id
		LIMIT ?`
	return timedQuery(ctx, db, "top_raters", query, []interface{}{clampLimit(limit)}, func(rows *sql.Rows) (RaterCount, error) {
		var rc RaterCount
		err := rows.Scan(&rc.UserID, &rc.Ratings, &rc.MeanRating)
		return rc, err
	})
}

// MostRated returns the movies with the most valid ratings. Movies missing
// from the catalog are reported with an empty title.
func (db *DB) MostRated(ctx context.Context, limit int) ([]MovieRatings, error) {
	query := `
		SELECT r.movie_id, coalesce(m.title, '') AS title, count(*) AS n, avg(r.rating)
		FROM ratings r
		LEFT JOIN movies m ON m.movie_id = r.movie_id
		GROUP BY r.movie_id, m.title
		ORDER BY n DESC, r.movie_id
		LIMIT ?`
	return timedQuery(ctx, db, "most_rated", query, []interface{}{clampLimit(limit)}, func(rows *sql.Rows) (MovieRatings, error) {
		var mr MovieRatings
		err := rows.Scan(&mr.MovieID, &mr.Title, &mr.Ratings, &mr.MeanRating)
		return mr, err
	})
}

func scanNameCount(rows *sql.Rows) (NameCount, error) {
	var nc NameCount
	err := rows.Scan(&nc.Name, &nc.Movies)
	return nc, err
}

func scanYearCount(rows *sql.Rows) (YearCount, error) {
	var yc YearCount
	err := rows.Scan(&yc.Year, &yc.Count)
	return yc, err
}
