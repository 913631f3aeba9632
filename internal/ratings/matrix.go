// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

// Package ratings builds the sparse user x movie rating matrix used by the
// collaborative predictor.
//
// The matrix is stored twice in compressed form: CSR (one row per user)
// for user-oriented scans and CSC (one column per movie) for item-oriented
// scans. No dense representation is ever materialized. User rows and movie
// columns are assigned in ascending id order so the index mapping depends
// only on the set of ids, not on input order.
//
// A Matrix is immutable once built and safe for concurrent reads.
package ratings

import (
	"sort"
)

// Matrix is an immutable sparse rating matrix.
type Matrix struct {
	userIDs  []int
	movieIDs []int
	userRow  map[int]int
	movieCol map[int]int

	// CSR: ratings of user row u are rowVal[rowPtr[u]:rowPtr[u+1]],
	// at columns rowCol[...] (ascending).
	rowPtr []int
	rowCol []int
	rowVal []float64

	// CSC: ratings of movie column c are colVal[colPtr[c]:colPtr[c+1]],
	// from rows colRow[...] (ascending).
	colPtr []int
	colRow []int
	colVal []float64

	bounds Bounds
}

// NumUsers returns the number of distinct users (rows).
func (m *Matrix) NumUsers() int { return len(m.userIDs) }

// NumMovies returns the number of distinct rated movies (columns).
func (m *Matrix) NumMovies() int { return len(m.movieIDs) }

// NNZ returns the number of stored ratings.
func (m *Matrix) NNZ() int { return len(m.rowVal) }

// Bounds returns the rating range the matrix was built with.
func (m *Matrix) Bounds() Bounds { return m.bounds }

// Density returns NNZ / (users * movies).
func (m *Matrix) Density() float64 {
	cells := float64(m.NumUsers()) * float64(m.NumMovies())
	if cells == 0 {
		return 0
	}
	return float64(m.NNZ()) / cells
}

// UserIndex maps a user id to its row.
func (m *Matrix) UserIndex(userID int) (int, bool) {
	r, ok := m.userRow[userID]
	return r, ok
}

// MovieIndex maps a movie id to its column.
func (m *Matrix) MovieIndex(movieID int) (int, bool) {
	c, ok := m.movieCol[movieID]
	return c, ok
}

// UserID maps a row back to its user id.
func (m *Matrix) UserID(row int) int { return m.userIDs[row] }

// MovieID maps a column back to its movie id.
func (m *Matrix) MovieID(col int) int { return m.movieIDs[col] }

// HasMovie reports whether any rating exists for movieID.
func (m *Matrix) HasMovie(movieID int) bool {
	_, ok := m.movieCol[movieID]
	return ok
}

// MovieIDs returns the rated movie ids in column order (ascending).
func (m *Matrix) MovieIDs() []int {
	out := make([]int, len(m.movieIDs))
	copy(out, m.movieIDs)
	return out
}

// Row returns the column indices and ratings of a user row.
// The returned slices alias internal storage and must not be modified.
func (m *Matrix) Row(row int) (cols []int, vals []float64) {
	lo, hi := m.rowPtr[row], m.rowPtr[row+1]
	return m.rowCol[lo:hi], m.rowVal[lo:hi]
}

// Column returns the row indices and ratings of a movie column.
// The returned slices alias internal storage and must not be modified.
func (m *Matrix) Column(col int) (rows []int, vals []float64) {
	lo, hi := m.colPtr[col], m.colPtr[col+1]
	return m.colRow[lo:hi], m.colVal[lo:hi]
}

// Rating returns the rating userID gave movieID.
func (m *Matrix) Rating(userID, movieID int) (float64, bool) {
	r, ok := m.userRow[userID]
	if !ok {
		return 0, false
	}
	c, ok := m.movieCol[movieID]
	if !ok {
		return 0, false
	}

	cols, vals := m.Row(r)
	i := sort.SearchInts(cols, c)
	if i < len(cols) && cols[i] == c {
		return vals[i], true
	}
	return 0, false
}

// ColumnCount returns the number of ratings for column col.
func (m *Matrix) ColumnCount(col int) int {
	return m.colPtr[col+1] - m.colPtr[col]
}

// newMatrix assembles CSR and CSC arrays from entries sorted by
// (user, movie) with no duplicate pairs.
func newMatrix(entries []Entry, bounds Bounds) *Matrix {
	m := &Matrix{
		userRow:  make(map[int]int),
		movieCol: make(map[int]int),
		bounds:   bounds,
	}

	movieSet := make(map[int]struct{})
	for _, e := range entries {
		if _, ok := m.userRow[e.UserID]; !ok {
			m.userRow[e.UserID] = len(m.userIDs)
			m.userIDs = append(m.userIDs, e.UserID)
		}
		movieSet[e.MovieID] = struct{}{}
	}

	m.movieIDs = make([]int, 0, len(movieSet))
	for id := range movieSet {
		m.movieIDs = append(m.movieIDs, id)
	}
	sort.Ints(m.movieIDs)
	for c, id := range m.movieIDs {
		m.movieCol[id] = c
	}

	nnz := len(entries)
	m.rowPtr = make([]int, len(m.userIDs)+1)
	m.rowCol = make([]int, nnz)
	m.rowVal = make([]float64, nnz)
	for i, e := range entries {
		m.rowPtr[m.userRow[e.UserID]+1]++
		m.rowCol[i] = m.movieCol[e.MovieID]
		m.rowVal[i] = e.Rating
	}
	for r := 0; r < len(m.userIDs); r++ {
		m.rowPtr[r+1] += m.rowPtr[r]
	}

	// Transpose. Rows are visited in ascending order, so each column's row
	// list comes out ascending without an extra sort.
	m.colPtr = make([]int, len(m.movieIDs)+1)
	for _, c := range m.rowCol {
		m.colPtr[c+1]++
	}
	for c := 0; c < len(m.movieIDs); c++ {
		m.colPtr[c+1] += m.colPtr[c]
	}
	next := make([]int, len(m.movieIDs))
	copy(next, m.colPtr[:len(m.movieIDs)])
	m.colRow = make([]int, nnz)
	m.colVal = make([]float64, nnz)
	for r := 0; r < len(m.userIDs); r++ {
		for p := m.rowPtr[r]; p < m.rowPtr[r+1]; p++ {
			c := m.rowCol[p]
			m.colRow[next[c]] = r
			m.colVal[next[c]] = m.rowVal[p]
			next[c]++
		}
	}

	return m
}
