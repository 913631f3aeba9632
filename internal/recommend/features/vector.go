// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package features

import "math"

// Vector is a sparse term vector. Terms are vocabulary indices in
// ascending order and Weights is parallel to Terms.
type Vector struct {
	Terms   []int
	Weights []float64
	norm    float64
}

func newVector(terms []int, weights []float64) Vector {
	var sq float64
	for _, w := range weights {
		sq += w * w
	}
	return Vector{Terms: terms, Weights: weights, norm: math.Sqrt(sq)}
}

// Norm returns the L2 magnitude.
func (v Vector) Norm() float64 {
	return v.norm
}

// IsZero reports whether the vector has zero magnitude.
func (v Vector) IsZero() bool {
	return v.norm == 0
}

// Dot returns the inner product of two vectors by merging their term lists.
func Dot(a, b Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a.Terms) && j < len(b.Terms) {
		switch {
		case a.Terms[i] == b.Terms[j]:
			dot += a.Weights[i] * b.Weights[j]
			i++
			j++
		case a.Terms[i] < b.Terms[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// Cosine returns the cosine similarity of a and b. It is 0 when either
// vector has zero magnitude.
func Cosine(a, b Vector) float64 {
	if a.norm == 0 || b.norm == 0 {
		return 0
	}
	return Dot(a, b) / (a.norm * b.norm)
}
