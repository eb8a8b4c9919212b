// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"math"

	"github.com/tomtom215/pigment/internal/catalog"
)

// epsilon guards similarity denominators against zero-length vectors.
const epsilon = 1e-12

// Cosine returns the cosine similarity of two feature vectors.
// Zero vectors yield 0 instead of NaN.
func Cosine(a, b *catalog.Vector) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + epsilon)
}

// squaredDistance returns the squared Euclidean distance between palettes.
func squaredDistance(a, b *catalog.Palette) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
