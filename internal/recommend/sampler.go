// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"math"
	"math/rand"
)

// rebuildRatio is the fraction of mass below which the tree is rebuilt
// from the exact remaining weights.
const rebuildRatio = 1e-6

// SoftmaxSample draws min(n, len(pool)) candidates without replacement with
// probability proportional to exp(score / temperature). Each draw removes the
// chosen candidate and renormalises over the rest.
//
// All randomness comes from rng, so a fixed seed yields a fixed sample.
// Results are returned in draw order. The pool is not modified.
func SoftmaxSample(pool []Candidate, n int, temperature float64, rng *rand.Rand) []Candidate {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}

	weights := softmaxWeights(pool, temperature)
	tree := newWeightTree(weights)
	taken := make([]bool, len(pool))
	out := make([]Candidate, 0, n)

	for len(out) < n {
		var idx int
		if total := tree.total(); total > 0 {
			idx = tree.search(rng.Float64() * total)
		} else {
			idx = firstFree(taken)
		}
		if taken[idx] {
			// Rounding drift pushed the target onto a removed slot.
			idx = firstFree(taken)
		}
		taken[idx] = true
		before := tree.total()
		tree.update(idx, -weights[idx])
		weights[idx] = 0
		if tree.total() < before*rebuildRatio {
			// Removing a dominant weight cancels the light ones sharing its nodes.
			tree = newWeightTree(weights)
		}
		out = append(out, pool[idx])
	}

	return out
}

// softmaxWeights returns unnormalised softmax weights, shifted by the maximum
// score so the largest weight is exactly 1.
func softmaxWeights(pool []Candidate, temperature float64) []float64 {
	if temperature <= 0 {
		temperature = math.SmallestNonzeroFloat64
	}

	maxScore := math.Inf(-1)
	for i := range pool {
		if pool[i].Score > maxScore {
			maxScore = pool[i].Score
		}
	}

	weights := make([]float64, len(pool))
	for i := range pool {
		w := math.Exp((pool[i].Score - maxScore) / temperature)
		if w < math.SmallestNonzeroFloat64 || math.IsNaN(w) {
			// Keep every candidate reachable once heavier ones are drawn.
			w = math.SmallestNonzeroFloat64
		}
		weights[i] = w
	}
	return weights
}

func firstFree(taken []bool) int {
	for i, t := range taken {
		if !t {
			return i
		}
	}
	return len(taken) - 1
}
