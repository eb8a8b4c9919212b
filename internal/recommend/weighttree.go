// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

// weightTree is a Fenwick tree (binary indexed tree) over float64 weights.
// It supports O(log n) point updates, prefix sums, and inverse prefix search,
// which makes weighted sampling without replacement O(k log n).
//
// Not safe for concurrent use; each request builds its own tree.
type weightTree struct {
	tree []float64 // 1-indexed for cleaner bit manipulation
	n    int
	high int // highest power of two <= n
}

// newWeightTree builds a tree over the given weights in O(n).
func newWeightTree(weights []float64) *weightTree {
	n := len(weights)
	t := &weightTree{tree: make([]float64, n+1), n: n, high: 1}
	for t.high<<1 <= n {
		t.high <<= 1
	}

	for i, w := range weights {
		t.tree[i+1] += w
		if j := (i + 1) + ((i + 1) & -(i + 1)); j <= n {
			t.tree[j] += t.tree[i+1]
		}
	}
	return t
}

// update adds delta to the weight at index i (0-indexed).
func (t *weightTree) update(i int, delta float64) {
	for i++; i <= t.n; i += i & -i {
		t.tree[i] += delta
	}
}

// prefixSum returns the sum of weights 0..i inclusive (0-indexed).
func (t *weightTree) prefixSum(i int) float64 {
	var sum float64
	for i++; i > 0; i -= i & -i {
		sum += t.tree[i]
	}
	return sum
}

// total returns the sum of all weights.
func (t *weightTree) total() float64 {
	return t.prefixSum(t.n - 1)
}

// search returns the smallest index whose prefix sum exceeds target.
// Targets at or past the total return the last index.
func (t *weightTree) search(target float64) int {
	pos := 0
	for step := t.high; step > 0; step >>= 1 {
		next := pos + step
		if next <= t.n && t.tree[next] <= target {
			pos = next
			target -= t.tree[next]
		}
	}
	if pos >= t.n {
		return t.n - 1
	}
	return pos
}
