// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"github.com/tomtom215/pigment/internal/catalog"
	"github.com/tomtom215/pigment/internal/exposure"
)

// CooldownResult is the sampling pool left after the cooldown filter.
type CooldownResult struct {
	// Pool holds surviving candidates followed by any backfilled ones.
	Pool []Candidate

	// Removed counts candidates dropped for being recently seen.
	Removed int

	// Backfilled counts candidates pulled in from the tail.
	Backfilled int

	// Exhausted is set when the tail ran out before the pool reached nSample.
	Exhausted bool
}

// FilterCooldown drops recently seen items from top. When fewer than nSample
// remain, it walks tail in rank order, skipping recently seen items, and
// appends the rest with Score = multiplier × Similarity until the pool holds
// nSample items. The walk is bounded by len(tail).
func FilterCooldown(cat *catalog.Catalog, top, tail []Candidate, state *exposure.State, nSample int, multiplier float64) CooldownResult {
	res := CooldownResult{Pool: make([]Candidate, 0, max(len(top), nSample))}

	for _, c := range top {
		if state.RecentlySeen(cat.At(c.Row).ID) {
			res.Removed++
			continue
		}
		res.Pool = append(res.Pool, c)
	}

	if len(res.Pool) >= nSample {
		return res
	}

	for _, c := range tail {
		if len(res.Pool) >= nSample {
			return res
		}
		if state.RecentlySeen(cat.At(c.Row).ID) {
			continue
		}
		c.Score = clamp01(c.Similarity * multiplier)
		c.Backfilled = true
		res.Pool = append(res.Pool, c)
		res.Backfilled++
	}

	res.Exhausted = len(res.Pool) < nSample
	return res
}
