// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"math"

	"github.com/tomtom215/pigment/internal/catalog"
	"github.com/tomtom215/pigment/internal/exposure"
)

// PenaltyWeights scales the three score penalties.
type PenaltyWeights struct {
	// User weights log1p(per-user exposure).
	User float64

	// Stability weights 1/(1+stability).
	Stability float64

	// Global weights log1p(global exposure).
	Global float64
}

// Penalties returns the penalty weights of the diversity configuration.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (d DiversityConfig) Penalties() PenaltyWeights {
	return PenaltyWeights{User: d.AlphaUser, Stability: d.BetaStability, Global: d.GammaPop}
}

// ShiftScore applies fatigue, instability, and popularity penalties to a
// similarity and clamps the result to [0, 1].
func ShiftScore(similarity float64, userCount, globalCount int64, stability float64, w PenaltyWeights) float64 {
	penalty := w.User*math.Log1p(float64(userCount)) +
		w.Stability*(1/(1+stability)) +
		w.Global*math.Log1p(float64(globalCount))
	return clamp01(similarity - penalty)
}

// ApplyExposurePenalty returns a copy of cands with Score replaced by the
// shifted score. Items absent from state count as never shown; items the
// catalogue has no stability for get the neutral score.
func ApplyExposurePenalty(cat *catalog.Catalog, cands []Candidate, state *exposure.State, w PenaltyWeights) []Candidate {
	out := make([]Candidate, len(cands))
	for i, c := range cands {
		item := cat.At(c.Row)
		c.Score = ShiftScore(c.Similarity,
			state.UserCount(item.ID),
			state.GlobalCount(item.ID),
			cat.Stability(item.ID),
			w)
		out[i] = c
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
