// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"math"
	"testing"

	"github.com/tomtom215/pigment/internal/exposure"
)

func TestShiftScore(t *testing.T) {
	w := DefaultConfig().Diversity.Penalties()

	tests := []struct {
		name      string
		sim       float64
		user      int64
		global    int64
		stability float64
		noPenalty bool
		want      float64
	}{
		{
			name:      "stability only",
			sim:       0.9,
			stability: 1,
			want:      0.9 - 0.05*0.5,
		},
		{
			name:      "fatigue and popularity",
			sim:       0.9,
			user:      3,
			global:    10,
			stability: 0.5,
			want:      0.9 - 0.03*math.Log(4) - 0.05/1.5 - 0.02*math.Log(11),
		},
		{
			name:      "clamped at zero",
			sim:       0.01,
			user:      1000,
			global:    1000,
			stability: 0,
			want:      0,
		},
		{
			name:      "clamped at one",
			sim:       1.5,
			noPenalty: true,
			want:      1,
		},
		{
			name:      "NaN similarity",
			sim:       math.NaN(),
			noPenalty: true,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weights := w
			if tt.noPenalty {
				weights = PenaltyWeights{}
			}
			got := ShiftScore(tt.sim, tt.user, tt.global, tt.stability, weights)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ShiftScore() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestShiftScore_MonotoneInExposure(t *testing.T) {
	w := DefaultConfig().Diversity.Penalties()
	prev := ShiftScore(0.95, 0, 0, 0.7, w)
	for n := int64(1); n < 50; n++ {
		got := ShiftScore(0.95, n, n, 0.7, w)
		if got > prev {
			t.Fatalf("ShiftScore rose from %f to %f at exposure %d", prev, got, n)
		}
		prev = got
	}
}

func TestApplyExposurePenalty(t *testing.T) {
	cat := randomCatalog(t, 10, 5)
	query := cat.At(0).Features
	top, _ := GenerateCandidates(cat, &query, 10)
	w := DefaultConfig().Diversity.Penalties()

	target := cat.At(top[1].Row).ID
	state := exposure.NewState()
	state.User[target] = 4
	state.Global[target] = 9

	got := ApplyExposurePenalty(cat, top, state, w)
	if len(got) != len(top) {
		t.Fatalf("ApplyExposurePenalty() returned %d candidates, want %d", len(got), len(top))
	}

	for i, c := range got {
		id := cat.At(c.Row).ID
		want := ShiftScore(c.Similarity, state.UserCount(id), state.GlobalCount(id), cat.Stability(id), w)
		if c.Score != want {
			t.Errorf("candidate %s score = %f, want %f", id, c.Score, want)
		}
		if top[i].Score != top[i].Similarity {
			t.Errorf("input candidate %d modified", i)
		}
	}

	unseen := ApplyExposurePenalty(cat, top, nil, w)
	if unseen[1].Score <= got[1].Score {
		t.Errorf("exposed item score %f should be below unexposed %f", got[1].Score, unseen[1].Score)
	}
}
