// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package reranking

import (
	"context"
	"math"

	"github.com/tomtom215/pigment/internal/recommend"
)

// quotaEpsilon absorbs float error in maxShare × len before flooring.
const quotaEpsilon = 1e-9

// Quota caps how many slate items may come from one visual cluster.
//
// Items are walked in order and an item is dropped once its cluster already
// holds floor(maxShare × len(items)) entries. Dropped items are not replaced,
// so the slate can shrink; the engine reports the shortfall.
type Quota struct {
	maxShare float64
}

// NewQuota creates a quota reranker allowing at most maxShare of the slate
// per cluster.
func NewQuota(maxShare float64) *Quota {
	if maxShare < 0 {
		maxShare = 0
	}
	if maxShare > 1 {
		maxShare = 1
	}
	return &Quota{maxShare: maxShare}
}

// Name returns the reranker identifier.
func (q *Quota) Name() string {
	return "quota"
}

// Cap returns the per-cluster limit for a slate of n items.
func (q *Quota) Cap(n int) int {
	return int(math.Floor(q.maxShare*float64(n) + quotaEpsilon))
}

// Rerank filters items to the per-cluster cap. k is ignored; the cap is
// derived from the incoming slate.
func (q *Quota) Rerank(_ context.Context, items []recommend.ScoredItem, _ int) []recommend.ScoredItem {
	if len(items) == 0 {
		return nil
	}

	limit := q.Cap(len(items))
	usage := make(map[int]int)
	out := make([]recommend.ScoredItem, 0, len(items))
	for i := range items {
		cluster := items[i].Item.ClusterID
		if usage[cluster] >= limit {
			continue
		}
		usage[cluster]++
		out = append(out, items[i])
	}
	return out
}

// Ensure Quota implements the interface.
var _ recommend.Reranker = (*Quota)(nil)
