// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package reranking

import (
	"context"
	"math"
	"sort"

	"github.com/tomtom215/pigment/internal/recommend"
)

// maxRerankSize limits slice allocations; k is also bounded by len(items).
const maxRerankSize = 10000

// MMR implements Maximal Marginal Relevance reranking.
// It balances relevance and diversity by iteratively selecting items
// that are both relevant and dissimilar to already selected items.
//
// The MMR formula is:
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max(sim(i, s)) - artist(i)]
//
// Where:
//   - lambda: balance parameter (1.0 = pure relevance, 0.0 = pure diversity)
//   - score(i): exposure-adjusted score for item i
//   - sim(i, s): cosine similarity of the colour feature vectors, floored at 0
//   - artist(i): fixed penalty when a selected item has the same artist
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct {
	lambda        float64
	artistPenalty float64
}

// NewMMR creates a new MMR reranker.
func NewMMR(lambda, artistPenalty float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	if artistPenalty < 0 {
		artistPenalty = 0
	}
	return &MMR{lambda: lambda, artistPenalty: artistPenalty}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank greedily builds a slate of up to k items. Ties on the MMR score go
// to the item that appears first in items. A full slate is never more
// self-similar on average than the top k items by score.
func (m *MMR) Rerank(ctx context.Context, items []recommend.ScoredItem, k int) []recommend.ScoredItem {
	if len(items) == 0 || k <= 0 {
		return nil
	}
	if k > maxRerankSize {
		k = maxRerankSize
	}
	if k > len(items) {
		k = len(items)
	}

	selected := make([]recommend.ScoredItem, 0, k)
	taken := make([]bool, len(items))
	maxSim := make([]float64, len(items)) // max similarity to any selected item
	artistHit := make([]bool, len(items)) // shares an artist with a selected item

	for len(selected) < k {
		if ctx.Err() != nil {
			break
		}

		bestIdx := -1
		bestMMR := math.Inf(-1)
		for i := range items {
			if taken[i] {
				continue
			}
			score := m.lambda*items[i].Score - (1-m.lambda)*maxSim[i]
			if artistHit[i] {
				score -= m.artistPenalty
			}
			if score > bestMMR {
				bestMMR = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}

		chosen := &items[bestIdx]
		taken[bestIdx] = true
		selected = append(selected, *chosen)

		for i := range items {
			if taken[i] {
				continue
			}
			if sim := recommend.Cosine(&items[i].Item.Features, &chosen.Item.Features); sim > maxSim[i] {
				maxSim[i] = sim
			}
			if !artistHit[i] && sameArtist(items[i].Artist, chosen.Artist) {
				artistHit[i] = true
			}
		}
	}

	if len(selected) == k {
		if top := topByScore(items, k); meanPairwiseSimilarity(top) < meanPairwiseSimilarity(selected) {
			return top
		}
	}
	return selected
}

// topByScore returns the k highest-scoring items, ties in input order.
func topByScore(items []recommend.ScoredItem, k int) []recommend.ScoredItem {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return items[order[a]].Score > items[order[b]].Score
	})

	top := make([]recommend.ScoredItem, k)
	for i := range top {
		top[i] = items[order[i]]
	}
	return top
}

// meanPairwiseSimilarity is the average cosine similarity over all pairs.
func meanPairwiseSimilarity(items []recommend.ScoredItem) float64 {
	var sum float64
	var pairs int
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			sum += recommend.Cosine(&items[i].Item.Features, &items[j].Item.Features)
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}

// sameArtist reports whether two parsed artist names identify the same
// artist. Unknown artists never match.
func sameArtist(a, b string) bool {
	if a == "" || b == "" || a == recommend.UnknownArtist || b == recommend.UnknownArtist {
		return false
	}
	return a == b
}

// Ensure MMR implements the interface.
var _ recommend.Reranker = (*MMR)(nil)
