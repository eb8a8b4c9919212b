// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"sort"

	"github.com/tomtom215/pigment/internal/catalog"
)

// GenerateCandidates scores every catalog item by cosine similarity to the
// query vector and ranks them descending, ties in catalog order.
//
// top holds the first min(nCand, catalog size) entries; tail holds the rest
// of the ranking, which CooldownFilter walks when it needs to backfill.
// Each candidate's Score starts equal to its Similarity.
func GenerateCandidates(cat *catalog.Catalog, query *catalog.Vector, nCand int) (top, tail []Candidate) {
	n := cat.Len()
	ranked := make([]Candidate, n)
	for i := 0; i < n; i++ {
		sim := Cosine(query, &cat.At(i).Features)
		ranked[i] = Candidate{Row: i, Similarity: sim, Score: sim}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	if nCand < 0 {
		nCand = 0
	}
	if nCand > n {
		nCand = n
	}
	return ranked[:nCand:nCand], ranked[nCand:]
}
