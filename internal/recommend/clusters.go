// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/pigment/internal/catalog"
)

// ClusterWeight is the share of a taste signal assigned to one cluster.
type ClusterWeight struct {
	ClusterID int     `json:"cluster_id"`
	Weight    float64 `json:"weight"`
}

// ClusterWeights is a normalised distribution over clusters, ordered by
// weight descending. Equal weights keep first-assignment order.
type ClusterWeights []ClusterWeight

// AssignClusters maps each colour of the signal to its nearest cluster center
// (Euclidean distance over bgr, hsv, lab) and returns the aggregated,
// normalised weight per cluster. Distance ties go to the earlier center.
func AssignClusters(signal TasteSignal, centers []catalog.ClusterCenter) (ClusterWeights, error) {
	if len(signal) != SignalSize {
		return nil, fmt.Errorf("%w: expected %d colors, got %d", ErrInvalidSignal, SignalSize, len(signal))
	}
	if len(centers) == 0 {
		return nil, catalog.ErrNoClusters
	}

	var weights ClusterWeights
	pos := make(map[int]int)
	var total float64

	for i := range signal {
		p := signal[i].Palette()
		nearest := 0
		best := math.Inf(1)
		for j := range centers {
			if d := squaredDistance(&p, &centers[j].Feature); d < best {
				best = d
				nearest = j
			}
		}

		id := centers[nearest].ClusterID
		idx, ok := pos[id]
		if !ok {
			idx = len(weights)
			pos[id] = idx
			weights = append(weights, ClusterWeight{ClusterID: id})
		}
		weights[idx].Weight += signal[i].Weight
		total += signal[i].Weight
	}

	if total <= 0 {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrInvalidSignal)
	}
	for i := range weights {
		weights[i].Weight /= total
	}

	sort.SliceStable(weights, func(i, j int) bool {
		return weights[i].Weight > weights[j].Weight
	})
	return weights, nil
}

// Percentages returns the distribution as a cluster ID to weight map.
func (w ClusterWeights) Percentages() map[int]float64 {
	out := make(map[int]float64, len(w))
	for _, cw := range w {
		out[cw.ClusterID] = cw.Weight
	}
	return out
}

// Headcount allocates total slate slots across the clusters in proportion to
// their weight. Every cluster but the last receives max(1, round(w*total));
// the last receives what remains (at least 1). A deficit goes to the largest
// allocation; a surplus is removed from the largest allocations without
// taking any cluster below 1, so the sum is exactly total.
//
// Clusters with zero weight get no slots. When there are more weighted
// clusters than slots, the heaviest total clusters get one slot each and the
// rest get none.
func (w ClusterWeights) Headcount(total int) map[int]int {
	out := make(map[int]int, len(w))
	w = w.Keep(func(int) bool { return true })
	if total <= 0 || len(w) == 0 {
		return out
	}

	if len(w) > total {
		for i, cw := range w {
			if i < total {
				out[cw.ClusterID] = 1
			} else {
				out[cw.ClusterID] = 0
			}
		}
		return out
	}

	remaining := total
	for _, cw := range w[:len(w)-1] {
		n := int(math.RoundToEven(cw.Weight * float64(total)))
		if n < 1 {
			n = 1
		}
		out[cw.ClusterID] = n
		remaining -= n
	}
	last := w[len(w)-1].ClusterID
	out[last] = max(1, remaining)

	assigned := 0
	for _, n := range out {
		assigned += n
	}
	if assigned < total {
		out[largestAllocation(w, out, 0)] += total - assigned
	}
	// Surplus from the minimums is taken one slot at a time from the largest
	// allocation above 1; len(w) <= total guarantees this terminates.
	for ; assigned > total; assigned-- {
		out[largestAllocation(w, out, 1)]--
	}

	return out
}

// largestAllocation returns the cluster with the most slots above floor,
// preferring heavier clusters on ties.
func largestAllocation(w ClusterWeights, out map[int]int, floor int) int {
	best := w[0].ClusterID
	for _, cw := range w[1:] {
		if out[cw.ClusterID] > out[best] {
			best = cw.ClusterID
		}
	}
	if out[best] <= floor {
		return w[0].ClusterID
	}
	return best
}

// Keep returns the distribution restricted to weighted clusters for which
// keep returns true, renormalised to sum to 1. The result is empty when nothing
// is kept.
func (w ClusterWeights) Keep(keep func(clusterID int) bool) ClusterWeights {
	var out ClusterWeights
	var total float64
	for _, cw := range w {
		if cw.Weight > 0 && keep(cw.ClusterID) {
			out = append(out, cw)
			total += cw.Weight
		}
	}
	if total <= 0 {
		return nil
	}
	for i := range out {
		out[i].Weight /= total
	}
	return out
}
