// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package catalog

// stabilityScale stretches the variance so scores spread over a useful range.
const stabilityScale = 10.0

// NeutralStability is used for items without a precomputed score.
const NeutralStability = 0.5

// channel normalisation per colour space, applied to means and spreads alike.
var (
	bgrRange = [2]float64{0, 255}
	hsvRange = [2]float64{0, 360}
	labRange = [2]float64{-100, 100}
)

// StabilityScore measures how close a feature vector sits to the centre of
// the normalised feature space. Each channel is mapped to [0, 1] by its colour
// space range; the score is 1/(1 + 10*var(x - 0.5)) and lies in (0, 1].
//
// Items with a balanced, central colour profile score higher and are treated
// as broadly appealing "safe hits" by the exposure penalty.
func StabilityScore(v *Vector) float64 {
	var norm [FeatureDims]float64
	for i, x := range v {
		norm[i] = normalizeChannel(i%PaletteDims, x) - 0.5
	}

	var mean float64
	for _, x := range norm {
		mean += x
	}
	mean /= FeatureDims

	var variance float64
	for _, x := range norm {
		d := x - mean
		variance += d * d
	}
	variance /= FeatureDims

	return 1.0 / (1.0 + variance*stabilityScale)
}

// normalizeChannel maps a raw value of palette channel ch to [0, 1].
func normalizeChannel(ch int, x float64) float64 {
	var r [2]float64
	switch ch / 3 {
	case 0:
		r = bgrRange
	case 1:
		r = hsvRange
	default:
		r = labRange
	}
	return (x - r[0]) / (r[1] - r[0])
}
