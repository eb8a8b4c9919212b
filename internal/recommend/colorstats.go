// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"math"

	"github.com/tomtom215/pigment/internal/catalog"
)

// ColorStatistics holds weighted per-channel statistics of a taste signal.
type ColorStatistics struct {
	BGRMean [3]float64 `json:"bgr_mean"`
	HSVMean [3]float64 `json:"hsv_mean"`
	LABMean [3]float64 `json:"lab_mean"`
	BGRStd  [3]float64 `json:"bgr_std"`
	HSVStd  [3]float64 `json:"hsv_std"`
	LABStd  [3]float64 `json:"lab_std"`
}

// Vector lays the statistics out in catalog feature order:
// bgr, hsv, lab means followed by bgr, hsv, lab standard deviations.
func (s *ColorStatistics) Vector() catalog.Vector {
	var v catalog.Vector
	copy(v[0:3], s.BGRMean[:])
	copy(v[3:6], s.HSVMean[:])
	copy(v[6:9], s.LABMean[:])
	copy(v[9:12], s.BGRStd[:])
	copy(v[12:15], s.HSVStd[:])
	copy(v[15:18], s.LABStd[:])
	return v
}

// ComputeColorStatistics returns the weighted mean and weighted population
// standard deviation of each colour channel. Weights must sum to a positive
// value; NormalizeSignal guarantees this.
func ComputeColorStatistics(signal TasteSignal) ColorStatistics {
	var means, stds catalog.Palette
	var total float64
	for i := range signal {
		total += signal[i].Weight
	}
	if total <= 0 {
		return ColorStatistics{}
	}

	for i := range signal {
		p := signal[i].Palette()
		for ch := range p {
			means[ch] += signal[i].Weight * p[ch]
		}
	}
	for ch := range means {
		means[ch] /= total
	}

	for i := range signal {
		p := signal[i].Palette()
		for ch := range p {
			d := p[ch] - means[ch]
			stds[ch] += signal[i].Weight * d * d
		}
	}
	for ch := range stds {
		stds[ch] = math.Sqrt(stds[ch] / total)
	}

	var s ColorStatistics
	copy(s.BGRMean[:], means[0:3])
	copy(s.HSVMean[:], means[3:6])
	copy(s.LABMean[:], means[6:9])
	copy(s.BGRStd[:], stds[0:3])
	copy(s.HSVStd[:], stds[3:6])
	copy(s.LABStd[:], stds[6:9])
	return s
}
