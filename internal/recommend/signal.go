// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"fmt"
	"math"
)

// weightTolerance is how far weights may drift from 1 before renormalising.
const weightTolerance = 1e-9

// NormalizeSignal validates a taste signal and returns a copy whose weights
// sum to 1. The input is not modified.
func NormalizeSignal(signal TasteSignal) (TasteSignal, error) {
	if len(signal) != SignalSize {
		return nil, fmt.Errorf("%w: expected %d colors, got %d", ErrInvalidSignal, SignalSize, len(signal))
	}

	var sum float64
	for i := range signal {
		c := &signal[i]
		p := c.Palette()
		for ch, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: color %d channel %d is not finite", ErrInvalidSignal, i, ch)
			}
		}
		for ch, v := range c.BGR {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("%w: color %d bgr[%d]=%g outside [0, 255]", ErrInvalidSignal, i, ch, v)
			}
		}
		if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) || c.Weight < 0 {
			return nil, fmt.Errorf("%w: color %d weight %g must be a non-negative number", ErrInvalidSignal, i, c.Weight)
		}
		sum += c.Weight
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrInvalidSignal)
	}

	out := make(TasteSignal, len(signal))
	copy(out, signal)
	if math.Abs(sum-1) > weightTolerance {
		for i := range out {
			out[i].Weight /= sum
		}
	}
	return out, nil
}
