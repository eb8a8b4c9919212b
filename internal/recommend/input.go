// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

// ColorInput is the wire form of a Color. Channels are slices and the
// percentage is a pointer so that an absent field fails validation
// instead of decoding as zero.
type ColorInput struct {
	BGR    []float64 `json:"bgr" validate:"required,len=3,dive,finite,gte=0,lte=255"`
	HSV    []float64 `json:"hsv" validate:"required,len=3,dive,finite"`
	LAB    []float64 `json:"lab" validate:"required,len=3,dive,finite"`
	Weight *float64  `json:"percentage" validate:"required,finite,gte=0"`
}

// Color converts a validated input. Missing values convert to zero.
func (c *ColorInput) Color() Color {
	var out Color
	copy(out.BGR[:], c.BGR)
	copy(out.HSV[:], c.HSV)
	copy(out.LAB[:], c.LAB)
	if c.Weight != nil {
		out.Weight = *c.Weight
	}
	return out
}

// RequestInput is the wire form of a Request, as posted to the API or
// passed to the command line. Validate it before calling Request.
type RequestInput struct {
	Signal []ColorInput `json:"colors" validate:"required,len=5,dive"`

	// UserID scopes exposure state. Empty means anonymous.
	UserID string `json:"user_id,omitempty" validate:"omitempty,max=128"`

	// K overrides the number of results returned. Zero uses the default.
	K int `json:"k,omitempty" validate:"omitempty,gte=1,lte=100"`

	// Seed fixes the sampling randomness. Zero is not a seed: it asks for
	// a fresh one, reported back in the response metadata.
	Seed int64 `json:"seed,omitempty"`
}

// Request converts the input into an engine request.
func (in *RequestInput) Request() Request {
	signal := make(TasteSignal, len(in.Signal))
	for i := range in.Signal {
		signal[i] = in.Signal[i].Color()
	}
	return Request{
		Signal: signal,
		UserID: in.UserID,
		K:      in.K,
		Seed:   in.Seed,
	}
}
