// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps a thread-safe singleton validator configured with
// WithRequiredStructEnabled, JSON field names, and a custom "finite" tag
// that rejects NaN and infinite floats. Failures convert to the API's
// VALIDATION_ERROR format.
//
// # Quick Start
//
//	var req recommend.RequestInput
//	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	    // handle decode error
//	}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	    return
//	}
//
// # Field Paths
//
// Field() reports the JSON path of the failing value without the root
// struct name, so a bad colour channel is reported as "colors[1].bgr[2]".
//
// # Error Message Translation
//
//	required  -> "colors is required"
//	len=5     -> "colors must contain exactly 5 items"
//	lte=255   -> "colors[1].bgr[2] must be less than or equal to 255"
//	finite    -> "colors[0].lab[1] must be a finite number"
//	max=128   -> "user_id must be at most 128 characters"
//
// Multiple failures are joined with "; " and listed under details.fields.
package validation
