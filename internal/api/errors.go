// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/pigment/internal/recommend"
)

// Common API errors
var (
	// ErrEmptyBody indicates a POST without a request body
	ErrEmptyBody = errors.New("request body is empty")

	// ErrEngineUnavailable indicates the handler was built without an engine
	ErrEngineUnavailable = errors.New("recommendation engine is not available")
)

// errorStatus maps a pipeline error to an HTTP status and API error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrInvalidSignal):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout
	case errors.Is(err, context.Canceled):
		// 499: client closed the request.
		return 499, ErrCodeTimeout
	case errors.Is(err, ErrEngineUnavailable):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeRecommendation
	}
}
