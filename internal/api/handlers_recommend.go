// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pigment/internal/logging"
	"github.com/tomtom215/pigment/internal/recommend"
)

// Recommend handles POST /api/v1/recommendations
//
// The body is either a request object:
//
//	{"colors": [{"bgr": [...], "hsv": [...], "lab": [...], "percentage": 0.3}, ...],
//	 "user_id": "u-1", "k": 10, "seed": 7}
//
// or the bare five-colour array, with user_id, k and seed taken from the
// query string. Every colour needs all three channel triples and a
// percentage. A seed of 0 (or none) draws a fresh seed, which is echoed in
// the slate metadata so the response can be reproduced. The served slate is recorded as exposure for the user once
// the response has been built.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendation engine is not available", ErrEngineUnavailable)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		respondBodyError(w, r, err)
		return
	}

	in, err := decodeRecommendRequest(body, r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, err.Error(), err)
		return
	}

	if apiErr := validateRequest(&in); apiErr != nil {
		respondErrorWithDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}
	req := in.Request()
	req.RequestID = logging.RequestIDFromContext(r.Context())
	logCtx := logging.ContextWithUserID(r.Context(), sanitizeLogValue(req.UserID))

	ctx, cancel := context.WithTimeout(logCtx, h.requestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := h.engine.Recommend(ctx, req)
	if err != nil {
		status, code := errorStatus(err)
		respondError(w, r, status, code, recommendErrorMessage(code), err)
		return
	}

	h.recordServed(logCtx, req.UserID, resp)
	respondSuccess(w, r, resp, time.Since(start))
}

// recordServed stores exposure for the slate. Failures are logged only:
// the slate has already been built and the next request degrades instead.
func (h *Handler) recordServed(ctx context.Context, userID string, resp *recommend.Response) {
	ids := make([]string, len(resp.Items))
	for i := range resp.Items {
		ids[i] = resp.Items[i].ItemID
	}

	if err := h.engine.RecordServed(context.WithoutCancel(ctx), userID, ids); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Int("items", len(ids)).
			Msg("failed to record served slate")
	}
}

// decodeRecommendRequest accepts the request object or the bare signal array.
func decodeRecommendRequest(body []byte, r *http.Request) (recommend.RequestInput, error) {
	var req recommend.RequestInput

	if body[0] == '[' {
		if err := json.Unmarshal(body, &req.Signal); err != nil {
			return req, fmt.Errorf("invalid colors array: %w", err)
		}
		if err := applyQueryParams(&req, r); err != nil {
			return req, err
		}
		return req, nil
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}

// applyQueryParams fills user_id, k and seed from the query string.
func applyQueryParams(req *recommend.RequestInput, r *http.Request) error {
	q := r.URL.Query()
	req.UserID = q.Get("user_id")

	if v := q.Get("k"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid k %q", v)
		}
		req.K = k
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q", v)
		}
		req.Seed = seed
	}
	return nil
}

func recommendErrorMessage(code string) string {
	switch code {
	case ErrCodeBadRequest:
		return "Invalid taste signal"
	case ErrCodeTimeout:
		return "Recommendation timed out"
	case ErrCodeServiceUnavailable:
		return "Recommendation engine is not available"
	default:
		return "Failed to generate recommendations"
	}
}

// GetRecommendationConfig handles GET /api/v1/recommendations/config
// Returns the engine configuration, including all diversity knobs.
func (h *Handler) GetRecommendationConfig(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendation engine is not available", ErrEngineUnavailable)
		return
	}
	respondSuccess(w, r, h.engine.GetConfig(), 0)
}

// GetRecommendationStatus handles GET /api/v1/recommendations/status
// Returns engine counters and catalog size.
func (h *Handler) GetRecommendationStatus(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendation engine is not available", ErrEngineUnavailable)
		return
	}

	cat := h.engine.Catalog()
	respondSuccess(w, r, map[string]interface{}{
		"metrics":        h.engine.GetMetrics(),
		"catalog_items":  cat.Len(),
		"cluster_count":  len(cat.Centers()),
		"exposure_state": h.exposureState(),
	}, 0)
}
