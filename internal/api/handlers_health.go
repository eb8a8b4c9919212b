// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package api

import (
	"net/http"
	"time"
)

// breakerState is implemented by exposure stores that sit behind a circuit breaker.
type breakerState interface {
	State() string
}

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	CatalogItems  int     `json:"catalog_items"`
	ExposureState string  `json:"exposure_state"`
	Uptime        float64 `json:"uptime"`
}

// exposureState reports "memory" for unguarded stores, otherwise the
// breaker state ("closed", "half-open", "open").
func (h *Handler) exposureState() string {
	if bs, ok := h.store.(breakerState); ok {
		return bs.State()
	}
	if h.store == nil {
		return "none"
	}
	return "memory"
}

// Health handles GET /api/v1/health
//
// The service is "degraded" while the exposure breaker is open: slates are
// still served, without exposure adjustments.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	items := 0
	if h.engine == nil {
		status = "unhealthy"
	} else {
		items = h.engine.Catalog().Len()
	}

	exposureState := h.exposureState()
	if status == "healthy" && exposureState == "open" {
		status = "degraded"
	}

	respondSuccess(w, r, HealthStatus{
		Status:        status,
		Version:       h.version,
		CatalogItems:  items,
		ExposureState: exposureState,
		Uptime:        time.Since(h.startTime).Seconds(),
	}, 0)
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, 0)
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK once the catalog is loaded and the engine can serve.
// An open exposure breaker does not make the service unready.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.engine != nil && h.engine.Catalog().Len() > 0

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, r, statusCode, &APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"catalog_loaded": ready,
			"exposure_state": h.exposureState(),
			"ready_to_serve": ready,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
	})
}
