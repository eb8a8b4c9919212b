// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package api

import (
	"time"

	"github.com/tomtom215/pigment/internal/exposure"
	"github.com/tomtom215/pigment/internal/recommend"
)

// defaultRequestTimeout bounds one pipeline run when no timeout is configured.
const defaultRequestTimeout = 10 * time.Second

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: JSON envelope, body reading, validation helpers
//   - handlers_health.go: Liveness, readiness, and status endpoints
//   - handlers_recommend.go: Recommendation endpoints
type Handler struct {
	engine         *recommend.Engine
	store          exposure.Store
	startTime      time.Time
	version        string
	requestTimeout time.Duration
}

// HandlerOptions configures optional Handler behaviour.
type HandlerOptions struct {
	// Version is reported by the health endpoint.
	Version string

	// RequestTimeout bounds each recommendation request. Zero uses 10s.
	RequestTimeout time.Duration
}

// NewHandler creates a new API handler.
//
// The store is the same exposure store the engine was built with; the
// handler only inspects it for health reporting.
//
// Example:
//
//	handler := api.NewHandler(engine, store, api.HandlerOptions{Version: version})
//	router := api.NewRouter(handler, chiMw, api.RouterOptions{MetricsEnabled: true})
//	srv := &http.Server{Handler: router.SetupChi()}
func NewHandler(engine *recommend.Engine, store exposure.Store, opts HandlerOptions) *Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	return &Handler{
		engine:         engine,
		store:          store,
		startTime:      time.Now(),
		version:        opts.Version,
		requestTimeout: opts.RequestTimeout,
	}
}
