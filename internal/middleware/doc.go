// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: assigns or propagates X-Request-ID and stores it in the
    logging context
  - PrometheusMetrics: request count, latency, and in-flight gauge labelled
    by chi route pattern

Both are plain func(http.Handler) http.Handler and plug into chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics reads the route pattern after the handler runs, so it must
be installed on the router (or a sub-router) rather than wrapped around it.
*/
package middleware
