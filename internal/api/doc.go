// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

/*
Package api provides the HTTP interface to the recommendation engine.

Routing uses Chi with go-chi/cors and go-chi/httprate. Every response is
wrapped in the same JSON envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "request_id": "..."}}
	{"status": "error", "data": null, "metadata": {...}, "error": {"code": "...", "message": "..."}}

# Endpoints

	POST /api/v1/recommendations          build a slate for a taste signal
	GET  /api/v1/recommendations/config   engine configuration
	GET  /api/v1/recommendations/status   engine counters and catalog size
	GET  /api/v1/health                   overall health
	GET  /api/v1/health/live              liveness probe
	GET  /api/v1/health/ready             readiness probe
	GET  /metrics                         Prometheus metrics (when enabled)

POST /api/v1/recommendations accepts either the bare five-colour array or
an object with colors, user_id, k and seed. The body is validated with the
validation package before the engine runs; failures return 400 with the
VALIDATION_ERROR code and the offending JSON field path.

After a slate is built, the handler records it as served for the user.
Recording failures are logged and do not affect the response.

# Middleware Stack

  - RequestID: X-Request-ID propagation into the logging context
  - RealIP, Recoverer: chi built-ins
  - CORS: global so OPTIONS preflight is handled before routing
  - PrometheusMetrics: per-route request metrics
  - RateLimit: per-IP limit on recommendation routes only
  - Compress: gzip for JSON responses on recommendation routes

# Error Codes

  - VALIDATION_ERROR: request body failed validation
  - INVALID_JSON: body missing or not decodable
  - REQUEST_TOO_LARGE: body over 64 KiB
  - BAD_REQUEST: taste signal rejected by the engine
  - TIMEOUT: pipeline exceeded the request timeout
  - TOO_MANY_REQUESTS: rate limit exceeded
  - SERVICE_UNAVAILABLE: no engine configured
*/
package api
