// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto at
package initialisation, so importing the package is enough to expose them.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: Requests in flight (gauge)

Recommendation Metrics:
  - recommend_requests_total: Pipeline runs by outcome (counter)
  - recommend_duration_seconds: End-to-end pipeline latency (histogram)
  - recommend_stage_duration_seconds: Per-stage latency (histogram)
    Labels: stage
  - recommend_slate_size: Served slate sizes (histogram)
  - recommend_quota_dropped_total: Items dropped by cluster quotas (counter)
  - recommend_backfilled_total: Candidates added by cooldown backfill (counter)
  - recommend_shortfall_total: Unfilled slate slots (counter)

Exposure Store Metrics:
  - exposure_operations_total: Store calls (counter)
    Labels: backend, operation, result
  - exposure_operation_duration_seconds: Store latency (histogram)
  - exposure_degraded_total: Requests served without exposure state (counter)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Requests by result (counter)
  - circuit_breaker_consecutive_failures: Current failure streak (gauge)
  - circuit_breaker_state_transitions_total: State changes (counter)
*/
package metrics
