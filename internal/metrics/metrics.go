// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for production observability:
// - API endpoint latency and throughput
// - Recommendation pipeline stage sizes and timings
// - Exposure store operations
// - Circuit breaker state

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Recommendation Pipeline Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"outcome"}, // "success", "invalid", "error"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "End-to-end recommendation pipeline duration in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	RecommendStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"stage"},
	)

	RecommendSlateSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_slate_size",
			Help:    "Number of items in served slates",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		},
	)

	RecommendQuotaDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_quota_dropped_total",
			Help: "Total number of items dropped by cluster quotas",
		},
	)

	RecommendBackfilled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_backfilled_total",
			Help: "Total number of candidates pulled in by cooldown backfill",
		},
	)

	RecommendShortfall = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_shortfall_total",
			Help: "Total number of slate slots left unfilled",
		},
	)

	// Exposure Store Metrics
	ExposureOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exposure_operations_total",
			Help: "Total number of exposure store operations",
		},
		[]string{"backend", "operation", "result"}, // result: "success", "error"
	)

	ExposureDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "exposure_operation_duration_seconds",
			Help:    "Duration of exposure store operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"backend", "operation"},
	)

	ExposureDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "exposure_degraded_total",
			Help: "Requests served without exposure state after a store failure",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records the outcome of one pipeline run.
func RecordRecommendation(outcome string, duration time.Duration) {
	RecommendRequests.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		RecommendDuration.Observe(duration.Seconds())
	}
}

// RecordStage records the duration of one pipeline stage.
func RecordStage(stage string, duration time.Duration) {
	RecommendStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordSlate records size-related counters for a served slate.
func RecordSlate(size, quotaDropped, backfilled, shortfall int) {
	RecommendSlateSize.Observe(float64(size))
	RecommendQuotaDropped.Add(float64(quotaDropped))
	RecommendBackfilled.Add(float64(backfilled))
	RecommendShortfall.Add(float64(shortfall))
}

// RecordExposureOp records an exposure store operation.
func RecordExposureOp(backend, operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ExposureOperations.WithLabelValues(backend, operation, result).Inc()
	ExposureDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}
