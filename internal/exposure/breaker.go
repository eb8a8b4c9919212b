// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package exposure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/pigment/internal/metrics"
)

// BreakerConfig holds circuit breaker thresholds.
type BreakerConfig struct {
	// MaxRequests allowed through in the half-open state.
	MaxRequests uint32

	// Interval after which closed-state counts reset.
	Interval time.Duration

	// Timeout before an open circuit moves to half-open.
	Timeout time.Duration

	// MinRequests needed before the failure ratio is evaluated.
	MinRequests uint32

	// FailureRatio at or above which the circuit opens.
	FailureRatio float64
}

// DefaultBreakerConfig returns the default thresholds: 3 half-open probes,
// 1 minute window, 30 second recovery timeout, trip at 60% of 10 requests.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerStore wraps a Store with a circuit breaker and operation metrics.
// While the circuit is open calls fail fast with gobreaker.ErrOpenState and
// the engine serves without exposure adjustments.
type BreakerStore struct {
	next    Store
	backend string
	cb      *gobreaker.CircuitBreaker[*State]
	name    string
	logger  zerolog.Logger
}

// NewBreakerStore wraps next. backend labels metrics ("badger", "redis").
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBreakerStore(next Store, backend string, cfg BreakerConfig, logger zerolog.Logger) *BreakerStore {
	name := "exposure-" + backend
	logger = logger.With().Str("breaker", name).Logger()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[*State](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio
			if shouldTrip {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("Circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerStore{next: next, backend: backend, cb: cb, name: name, logger: logger}
}

// Snapshot implements Store.
func (b *BreakerStore) Snapshot(ctx context.Context, userID string, itemIDs []string, since time.Time) (*State, error) {
	start := time.Now()
	state, err := b.execute(func() (*State, error) {
		return b.next.Snapshot(ctx, userID, itemIDs, since)
	})
	metrics.RecordExposureOp(b.backend, "snapshot", time.Since(start), err)
	return state, err
}

// Record implements Store.
func (b *BreakerStore) Record(ctx context.Context, userID string, itemIDs []string, at time.Time) error {
	start := time.Now()
	_, err := b.execute(func() (*State, error) {
		return nil, b.next.Record(ctx, userID, itemIDs, at)
	})
	metrics.RecordExposureOp(b.backend, "record", time.Since(start), err)
	return err
}

// Close implements Store.
func (b *BreakerStore) Close() error {
	return b.next.Close()
}

// Maintain forwards to the wrapped store when it supports maintenance.
// Housekeeping bypasses the breaker so it never counts as a request failure.
func (b *BreakerStore) Maintain(ctx context.Context) error {
	if m, ok := b.next.(Maintainer); ok {
		return m.Maintain(ctx)
	}
	return nil
}

// State returns the current circuit state name.
func (b *BreakerStore) State() string {
	return stateToString(b.cb.State())
}

// execute runs fn under the breaker and updates metrics.
func (b *BreakerStore) execute(fn func() (*State, error)) (*State, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, fmt.Errorf("exposure %s: %w", b.backend, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		counts := b.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return result, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging and metrics
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
