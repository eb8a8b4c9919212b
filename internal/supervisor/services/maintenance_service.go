// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pigment/internal/exposure"
)

// defaultMaintenanceInterval applies when no interval is configured.
const defaultMaintenanceInterval = 10 * time.Minute

// MaintenanceService periodically runs exposure store housekeeping, such as
// badger value log GC after cooldown entries expire.
//
// A failed run is logged and retried on the next tick. Only a panic or
// context cancellation ends Serve.
type MaintenanceService struct {
	store    exposure.Maintainer
	interval time.Duration
	logger   zerolog.Logger
	name     string

	// done receives after every run. Optional; used by tests.
	done chan<- error
}

// NewMaintenanceService creates a maintenance service for store.
// A non-positive interval uses 10 minutes.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewMaintenanceService(store exposure.Maintainer, interval time.Duration, logger zerolog.Logger) *MaintenanceService {
	if interval <= 0 {
		interval = defaultMaintenanceInterval
	}
	return &MaintenanceService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "exposure-maintenance").Logger(),
		name:     "exposure-maintenance",
	}
}

// Serve implements suture.Service.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("exposure maintenance running")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("exposure maintenance stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *MaintenanceService) runOnce(ctx context.Context) {
	start := time.Now()
	err := s.store.Maintain(ctx)
	if err != nil && ctx.Err() == nil {
		s.logger.Warn().Err(err).Msg("exposure maintenance failed")
	} else if err == nil {
		s.logger.Debug().Dur("duration", time.Since(start)).Msg("exposure maintenance complete")
	}
	if s.done != nil {
		s.done <- err
	}
}

// String implements fmt.Stringer.
func (s *MaintenanceService) String() string {
	return s.name
}
