// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package exposure

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config selects and configures an exposure backend.
type Config struct {
	// Backend is "memory", "badger" or "redis".
	Backend string

	// BadgerPath is the database directory (required when Backend is badger).
	BadgerPath string

	// Redis holds connection settings (required when Backend is redis).
	Redis RedisOptions

	// SeenTTL bounds how long last-seen entries are retained.
	SeenTTL time.Duration

	// Breaker configures the circuit breaker placed around persistent backends.
	Breaker BreakerConfig
}

// New creates the configured Store. Persistent backends are wrapped in a
// BreakerStore; the memory backend cannot fail and is returned as is.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg *Config, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "exposure").Str("backend", cfg.Backend).Logger()

	switch cfg.Backend {
	case BackendMemory, "":
		logger.Info().Msg("Using in-memory exposure store")
		return NewMemoryStore(), nil

	case BackendBadger:
		if cfg.BadgerPath == "" {
			return nil, fmt.Errorf("exposure: badger path is required")
		}
		store, err := OpenBadgerStore(cfg.BadgerPath, cfg.SeenTTL)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.BadgerPath).Msg("Using badger exposure store")
		return NewBreakerStore(store, BackendBadger, cfg.Breaker, logger), nil

	case BackendRedis:
		opts := cfg.Redis
		if opts.SeenTTL == 0 {
			opts.SeenTTL = cfg.SeenTTL
		}
		client, err := NewRedisClient(opts)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("addr", opts.Addr).Msg("Using redis exposure store")
		return NewBreakerStore(NewRedisStore(client, opts), BackendRedis, cfg.Breaker, logger), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
