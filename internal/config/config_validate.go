// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/tomtom215/pigment/internal/exposure"
	"github.com/tomtom215/pigment/internal/logging"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	if err := c.validateExposure(); err != nil {
		return err
	}

	if err := c.validateMetrics(); err != nil {
		return err
	}

	if err := c.ToEngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must not be negative")
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1 when rate limiting is enabled")
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
		}
	}
	return nil
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateCatalog validates reference data locations
func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.PalettesPath) == "" {
		return fmt.Errorf("CLUSTER_PALETTES_PATH is required")
	}
	if strings.TrimSpace(c.Catalog.ItemsPath) == "" {
		return fmt.Errorf("COLOUR_DATA_PATH is required")
	}
	return nil
}

// validateExposure validates the exposure backend selection
func (c *Config) validateExposure() error {
	e := &c.Exposure
	switch e.Backend {
	case exposure.BackendMemory:
	case exposure.BackendBadger:
		if e.BadgerPath == "" {
			return fmt.Errorf("EXPOSURE_BADGER_PATH is required when EXPOSURE_BACKEND=badger")
		}
	case exposure.BackendRedis:
		if e.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when EXPOSURE_BACKEND=redis")
		}
		if _, _, err := net.SplitHostPort(e.RedisAddr); err != nil {
			return fmt.Errorf("REDIS_ADDR must be host:port: %w", err)
		}
		if e.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB must not be negative")
		}
	default:
		return fmt.Errorf("EXPOSURE_BACKEND must be one of: memory, badger, redis (got %q)", e.Backend)
	}

	if e.SeenTTL < 0 {
		return fmt.Errorf("EXPOSURE_SEEN_TTL must not be negative")
	}
	if cooldown := c.ToEngineConfig().Diversity.CooldownWindow(); e.SeenTTL > 0 && e.SeenTTL < cooldown {
		return fmt.Errorf("EXPOSURE_SEEN_TTL (%v) must cover the cooldown window (%v)", e.SeenTTL, cooldown)
	}
	if e.GCInterval < 0 {
		return fmt.Errorf("EXPOSURE_GC_INTERVAL must not be negative")
	}
	if e.Breaker.FailureRatio <= 0 || e.Breaker.FailureRatio > 1 {
		return fmt.Errorf("EXPOSURE_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if e.Breaker.Timeout <= 0 {
		return fmt.Errorf("EXPOSURE_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

// validateMetrics validates the metrics endpoint
func (c *Config) validateMetrics() error {
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("METRICS_PATH must start with /")
	}
	return nil
}
