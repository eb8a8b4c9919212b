// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package config

import (
	"time"

	"github.com/tomtom215/pigment/internal/exposure"
	"github.com/tomtom215/pigment/internal/recommend"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Serving:
//     - Server: HTTP listener, timeouts, rate limiting, CORS
//     - Metrics: Prometheus endpoint
//
//  2. Data:
//     - Catalog: Reference CSV files loaded at startup
//     - Exposure: Where shown/seen counters are kept
//
//  3. Ranking:
//     - Recommend: Candidate pool sizes, penalties, diversity, limits
//
//  4. Observability:
//     - Logging: Log levels and output formats
//
// Example - Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	engine, err := recommend.NewEngine(cfg.ToEngineConfig(), cat, store, logger)
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from multiple goroutines.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Exposure  ExposureConfig  `koanf:"exposure"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT
//   - SHUTDOWN_TIMEOUT: Grace period for in-flight requests (default: 15s)
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: Per-IP limit (default: 100 per minute)
//   - DISABLE_RATE_LIMIT: Turn rate limiting off (default: false)
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// CatalogConfig locates the reference data files.
type CatalogConfig struct {
	// PalettesPath is the cluster palette CSV (one row per cluster center).
	PalettesPath string `koanf:"palettes_path"`

	// ItemsPath is the colour data CSV with a cluster_id per painting.
	ItemsPath string `koanf:"items_path"`
}

// RecommendConfig mirrors recommend.Config in a flat, env-friendly shape.
//
// Environment Variables use the knob names directly: N_CAND, N_SAMPLE,
// K_FINAL, LAMBDA_MMR, TEMP_SOFTMAX, ALPHA_USER, BETA_STABILITY, GAMMA_POP,
// QUOTA_MAX, COOLDOWN_DAYS, ARTIST_PENALTY.
type RecommendConfig struct {
	NCand              int     `koanf:"n_cand"`
	NSample            int     `koanf:"n_sample"`
	KFinal             int     `koanf:"k_final"`
	LambdaMMR          float64 `koanf:"lambda_mmr"`
	TempSoftmax        float64 `koanf:"temp_softmax"`
	AlphaUser          float64 `koanf:"alpha_user"`
	BetaStability      float64 `koanf:"beta_stability"`
	GammaPop           float64 `koanf:"gamma_pop"`
	QuotaMax           float64 `koanf:"quota_max"`
	CooldownDays       int     `koanf:"cooldown_days"`
	ArtistPenalty      float64 `koanf:"artist_penalty"`
	BackfillMultiplier float64 `koanf:"backfill_multiplier"`

	DefaultK        int           `koanf:"default_k"`
	MaxK            int           `koanf:"max_k"`
	ExposureTimeout time.Duration `koanf:"exposure_timeout"`

	// Seed seeds per-request seeds. Requests may still pass their own.
	Seed int64 `koanf:"seed"`
}

// ExposureConfig selects the exposure store backend.
//
// Environment Variables:
//   - EXPOSURE_BACKEND: memory, badger, or redis (default: memory)
//   - EXPOSURE_BADGER_PATH: Badger directory (default: /data/exposure)
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_KEY_PREFIX
//   - EXPOSURE_SEEN_TTL: Retention of last-seen entries (default: 30 days)
//   - EXPOSURE_GC_INTERVAL: Badger value log GC period, 0 disables (default: 10m)
type ExposureConfig struct {
	Backend    string `koanf:"backend"`
	BadgerPath string `koanf:"badger_path"`

	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`

	SeenTTL    time.Duration `koanf:"seen_ttl"`
	GCInterval time.Duration `koanf:"gc_interval"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig holds circuit breaker thresholds for persistent backends.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Load reads configuration from all sources with the following precedence
// (highest to lowest):
//  1. Environment variables
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Built-in defaults
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// ToEngineConfig projects the recommend section onto recommend.Config.
func (c *Config) ToEngineConfig() *recommend.Config {
	r := &c.Recommend
	return &recommend.Config{
		Diversity: recommend.DiversityConfig{
			NCand:              r.NCand,
			NSample:            r.NSample,
			KFinal:             r.KFinal,
			LambdaMMR:          r.LambdaMMR,
			TempSoftmax:        r.TempSoftmax,
			AlphaUser:          r.AlphaUser,
			BetaStability:      r.BetaStability,
			GammaPop:           r.GammaPop,
			QuotaMax:           r.QuotaMax,
			CooldownDays:       r.CooldownDays,
			ArtistPenalty:      r.ArtistPenalty,
			BackfillMultiplier: r.BackfillMultiplier,
		},
		Limits: recommend.LimitsConfig{
			DefaultK:        r.DefaultK,
			MaxK:            r.MaxK,
			ExposureTimeout: r.ExposureTimeout,
		},
		Seed: r.Seed,
	}
}

// ToExposureConfig projects the exposure section onto exposure.Config.
func (c *Config) ToExposureConfig() *exposure.Config {
	e := &c.Exposure
	return &exposure.Config{
		Backend:    e.Backend,
		BadgerPath: e.BadgerPath,
		Redis: exposure.RedisOptions{
			Addr:      e.RedisAddr,
			Password:  e.RedisPassword,
			DB:        e.RedisDB,
			KeyPrefix: e.RedisKeyPrefix,
			SeenTTL:   e.SeenTTL,
		},
		SeenTTL: e.SeenTTL,
		Breaker: exposure.BreakerConfig{
			MaxRequests:  e.Breaker.MaxRequests,
			Interval:     e.Breaker.Interval,
			Timeout:      e.Breaker.Timeout,
			MinRequests:  e.Breaker.MinRequests,
			FailureRatio: e.Breaker.FailureRatio,
		},
	}
}
