// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

/*
Package config provides centralized configuration management for Pigment.

Configuration is layered with Koanf v2: struct defaults, then an optional
YAML file (CONFIG_PATH, ./config.yaml, or /etc/pigment/config.yaml), then
environment variables. Environment variables are mapped explicitly; unknown
variables are ignored.

# Configuration Structure

  - ServerConfig: HTTP listener, timeouts, per-IP rate limit, CORS origins
  - LoggingConfig: zerolog level, format, caller info
  - CatalogConfig: cluster palette and colour data CSV paths
  - RecommendConfig: ranking knobs, slate limits, seed
  - ExposureConfig: memory, badger, or redis exposure store plus breaker thresholds
  - MetricsConfig: Prometheus endpoint

# Environment Variables

Ranking knobs use their bare names:

  - N_CAND (600), N_SAMPLE (60), K_FINAL (12)
  - LAMBDA_MMR (0.8), TEMP_SOFTMAX (0.08)
  - ALPHA_USER (0.03), BETA_STABILITY (0.05), GAMMA_POP (0.02)
  - QUOTA_MAX (0.4), COOLDOWN_DAYS (14), ARTIST_PENALTY (0.05)
  - NUM_RECOMMENDATIONS (10), MAX_RECOMMENDATIONS (50)

Exposure store:

  - EXPOSURE_BACKEND: memory | badger | redis
  - EXPOSURE_BADGER_PATH, REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
  - EXPOSURE_GC_INTERVAL (10m): badger value-log GC period, 0 disables

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	engineCfg := cfg.ToEngineConfig()
	storeCfg := cfg.ToExposureConfig()

# Thread Safety

Config is immutable after Load() and safe for concurrent reads.
*/
package config
