// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/pigment/internal/exposure"
	"github.com/tomtom215/pigment/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/pigment/config.yaml",
	"/etc/pigment/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	engine := recommend.DefaultConfig()
	breaker := exposure.DefaultBreakerConfig()

	return &Config{
		Server: ServerConfig{
			Port:              8050,
			Host:              "0.0.0.0",
			Timeout:           30 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			PalettesPath: "/data/cluster_palettes.csv",
			ItemsPath:    "/data/colour_data_with_clusters.csv",
		},
		Recommend: RecommendConfig{
			NCand:              engine.Diversity.NCand,
			NSample:            engine.Diversity.NSample,
			KFinal:             engine.Diversity.KFinal,
			LambdaMMR:          engine.Diversity.LambdaMMR,
			TempSoftmax:        engine.Diversity.TempSoftmax,
			AlphaUser:          engine.Diversity.AlphaUser,
			BetaStability:      engine.Diversity.BetaStability,
			GammaPop:           engine.Diversity.GammaPop,
			QuotaMax:           engine.Diversity.QuotaMax,
			CooldownDays:       engine.Diversity.CooldownDays,
			ArtistPenalty:      engine.Diversity.ArtistPenalty,
			BackfillMultiplier: engine.Diversity.BackfillMultiplier,
			DefaultK:           engine.Limits.DefaultK,
			MaxK:               engine.Limits.MaxK,
			ExposureTimeout:    engine.Limits.ExposureTimeout,
			Seed:               engine.Seed,
		},
		Exposure: ExposureConfig{
			Backend:        exposure.BackendMemory,
			BadgerPath:     "/data/exposure",
			RedisAddr:      "localhost:6379",
			RedisKeyPrefix: exposure.DefaultKeyPrefix,
			SeenTTL:        30 * 24 * time.Hour,
			GCInterval:     10 * time.Minute,
			Breaker: BreakerConfig{
				MaxRequests:  breaker.MaxRequests,
				Interval:     breaker.Interval,
				Timeout:      breaker.Timeout,
				MinRequests:  breaker.MinRequests,
				FailureRatio: breaker.FailureRatio,
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// N_CAND -> recommend.n_cand, EXPOSURE_BACKEND -> exposure.backend
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":           "server.port",
	"http_host":           "server.host",
	"http_timeout":        "server.timeout",
	"shutdown_timeout":    "server.shutdown_timeout",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",
	"cors_origins":        "server.cors_origins",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog mappings
	"cluster_palettes_path": "catalog.palettes_path",
	"colour_data_path":      "catalog.items_path",

	// Ranking knobs keep their bare names
	"n_cand":              "recommend.n_cand",
	"n_sample":            "recommend.n_sample",
	"k_final":             "recommend.k_final",
	"lambda_mmr":          "recommend.lambda_mmr",
	"temp_softmax":        "recommend.temp_softmax",
	"alpha_user":          "recommend.alpha_user",
	"beta_stability":      "recommend.beta_stability",
	"gamma_pop":           "recommend.gamma_pop",
	"quota_max":           "recommend.quota_max",
	"cooldown_days":       "recommend.cooldown_days",
	"artist_penalty":      "recommend.artist_penalty",
	"backfill_multiplier": "recommend.backfill_multiplier",
	"num_recommendations": "recommend.default_k",
	"max_recommendations": "recommend.max_k",
	"exposure_timeout":    "recommend.exposure_timeout",
	"recommend_seed":      "recommend.seed",

	// Exposure store mappings
	"exposure_backend":               "exposure.backend",
	"exposure_badger_path":           "exposure.badger_path",
	"exposure_seen_ttl":              "exposure.seen_ttl",
	"exposure_gc_interval":           "exposure.gc_interval",
	"redis_addr":                     "exposure.redis_addr",
	"redis_password":                 "exposure.redis_password",
	"redis_db":                       "exposure.redis_db",
	"redis_key_prefix":               "exposure.redis_key_prefix",
	"exposure_breaker_max_requests":  "exposure.breaker.max_requests",
	"exposure_breaker_interval":      "exposure.breaker.interval",
	"exposure_breaker_timeout":       "exposure.breaker.timeout",
	"exposure_breaker_min_requests":  "exposure.breaker.min_requests",
	"exposure_breaker_failure_ratio": "exposure.breaker.failure_ratio",

	// Metrics mappings
	"metrics_enabled": "metrics.enabled",
	"metrics_path":    "metrics.path",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - N_CAND -> recommend.n_cand
//   - HTTP_PORT -> server.port
//   - REDIS_ADDR -> exposure.redis_addr
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
