// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
// A Config is treated as immutable once passed to NewEngine.
type Config struct {
	// Diversity contains the ranking and diversification parameters.
	Diversity DiversityConfig `json:"diversity"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Seed seeds the engine's source of per-request seeds.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// DiversityConfig contains parameters for candidate retrieval, exposure
// penalties, sampling, and diversity reranking.
type DiversityConfig struct {
	// NCand is the candidate pool size from the initial similarity scan.
	NCand int `json:"n_cand"`

	// NSample is the size of the softmax-sampled exploration subset.
	NSample int `json:"n_sample"`

	// KFinal is the target slate size before quota enforcement.
	KFinal int `json:"k_final"`

	// LambdaMMR balances relevance vs. diversity in MMR (1.0 = pure relevance).
	LambdaMMR float64 `json:"lambda_mmr"`

	// TempSoftmax is the sampling temperature (lower = closer to greedy).
	TempSoftmax float64 `json:"temp_softmax"`

	// AlphaUser weights the per-user fatigue penalty.
	AlphaUser float64 `json:"alpha_user"`

	// BetaStability weights the instability penalty.
	BetaStability float64 `json:"beta_stability"`

	// GammaPop weights the global popularity penalty.
	GammaPop float64 `json:"gamma_pop"`

	// QuotaMax is the maximum fraction of the slate any one cluster may occupy.
	QuotaMax float64 `json:"quota_max"`

	// CooldownDays is the window defining recently seen items.
	CooldownDays int `json:"cooldown_days"`

	// ArtistPenalty is the fixed MMR penalty for repeating an artist.
	ArtistPenalty float64 `json:"artist_penalty"`

	// BackfillMultiplier scales the score of items pulled in by backfill.
	BackfillMultiplier float64 `json:"backfill_multiplier"`
}

// CooldownWindow returns the recently-seen window as a duration.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (d DiversityConfig) CooldownWindow() time.Duration {
	return time.Duration(d.CooldownDays) * 24 * time.Hour
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the number of recommendations returned when a request
	// does not ask for a size.
	DefaultK int `json:"default_k"`

	// MaxK is the maximum number of recommendations per request.
	MaxK int `json:"max_k"`

	// ExposureTimeout bounds each exposure store call.
	ExposureTimeout time.Duration `json:"exposure_timeout"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Diversity: DiversityConfig{
			NCand:              600,
			NSample:            60,
			KFinal:             12,
			LambdaMMR:          0.8,
			TempSoftmax:        0.08,
			AlphaUser:          0.03,
			BetaStability:      0.05,
			GammaPop:           0.02,
			QuotaMax:           0.4,
			CooldownDays:       14,
			ArtistPenalty:      0.05,
			BackfillMultiplier: 0.8,
		},
		Limits: LimitsConfig{
			DefaultK:        10,
			MaxK:            50,
			ExposureTimeout: 500 * time.Millisecond,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	d := &c.Diversity
	if d.NCand < 1 {
		return fmt.Errorf("diversity.n_cand must be positive, got %d", d.NCand)
	}
	if d.NSample < 1 {
		return fmt.Errorf("diversity.n_sample must be positive, got %d", d.NSample)
	}
	if d.KFinal < 1 {
		return fmt.Errorf("diversity.k_final must be positive, got %d", d.KFinal)
	}
	if d.LambdaMMR < 0 || d.LambdaMMR > 1 {
		return fmt.Errorf("diversity.lambda_mmr must be in [0, 1], got %f", d.LambdaMMR)
	}
	if d.TempSoftmax <= 0 {
		return fmt.Errorf("diversity.temp_softmax must be positive, got %f", d.TempSoftmax)
	}
	if d.AlphaUser < 0 || d.BetaStability < 0 || d.GammaPop < 0 {
		return fmt.Errorf("diversity penalty weights must be non-negative, got alpha=%f beta=%f gamma=%f",
			d.AlphaUser, d.BetaStability, d.GammaPop)
	}
	if d.QuotaMax <= 0 || d.QuotaMax > 1 {
		return fmt.Errorf("diversity.quota_max must be in (0, 1], got %f", d.QuotaMax)
	}
	if d.CooldownDays < 0 {
		return fmt.Errorf("diversity.cooldown_days must be non-negative, got %d", d.CooldownDays)
	}
	if d.ArtistPenalty < 0 {
		return fmt.Errorf("diversity.artist_penalty must be non-negative, got %f", d.ArtistPenalty)
	}
	if d.BackfillMultiplier < 0 || d.BackfillMultiplier > 1 {
		return fmt.Errorf("diversity.backfill_multiplier must be in [0, 1], got %f", d.BackfillMultiplier)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.ExposureTimeout <= 0 {
		return fmt.Errorf("limits.exposure_timeout must be positive, got %v", c.Limits.ExposureTimeout)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
