// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/pigment/internal/catalog"
)

// SignalSize is the number of colours in a taste signal.
const SignalSize = 5

// ErrInvalidSignal is returned when a taste signal fails validation.
// No pipeline stage runs for an invalid signal.
var ErrInvalidSignal = errors.New("invalid taste signal")

// Color is one dominant colour extracted from the user's reference image.
type Color struct {
	// BGR is the colour in blue, green, red order, each in [0, 255].
	BGR [3]float64 `json:"bgr"`

	// HSV is the colour in hue, saturation, value.
	HSV [3]float64 `json:"hsv"`

	// LAB is the colour in CIE L*a*b*.
	LAB [3]float64 `json:"lab"`

	// Weight is the share of the image the colour covers.
	Weight float64 `json:"percentage"`
}

// Palette returns the colour as a 9-dimensional point (bgr, hsv, lab).
func (c *Color) Palette() catalog.Palette {
	var p catalog.Palette
	copy(p[0:3], c.BGR[:])
	copy(p[3:6], c.HSV[:])
	copy(p[6:9], c.LAB[:])
	return p
}

// TasteSignal is the weighted five-colour description of a user's taste.
type TasteSignal []Color

// Reranker is the interface for post-processing algorithms
// that reorder or filter the final slate.
type Reranker interface {
	// Name returns the reranker identifier.
	Name() string

	// Rerank reorders or filters items. k is the target slate size.
	Rerank(ctx context.Context, items []ScoredItem, k int) []ScoredItem
}

// Candidate is an item under consideration during one request.
type Candidate struct {
	// Row is the item's row in the catalog.
	Row int

	// Similarity is the raw cosine similarity to the taste vector.
	Similarity float64

	// Score is the similarity after exposure and stability penalties.
	Score float64

	// Backfilled marks candidates pulled from beyond the initial cut.
	Backfilled bool
}

// ScoredItem is a sampled candidate with the metadata rerankers need.
type ScoredItem struct {
	Item       *catalog.Item
	Similarity float64
	Score      float64
	Artist     string
	Title      string
	Backfilled bool
}

// Request represents a recommendation request.
type Request struct {
	// Signal is the five-colour taste signal.
	Signal TasteSignal `json:"colors"`

	// UserID scopes exposure state. Empty means anonymous.
	UserID string `json:"user_id,omitempty"`

	// K overrides the number of results returned. Zero uses the default.
	K int `json:"k,omitempty"`

	// Seed fixes the sampling randomness. Zero draws a fresh seed, so a
	// slate built with seed 0 cannot be requested again; the seed actually
	// used is returned in ResponseMetadata.Seed.
	Seed int64 `json:"seed,omitempty"`

	// RequestID for tracing. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// Recommendation is one painting in the output slate.
type Recommendation struct {
	ImageURL  string  `json:"url"`
	PageURL   string  `json:"page"`
	Artist    string  `json:"artist"`
	Title     string  `json:"title"`
	ClusterID int     `json:"cluster_id"`
	ItemID    string  `json:"filename"`
	Score     float64 `json:"similarity_score"`
}

// Response contains the slate and the diagnostics describing how it was built.
type Response struct {
	Items       []Recommendation `json:"recommendations"`
	Diagnostics Diagnostics      `json:"diagnostics"`
	Metadata    ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains request-level details.
type ResponseMetadata struct {
	RequestID string    `json:"request_id"`
	UserID    string    `json:"user_id,omitempty"`
	Seed      int64     `json:"seed"`
	LatencyMS int64     `json:"latency_ms"`
	Rerankers []string  `json:"rerankers"`
	Timestamp time.Time `json:"timestamp"`
}

// Diagnostics explains the pipeline outcome for one request.
type Diagnostics struct {
	ClusterPercentages map[int]float64 `json:"cluster_percentages"`
	Headcount          map[int]int     `json:"cluster_headcount"`
	DiversityConfig    DiversityConfig `json:"diversity_config"`
	ColorStatistics    ColorStatistics `json:"color_statistics"`
	Stats              Stats           `json:"recommendation_stats"`
}

// Stats counts items through each pipeline stage.
type Stats struct {
	CandidatesGenerated int  `json:"total_candidates_generated"`
	CooldownRemoved     int  `json:"cooldown_removed"`
	Backfilled          int  `json:"backfilled"`
	BackfillExhausted   bool `json:"backfill_exhausted"`
	Sampled             int  `json:"sampled_for_diversity"`
	Reranked            int  `json:"reranked"`
	QuotaDropped        int  `json:"quota_dropped"`
	FinalSlateSize      int  `json:"final_slate_size"`

	// Shortfall is how far the final slate fell below the requested size.
	Shortfall int `json:"shortfall"`

	// ExposureDegraded is set when exposure state could not be read and
	// the slate was built as if nothing had been shown before.
	ExposureDegraded bool `json:"exposure_degraded,omitempty"`

	ClusterDistribution map[int]int `json:"cluster_distribution"`
	Stages              []StageStat `json:"stages"`
}

// StageStat records the input and output size of one reranking stage.
type StageStat struct {
	Name string `json:"name"`
	In   int    `json:"in"`
	Out  int    `json:"out"`
}

// Metrics contains engine counters for observability.
type Metrics struct {
	// RequestCount is the total number of recommendation requests.
	RequestCount int64 `json:"request_count"`

	// ErrorCount is the number of rejected or failed requests.
	ErrorCount int64 `json:"error_count"`

	// DegradedCount is the number of slates built without exposure state.
	DegradedCount int64 `json:"degraded_count"`

	// ShortSlates is the number of slates smaller than requested.
	ShortSlates int64 `json:"short_slates"`
}
