// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/pigment/internal/catalog"
	"github.com/tomtom215/pigment/internal/exposure"
	"github.com/tomtom215/pigment/internal/metrics"
)

// ErrNoReranker is returned by Recommend when no reranker is registered.
var ErrNoReranker = errors.New("no reranker registered")

// Engine runs the recommendation pipeline against an immutable catalog.
// It is safe for concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	catalog *catalog.Catalog
	store   exposure.Store

	rerankers []Reranker
	rrMu      sync.RWMutex

	// Counters
	requestCount  atomic.Int64
	errorCount    atomic.Int64
	degradedCount atomic.Int64
	shortSlates   atomic.Int64

	// Seed source for requests without a seed (protected by rngMu)
	rng   *rand.Rand
	rngMu sync.Mutex

	now func() time.Time
}

// NewEngine creates a new recommendation engine. A nil store falls back to
// an in-memory exposure store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, cat *catalog.Catalog, store exposure.Store, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cat == nil || cat.Len() == 0 {
		return nil, catalog.ErrEmptyCatalog
	}
	if store == nil {
		store = exposure.NewMemoryStore()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Engine{
		config:    cfg.Clone(),
		logger:    logger.With().Str("component", "recommend").Logger(),
		catalog:   cat,
		store:     store,
		rerankers: make([]Reranker, 0, 2),
		rng:       rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for recommendation sampling
		now:       time.Now,
	}, nil
}

// RegisterReranker appends a reranker to the slate-building chain.
// Rerankers run in registration order.
func (e *Engine) RegisterReranker(rr Reranker) {
	e.rrMu.Lock()
	defer e.rrMu.Unlock()

	e.rerankers = append(e.rerankers, rr)
	e.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

// Recommend builds a slate for the request's taste signal.
//
// Stages: cluster assignment, candidate generation, exposure penalty,
// cooldown filter with backfill, softmax sampling, rerankers, final trim.
// Exposure store failures degrade to an empty exposure state rather than
// failing the request.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	rerankers := e.getRerankers()
	if len(rerankers) == 0 {
		e.fail("error")
		return nil, ErrNoReranker
	}

	signal, err := NormalizeSignal(req.Signal)
	if err != nil {
		e.fail("invalid")
		return nil, err
	}

	d := &e.config.Diversity
	diag := Diagnostics{DiversityConfig: *d}

	// Cluster assignment
	stageStart := time.Now()
	diag.ColorStatistics = ComputeColorStatistics(signal)
	query := diag.ColorStatistics.Vector()
	weights, err := AssignClusters(signal, e.catalog.Centers())
	if err != nil {
		e.fail("invalid")
		return nil, fmt.Errorf("assign clusters: %w", err)
	}
	diag.ClusterPercentages = weights.Percentages()
	diag.Headcount = e.activeClusters(weights, logger).Headcount(req.K)
	metrics.RecordStage("assign", time.Since(stageStart))

	// Candidate generation
	stageStart = time.Now()
	top, tail := GenerateCandidates(e.catalog, &query, d.NCand)
	diag.Stats.CandidatesGenerated = len(top)
	metrics.RecordStage("candidates", time.Since(stageStart))

	// Exposure state
	stageStart = time.Now()
	state, degraded := e.loadExposure(ctx, req.UserID, top, tail, logger)
	diag.Stats.ExposureDegraded = degraded
	metrics.RecordStage("exposure", time.Since(stageStart))
	if err := ctx.Err(); err != nil {
		e.fail("cancelled")
		return nil, err
	}

	// Penalty and cooldown
	stageStart = time.Now()
	penalized := ApplyExposurePenalty(e.catalog, top, state, d.Penalties())
	cool := FilterCooldown(e.catalog, penalized, tail, state, d.NSample, d.BackfillMultiplier)
	diag.Stats.CooldownRemoved = cool.Removed
	diag.Stats.Backfilled = cool.Backfilled
	diag.Stats.BackfillExhausted = cool.Exhausted
	metrics.RecordStage("filter", time.Since(stageStart))

	// Sampling
	stageStart = time.Now()
	rng := rand.New(rand.NewSource(req.Seed)) //nolint:gosec // seeded for reproducibility
	sampled := SoftmaxSample(cool.Pool, d.NSample, d.TempSoftmax, rng)
	diag.Stats.Sampled = len(sampled)
	metrics.RecordStage("sample", time.Since(stageStart))

	// Reranking
	items := e.toScoredItems(sampled)
	items = e.applyRerankers(ctx, rerankers, items, d.KFinal, &diag.Stats)

	if len(items) > req.K {
		items = items[:req.K]
	}

	resp := e.buildResponse(req, items, rerankers, &diag, start)
	e.recordOutcome(resp, start)

	logger.Debug().
		Int("candidates", diag.Stats.CandidatesGenerated).
		Int("pool", len(cool.Pool)).
		Int("sampled", diag.Stats.Sampled).
		Int("returned", len(resp.Items)).
		Int("shortfall", diag.Stats.Shortfall).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// RecordServed records that itemIDs were shown to userID. The pipeline never
// calls this; the transport layer does once a slate has been delivered.
func (e *Engine) RecordServed(ctx context.Context, userID string, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.ExposureTimeout)
	defer cancel()

	if err := e.store.Record(ctx, userID, itemIDs, e.now()); err != nil {
		return fmt.Errorf("record exposure: %w", err)
	}
	return nil
}

// prepareRequest applies defaults, the request ID, and the sampling seed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.K <= 0 {
		req.K = e.config.Limits.DefaultK
	}
	if req.K > e.config.Limits.MaxK {
		req.K = e.config.Limits.MaxK
	}
	if req.Seed == 0 {
		req.Seed = e.nextSeed()
	}
	return req
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Int64("seed", req.Seed).
		Logger()
}

// nextSeed draws a non-zero seed from the engine's source.
// This method is safe for concurrent use.
func (e *Engine) nextSeed() int64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	for {
		if s := e.rng.Int63(); s != 0 {
			return s
		}
	}
}

// activeClusters drops clusters that received no weight or hold no items.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) activeClusters(weights ClusterWeights, logger zerolog.Logger) ClusterWeights {
	for _, cw := range weights {
		switch {
		case cw.Weight <= 0:
			logger.Warn().Int("cluster_id", cw.ClusterID).Msg("cluster has zero weight, skipping")
		case e.catalog.ClusterSize(cw.ClusterID) == 0:
			logger.Warn().Int("cluster_id", cw.ClusterID).Msg("cluster has no catalog items, skipping")
		}
	}
	return weights.Keep(func(id int) bool {
		return e.catalog.ClusterSize(id) > 0
	})
}

// loadExposure reads exposure state for the ranked candidates. The tail is
// only consulted when cooldown removals leave the top short of a full pool.
// On store failure it returns an empty state and degraded=true.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) loadExposure(ctx context.Context, userID string, top, tail []Candidate, logger zerolog.Logger) (*exposure.State, bool) {
	since := e.now().Add(-e.config.Diversity.CooldownWindow())

	state, err := e.snapshot(ctx, userID, e.itemIDs(top), since)
	if err != nil {
		e.degrade(logger, err)
		return exposure.NewState(), true
	}

	survivors := 0
	for _, c := range top {
		if !state.RecentlySeen(e.catalog.At(c.Row).ID) {
			survivors++
		}
	}
	if survivors >= e.config.Diversity.NSample || len(tail) == 0 || userID == "" {
		return state, false
	}

	more, err := e.snapshot(ctx, userID, e.itemIDs(tail), since)
	if err != nil {
		e.degrade(logger, err)
		return state, true
	}
	for id, at := range more.Seen {
		state.Seen[id] = at
	}
	return state, false
}

func (e *Engine) snapshot(ctx context.Context, userID string, ids []string, since time.Time) (*exposure.State, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.ExposureTimeout)
	defer cancel()
	return e.store.Snapshot(ctx, userID, ids, since)
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) degrade(logger zerolog.Logger, err error) {
	e.degradedCount.Add(1)
	metrics.ExposureDegraded.Inc()
	logger.Warn().Err(err).Msg("exposure state unavailable, serving without exposure adjustments")
}

func (e *Engine) itemIDs(cands []Candidate) []string {
	ids := make([]string, len(cands))
	for i, c := range cands {
		ids[i] = e.catalog.At(c.Row).ID
	}
	return ids
}

// toScoredItems attaches catalog items and parsed display metadata.
func (e *Engine) toScoredItems(cands []Candidate) []ScoredItem {
	items := make([]ScoredItem, len(cands))
	for i, c := range cands {
		item := e.catalog.At(c.Row)
		artist, title := ParseArtistTitle(item.PageURL)
		items[i] = ScoredItem{
			Item:       item,
			Similarity: c.Similarity,
			Score:      c.Score,
			Artist:     artist,
			Title:      title,
			Backfilled: c.Backfilled,
		}
	}
	return items
}

// getRerankers returns the registered rerankers.
func (e *Engine) getRerankers() []Reranker {
	e.rrMu.RLock()
	defer e.rrMu.RUnlock()
	return e.rerankers
}

// applyRerankers runs each reranker in order, recording per-stage sizes.
func (e *Engine) applyRerankers(ctx context.Context, rerankers []Reranker, items []ScoredItem, k int, stats *Stats) []ScoredItem {
	for _, rr := range rerankers {
		stageStart := time.Now()
		in := len(items)
		items = rr.Rerank(ctx, items, k)
		metrics.RecordStage(rr.Name(), time.Since(stageStart))

		stats.Stages = append(stats.Stages, StageStat{Name: rr.Name(), In: in, Out: len(items)})
		switch rr.Name() {
		case "mmr":
			stats.Reranked = len(items)
		case "quota":
			stats.QuotaDropped += in - len(items)
		}
	}
	return items
}

// buildResponse constructs the final response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponse(req Request, items []ScoredItem, rerankers []Reranker, diag *Diagnostics, start time.Time) *Response {
	diag.Stats.FinalSlateSize = len(items)
	diag.Stats.Shortfall = max(0, req.K-len(items))
	diag.Stats.ClusterDistribution = make(map[int]int)
	for i := range items {
		diag.Stats.ClusterDistribution[items[i].Item.ClusterID]++
	}

	names := make([]string, len(rerankers))
	for i, rr := range rerankers {
		names[i] = rr.Name()
	}

	return &Response{
		Items:       FormatSlate(items),
		Diagnostics: *diag,
		Metadata: ResponseMetadata{
			RequestID: req.RequestID,
			UserID:    req.UserID,
			Seed:      req.Seed,
			LatencyMS: time.Since(start).Milliseconds(),
			Rerankers: names,
			Timestamp: e.now(),
		},
	}
}

// recordOutcome updates counters and Prometheus metrics for a served slate.
func (e *Engine) recordOutcome(resp *Response, start time.Time) {
	s := &resp.Diagnostics.Stats
	if s.Shortfall > 0 {
		e.shortSlates.Add(1)
	}
	metrics.RecordSlate(s.FinalSlateSize, s.QuotaDropped, s.Backfilled, s.Shortfall)
	metrics.RecordRecommendation("success", time.Since(start))
}

// fail counts a request that produced no slate.
func (e *Engine) fail(outcome string) {
	e.errorCount.Add(1)
	metrics.RecordRecommendation(outcome, 0)
}

// GetMetrics returns the current engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		RequestCount:  e.requestCount.Load(),
		ErrorCount:    e.errorCount.Load(),
		DegradedCount: e.degradedCount.Load(),
		ShortSlates:   e.shortSlates.Load(),
	}
}

// GetConfig returns a copy of the engine configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// Catalog returns the catalog the engine serves from.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}
