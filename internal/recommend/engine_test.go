// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/tomtom215/pigment/internal/catalog"
	"github.com/tomtom215/pigment/internal/exposure"
	"github.com/tomtom215/pigment/internal/logging"
	"github.com/tomtom215/pigment/internal/recommend"
	"github.com/tomtom215/pigment/internal/recommend/reranking"
)

const testClusters = 5

// testCatalog builds n items spread round-robin over five clusters whose
// centers are random palettes.
func testCatalog(t *testing.T, n int) *catalog.Catalog {
	t.Helper()
	rng := rand.New(rand.NewSource(21)) //nolint:gosec // deterministic test data

	centers := make([]catalog.ClusterCenter, testClusters)
	for i := range centers {
		centers[i].ClusterID = i
		for d := range centers[i].Feature {
			centers[i].Feature[d] = rng.Float64() * 255
		}
	}

	items := make([]catalog.Item, n)
	for i := range items {
		var v catalog.Vector
		for d := range v {
			v[d] = rng.Float64() * 200
		}
		items[i] = catalog.Item{
			ID:        fmt.Sprintf("%04d.jpg", i),
			ClusterID: i % testClusters,
			ImageURL:  fmt.Sprintf("https://img.example/%d.jpg", i),
			PageURL:   fmt.Sprintf("https://artsandculture.google.com/asset/study-%d-painter-%d/A%d", i, i%13, i),
			Features:  v,
		}
	}

	cat, err := catalog.New(centers, items)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return cat
}

func testSignal() recommend.TasteSignal {
	mk := func(b, g, r, w float64) recommend.Color {
		return recommend.Color{
			BGR:    [3]float64{b, g, r},
			HSV:    [3]float64{b / 2, g, r},
			LAB:    [3]float64{r / 2.55, g - 128, b - 128},
			Weight: w,
		}
	}
	return recommend.TasteSignal{
		mk(30, 40, 200, 0.35),
		mk(60, 90, 180, 0.25),
		mk(200, 120, 40, 0.2),
		mk(120, 200, 120, 0.1),
		mk(240, 240, 240, 0.1),
	}
}

func newTestEngine(t *testing.T, cfg *recommend.Config, store exposure.Store) *recommend.Engine {
	t.Helper()
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}

	engine, err := recommend.NewEngine(cfg, testCatalog(t, 400), store, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	engine.RegisterReranker(reranking.NewMMR(cfg.Diversity.LambdaMMR, cfg.Diversity.ArtistPenalty))
	engine.RegisterReranker(reranking.NewQuota(cfg.Diversity.QuotaMax))
	return engine
}

func itemIDs(resp *recommend.Response) []string {
	out := make([]string, len(resp.Items))
	for i, r := range resp.Items {
		out[i] = r.ItemID
	}
	return out
}

// failingStore always errors.
type failingStore struct{}

func (failingStore) Snapshot(context.Context, string, []string, time.Time) (*exposure.State, error) {
	return nil, errors.New("store down")
}

func (failingStore) Record(context.Context, string, []string, time.Time) error {
	return errors.New("store down")
}

func (failingStore) Close() error { return nil }

func TestEngine_Recommend(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	resp, err := engine.Recommend(context.Background(), recommend.Request{Signal: testSignal(), K: 10})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	stats := resp.Diagnostics.Stats
	if len(resp.Items) == 0 || len(resp.Items) > 10 {
		t.Fatalf("Recommend() returned %d items, want 1..10", len(resp.Items))
	}
	if stats.FinalSlateSize != len(resp.Items) {
		t.Errorf("FinalSlateSize = %d, want %d", stats.FinalSlateSize, len(resp.Items))
	}
	if stats.Shortfall != 10-len(resp.Items) {
		t.Errorf("Shortfall = %d, want %d", stats.Shortfall, 10-len(resp.Items))
	}
	if stats.CandidatesGenerated != 400 {
		t.Errorf("CandidatesGenerated = %d, want 400", stats.CandidatesGenerated)
	}
	if stats.Sampled != 60 {
		t.Errorf("Sampled = %d, want 60", stats.Sampled)
	}
	if len(stats.Stages) != 2 || stats.Stages[0].Name != "mmr" || stats.Stages[1].Name != "quota" {
		t.Errorf("Stages = %+v, want mmr then quota", stats.Stages)
	}
	if resp.Metadata.RequestID == "" || resp.Metadata.Seed == 0 {
		t.Errorf("Metadata = %+v, want request id and seed", resp.Metadata)
	}

	var pct float64
	for _, p := range resp.Diagnostics.ClusterPercentages {
		pct += p
	}
	if pct < 0.999 || pct > 1.001 {
		t.Errorf("cluster percentages sum to %f, want 1", pct)
	}

	seen := make(map[string]bool)
	for _, r := range resp.Items {
		if seen[r.ItemID] {
			t.Errorf("item %s returned twice", r.ItemID)
		}
		seen[r.ItemID] = true
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("item %s score %f outside [0, 1]", r.ItemID, r.Score)
		}
		if r.Artist == recommend.UnknownArtist {
			t.Errorf("item %s artist not parsed from %s", r.ItemID, r.PageURL)
		}
	}
}

func TestEngine_SameSeedSameSlate(t *testing.T) {
	engine := newTestEngine(t, nil, nil)
	req := recommend.Request{Signal: testSignal(), Seed: 1234}

	a, err := engine.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	b, err := engine.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	ia, ib := itemIDs(a), itemIDs(b)
	if len(ia) != len(ib) {
		t.Fatalf("slates differ in size: %v vs %v", ia, ib)
	}
	for i := range ia {
		if ia[i] != ib[i] {
			t.Fatalf("same seed gave different slates: %v vs %v", ia, ib)
		}
	}
	if a.Metadata.Seed != 1234 {
		t.Errorf("Metadata.Seed = %d, want 1234", a.Metadata.Seed)
	}
}

func TestEngine_QuotaHolds(t *testing.T) {
	cfg := recommend.DefaultConfig()
	cfg.Diversity.QuotaMax = 0.25
	engine := newTestEngine(t, cfg, nil)

	for seed := int64(1); seed <= 20; seed++ {
		resp, err := engine.Recommend(context.Background(), recommend.Request{Signal: testSignal(), Seed: seed, K: 12})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		limit := reranking.NewQuota(cfg.Diversity.QuotaMax).Cap(cfg.Diversity.KFinal)
		for cluster, n := range resp.Diagnostics.Stats.ClusterDistribution {
			if n > limit {
				t.Fatalf("seed %d: cluster %d has %d items, cap %d", seed, cluster, n, limit)
			}
		}
	}
}

func TestEngine_CooldownAfterServe(t *testing.T) {
	engine := newTestEngine(t, nil, exposure.NewMemoryStore())
	ctx := context.Background()
	req := recommend.Request{Signal: testSignal(), UserID: "user-1", K: 10}

	first, err := engine.Recommend(ctx, req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	served := itemIDs(first)
	if err := engine.RecordServed(ctx, req.UserID, served); err != nil {
		t.Fatalf("RecordServed() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		next, err := engine.Recommend(ctx, req)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if next.Diagnostics.Stats.CooldownRemoved != len(served) {
			t.Errorf("CooldownRemoved = %d, want %d", next.Diagnostics.Stats.CooldownRemoved, len(served))
		}
		for _, id := range itemIDs(next) {
			for _, s := range served {
				if id == s {
					t.Fatalf("recently served item %s recommended again", id)
				}
			}
		}
	}

	// Another user is unaffected by user-1's cooldown.
	other, err := engine.Recommend(ctx, recommend.Request{Signal: testSignal(), UserID: "user-2"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if other.Diagnostics.Stats.CooldownRemoved != 0 {
		t.Errorf("user-2 CooldownRemoved = %d, want 0", other.Diagnostics.Stats.CooldownRemoved)
	}
}

func TestEngine_DegradesOnStoreFailure(t *testing.T) {
	engine := newTestEngine(t, nil, failingStore{})

	resp, err := engine.Recommend(context.Background(), recommend.Request{Signal: testSignal(), UserID: "u"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !resp.Diagnostics.Stats.ExposureDegraded {
		t.Error("ExposureDegraded = false, want true")
	}
	if len(resp.Items) == 0 {
		t.Error("degraded request returned no items")
	}
	if m := engine.GetMetrics(); m.DegradedCount != 1 || m.RequestCount != 1 {
		t.Errorf("GetMetrics() = %+v, want one degraded request", m)
	}

	if err := engine.RecordServed(context.Background(), "u", itemIDs(resp)); err == nil {
		t.Error("RecordServed() error = nil, want store error")
	}
}

func TestEngine_Errors(t *testing.T) {
	t.Run("invalid signal", func(t *testing.T) {
		engine := newTestEngine(t, nil, nil)
		_, err := engine.Recommend(context.Background(), recommend.Request{Signal: testSignal()[:4]})
		if !errors.Is(err, recommend.ErrInvalidSignal) {
			t.Errorf("Recommend() error = %v, want ErrInvalidSignal", err)
		}
		if m := engine.GetMetrics(); m.ErrorCount != 1 {
			t.Errorf("ErrorCount = %d, want 1", m.ErrorCount)
		}
	})

	t.Run("no reranker", func(t *testing.T) {
		engine, err := recommend.NewEngine(nil, testCatalog(t, 20), nil, logging.NewTestLogger(io.Discard))
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		_, err = engine.Recommend(context.Background(), recommend.Request{Signal: testSignal()})
		if !errors.Is(err, recommend.ErrNoReranker) {
			t.Errorf("Recommend() error = %v, want ErrNoReranker", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		engine := newTestEngine(t, nil, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := engine.Recommend(ctx, recommend.Request{Signal: testSignal()})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Recommend() error = %v, want context.Canceled", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := recommend.DefaultConfig()
		cfg.Diversity.NSample = 0
		if _, err := recommend.NewEngine(cfg, testCatalog(t, 20), nil, logging.NewTestLogger(io.Discard)); err == nil {
			t.Error("NewEngine() error = nil, want config error")
		}
	})

	t.Run("nil catalog", func(t *testing.T) {
		_, err := recommend.NewEngine(nil, nil, nil, logging.NewTestLogger(io.Discard))
		if !errors.Is(err, catalog.ErrEmptyCatalog) {
			t.Errorf("NewEngine() error = %v, want ErrEmptyCatalog", err)
		}
	})
}

func TestEngine_KLimits(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	resp, err := engine.Recommend(context.Background(), recommend.Request{Signal: testSignal(), K: 3})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Items) != 3 {
		t.Errorf("K=3 returned %d items", len(resp.Items))
	}

	resp, err = engine.Recommend(context.Background(), recommend.Request{Signal: testSignal(), K: 500})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if want := 50 - resp.Diagnostics.Stats.FinalSlateSize; resp.Diagnostics.Stats.Shortfall != want {
		t.Errorf("K above MaxK: Shortfall = %d, want %d (K capped at 50)", resp.Diagnostics.Stats.Shortfall, want)
	}
}

func TestEngine_GetConfigIsCopy(t *testing.T) {
	engine := newTestEngine(t, nil, nil)
	cfg := engine.GetConfig()
	cfg.Diversity.NCand = 1
	if engine.GetConfig().Diversity.NCand != 600 {
		t.Error("GetConfig() returned shared state")
	}
}

func TestEngine_SkipsClusterWithoutItems(t *testing.T) {
	warm := catalog.Palette{40, 40, 200, 0, 200, 200, 45, 60, 40}
	cool := catalog.Palette{200, 60, 30, 220, 180, 200, 30, 10, -50}
	green := catalog.Palette{40, 200, 40, 120, 200, 200, 70, -60, 50}
	centers := []catalog.ClusterCenter{
		{ClusterID: 1, Feature: warm},
		{ClusterID: 2, Feature: cool},
		{ClusterID: 3, Feature: green}, // no painting is assigned here
	}

	rng := rand.New(rand.NewSource(5)) //nolint:gosec // deterministic test data
	items := make([]catalog.Item, 80)
	for i := range items {
		var v catalog.Vector
		for d := range v {
			v[d] = rng.Float64() * 200
		}
		items[i] = catalog.Item{
			ID:        fmt.Sprintf("%02d.jpg", i),
			ClusterID: 1 + i%2,
			PageURL:   fmt.Sprintf("https://artsandculture.google.com/asset/field-%d-painter-%d/B%d", i, i%5, i),
			Features:  v,
		}
	}
	cat, err := catalog.New(centers, items)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), cat, nil, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	at := func(p catalog.Palette, w float64) recommend.Color {
		return recommend.Color{
			BGR:    [3]float64{p[0], p[1], p[2]},
			HSV:    [3]float64{p[3], p[4], p[5]},
			LAB:    [3]float64{p[6], p[7], p[8]},
			Weight: w,
		}
	}
	signal := recommend.TasteSignal{at(warm, 0.3), at(warm, 0.2), at(cool, 0.2), at(cool, 0.1), at(green, 0.2)}

	resp, err := engine.Recommend(context.Background(), recommend.Request{Signal: signal, K: 8, Seed: 3})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := resp.Diagnostics.ClusterPercentages[3]; got < 0.199 || got > 0.201 {
		t.Errorf("ClusterPercentages[3] = %f, want 0.2", got)
	}
	if n, ok := resp.Diagnostics.Headcount[3]; ok {
		t.Errorf("Headcount[3] = %d, want empty cluster skipped", n)
	}
	if resp.Diagnostics.Headcount[1] == 0 || resp.Diagnostics.Headcount[2] == 0 {
		t.Errorf("Headcount = %v, want slots for clusters 1 and 2", resp.Diagnostics.Headcount)
	}
	if len(resp.Items) == 0 {
		t.Error("Recommend() returned an empty slate")
	}
	for _, r := range resp.Items {
		if r.ClusterID == 3 {
			t.Errorf("item %s reported in empty cluster 3", r.ItemID)
		}
	}
}
