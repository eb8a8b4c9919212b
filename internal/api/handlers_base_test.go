// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pigment/internal/catalog"
	"github.com/tomtom215/pigment/internal/exposure"
	"github.com/tomtom215/pigment/internal/logging"
	"github.com/tomtom215/pigment/internal/recommend"
	"github.com/tomtom215/pigment/internal/recommend/reranking"
)

// testCatalog builds 300 items over four clusters with random palettes.
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic test data

	centers := make([]catalog.ClusterCenter, 4)
	for i := range centers {
		centers[i].ClusterID = i
		for d := range centers[i].Feature {
			centers[i].Feature[d] = rng.Float64() * 255
		}
	}

	items := make([]catalog.Item, 300)
	for i := range items {
		var v catalog.Vector
		for d := range v {
			v[d] = rng.Float64() * 200
		}
		items[i] = catalog.Item{
			ID:        fmt.Sprintf("%04d.jpg", i),
			ClusterID: i % len(centers),
			ImageURL:  fmt.Sprintf("https://img.example/%d.jpg", i),
			PageURL:   fmt.Sprintf("https://artsandculture.google.com/asset/canvas-%d-artist-%d/B%d", i, i%11, i),
			Features:  v,
		}
	}

	cat, err := catalog.New(centers, items)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return cat
}

func newTestEngine(t *testing.T, store exposure.Store) *recommend.Engine {
	t.Helper()
	cfg := recommend.DefaultConfig()

	engine, err := recommend.NewEngine(cfg, testCatalog(t), store, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	engine.RegisterReranker(reranking.NewMMR(cfg.Diversity.LambdaMMR, cfg.Diversity.ArtistPenalty))
	engine.RegisterReranker(reranking.NewQuota(cfg.Diversity.QuotaMax))
	return engine
}

// newTestServer returns a router backed by a real engine and a memory store.
func newTestServer(t *testing.T) (http.Handler, *exposure.MemoryStore) {
	t.Helper()
	store := exposure.NewMemoryStore()
	handler := NewHandler(newTestEngine(t, store), store, HandlerOptions{Version: "test"})

	chiMw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimit: RateLimitConfig{Disabled: true}})
	router := NewRouter(handler, chiMw, RouterOptions{MetricsEnabled: true})
	return router.SetupChi(), store
}

type testColor struct {
	BGR        [3]float64 `json:"bgr"`
	HSV        [3]float64 `json:"hsv"`
	LAB        [3]float64 `json:"lab"`
	Percentage float64    `json:"percentage"`
}

func testColors() []testColor {
	mk := func(b, g, r, w float64) testColor {
		return testColor{
			BGR:        [3]float64{b, g, r},
			HSV:        [3]float64{b / 2, g, r},
			LAB:        [3]float64{r / 2.55, g - 128, b - 128},
			Percentage: w,
		}
	}
	return []testColor{
		mk(30, 40, 200, 0.35),
		mk(60, 90, 180, 0.25),
		mk(200, 120, 40, 0.2),
		mk(120, 200, 120, 0.1),
		mk(240, 240, 240, 0.1),
	}
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	return data
}

func doRequest(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// testEnvelope mirrors APIResponse with a raw data payload.
type testEnvelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata Metadata        `json:"metadata"`
	Error    *APIError       `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func decodeSlate(t *testing.T, env testEnvelope) recommend.Response {
	t.Helper()
	var resp recommend.Response
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode slate: %v", err)
	}
	return resp
}

// downStore fails every operation.
type downStore struct{}

func (downStore) Snapshot(context.Context, string, []string, time.Time) (*exposure.State, error) {
	return nil, errors.New("store down")
}

func (downStore) Record(context.Context, string, []string, time.Time) error {
	return errors.New("store down")
}

func (downStore) Close() error { return nil }

func zerologDiscard() zerolog.Logger {
	return logging.NewTestLogger(io.Discard)
}
