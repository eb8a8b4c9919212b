// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

// Package recommend implements the diversity-aware painting recommendation
// pipeline.
//
// # Architecture
//
// A request carries a five-colour taste signal. The engine turns it into a
// slate in fixed stages:
//
//	AssignClusters -> GenerateCandidates -> ApplyExposurePenalty ->
//	FilterCooldown -> SoftmaxSample -> rerankers (MMR, Quota) -> FormatSlate
//
//   - AssignClusters maps each colour to its nearest cluster center and
//     yields the per-cluster weight distribution and headcount
//   - GenerateCandidates ranks the catalog by cosine similarity of the
//     18-dimensional colour statistics
//   - ApplyExposurePenalty subtracts user fatigue, instability and global
//     popularity penalties
//   - FilterCooldown removes recently seen paintings and backfills from the
//     ranked tail at a reduced score
//   - SoftmaxSample draws an exploration subset without replacement
//   - Rerankers (package reranking) pick a diverse slate and cap clusters
//
// # Design Principles
//
//   - Deterministic: a request seed fixes sampling; requests without one
//     draw a seed from the engine's seeded source
//   - Immutable inputs: the catalog and Config never change after NewEngine
//   - Read-only exposure: the pipeline reads an exposure.State snapshot;
//     RecordServed writes after delivery
//   - Degradable: exposure store failures produce a slate without exposure
//     adjustments and a flag in the diagnostics
//   - Observable: stage timings and slate sizes go to Prometheus
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, cat, store, logger)
//	if err != nil {
//	    return err
//	}
//	engine.RegisterReranker(reranking.NewMMR(cfg.Diversity.LambdaMMR, cfg.Diversity.ArtistPenalty))
//	engine.RegisterReranker(reranking.NewQuota(cfg.Diversity.QuotaMax))
//
//	resp, err := engine.Recommend(ctx, recommend.Request{Signal: signal, UserID: "u1"})
//	if errors.Is(err, recommend.ErrInvalidSignal) {
//	    // reject the request
//	}
//
// # Thread Safety
//
// Engine is safe for concurrent use. Each request builds its own random
// source, candidate slices, and sampling tree.
package recommend
