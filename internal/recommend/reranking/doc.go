// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

// Package reranking implements the slate-building stages that run after
// sampling: diversity reranking and per-cluster quotas.
//
// # Overview
//
// The engine applies registered rerankers in order:
//
//	Sampled pool -> MMR (k_final) -> Quota -> trim to requested size
//
// # Available Rerankers
//
// Maximal Marginal Relevance (MMR):
//   - Greedily selects items balancing adjusted score against redundancy
//   - Redundancy is the maximum cosine similarity of the 18-dimensional
//     colour features to anything already selected
//   - A fixed artist penalty discourages repeating a parsed artist
//
// Quota:
//   - Caps each visual cluster at floor(quota_max x slate size)
//   - Drops over-quota items without replacement
//
// # Interface
//
// All rerankers implement the recommend.Reranker interface:
//
//	type Reranker interface {
//	    Name() string
//	    Rerank(ctx context.Context, items []ScoredItem, k int) []ScoredItem
//	}
//
// # Usage Example
//
//	engine.RegisterReranker(reranking.NewMMR(cfg.Diversity.LambdaMMR, cfg.Diversity.ArtistPenalty))
//	engine.RegisterReranker(reranking.NewQuota(cfg.Diversity.QuotaMax))
//
// # MMR Algorithm
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max_similarity(i, selected) - artist(i)]
//
// Lambda Guidelines:
//   - 0.9-1.0: Mostly relevance, minimal diversity
//   - 0.7-0.9: Balanced (default 0.8)
//   - 0.0-0.7: Diversity-focused (may sacrifice relevance)
//
// # Performance
//
// MMR keeps a running maximum similarity per candidate, so a pass costs
// O(k * n) cosine evaluations for n sampled items and k selections.
//
// # Thread Safety
//
// All rerankers are stateless and safe for concurrent use.
package reranking
