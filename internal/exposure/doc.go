// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

// Package exposure stores how often paintings were shown, per user and
// globally, and when each user last saw each painting.
//
// The recommendation pipeline reads a State snapshot at the start of a
// request and never writes; the transport layer records served slates
// afterwards. Three backends are available:
//
//   - memory: process-local maps, lost on restart
//   - badger: embedded BadgerDB, counters as big-endian uint64 keys and
//     last-seen entries with a TTL
//   - redis: hashes for counts and a sorted set of last-seen times per
//     user, shared between server replicas
//
// Persistent backends sit behind BreakerStore, a sony/gobreaker circuit
// breaker that records Prometheus metrics and fails fast while open.
//
// Usage:
//
//	store, err := exposure.New(&exposure.Config{Backend: "badger", BadgerPath: "/data/exposure"}, logger)
//	state, err := store.Snapshot(ctx, userID, ids, time.Now().Add(-14*24*time.Hour))
//	err = store.Record(ctx, userID, servedIDs, time.Now())
package exposure
