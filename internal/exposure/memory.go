// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package exposure

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with in-process maps.
// State is lost on restart; suitable for development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	user   map[string]map[string]int64
	global map[string]int64
	seen   map[string]map[string]time.Time
	closed bool
}

// NewMemoryStore creates an empty in-memory exposure store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		user:   make(map[string]map[string]int64),
		global: make(map[string]int64),
		seen:   make(map[string]map[string]time.Time),
	}
}

// Snapshot implements Store.
func (s *MemoryStore) Snapshot(ctx context.Context, userID string, itemIDs []string, since time.Time) (*State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	state := NewState()
	userCounts := s.user[userID]
	userSeen := s.seen[userID]
	for _, id := range itemIDs {
		if n := s.global[id]; n > 0 {
			state.Global[id] = n
		}
		if userID == "" {
			continue
		}
		if n := userCounts[id]; n > 0 {
			state.User[id] = n
		}
		if at, ok := userSeen[id]; ok && !at.Before(since) {
			state.Seen[id] = at
		}
	}
	return state, nil
}

// Record implements Store.
func (s *MemoryStore) Record(ctx context.Context, userID string, itemIDs []string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	for _, id := range itemIDs {
		s.global[id]++
	}
	if userID == "" {
		return nil
	}

	counts, ok := s.user[userID]
	if !ok {
		counts = make(map[string]int64)
		s.user[userID] = counts
	}
	seen, ok := s.seen[userID]
	if !ok {
		seen = make(map[string]time.Time)
		s.seen[userID] = seen
	}
	for _, id := range itemIDs {
		counts[id]++
		if prev, ok := seen[id]; !ok || at.After(prev) {
			seen[id] = at
		}
	}
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
