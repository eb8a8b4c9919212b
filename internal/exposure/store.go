// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package exposure

import (
	"context"
	"errors"
	"time"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

var (
	// ErrUnknownBackend is returned by New for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown exposure backend")

	// ErrStoreClosed is returned by operations on a closed store.
	ErrStoreClosed = errors.New("exposure store closed")
)

// State is a point-in-time view of exposure for one user, restricted to the
// items the caller asked about. A nil *State behaves as empty.
type State struct {
	// User maps item ID to how often this user was shown the item.
	User map[string]int64

	// Global maps item ID to how often any user was shown the item.
	Global map[string]int64

	// Seen maps item ID to the last time this user was shown the item,
	// limited to the cooldown window requested in Snapshot.
	Seen map[string]time.Time
}

// NewState returns an empty State with allocated maps.
func NewState() *State {
	return &State{
		User:   make(map[string]int64),
		Global: make(map[string]int64),
		Seen:   make(map[string]time.Time),
	}
}

// UserCount returns the per-user exposure count for an item.
func (s *State) UserCount(id string) int64 {
	if s == nil {
		return 0
	}
	return s.User[id]
}

// GlobalCount returns the global exposure count for an item.
func (s *State) GlobalCount(id string) int64 {
	if s == nil {
		return 0
	}
	return s.Global[id]
}

// RecentlySeen reports whether the user was shown the item inside the window.
func (s *State) RecentlySeen(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.Seen[id]
	return ok
}

// Store persists exposure counters and last-seen timestamps.
// Implementations must be safe for concurrent use.
type Store interface {
	// Snapshot reads the exposure state for userID restricted to itemIDs.
	// Items last seen before since are not reported as seen. An empty
	// userID yields global counts only.
	Snapshot(ctx context.Context, userID string, itemIDs []string, since time.Time) (*State, error)

	// Record marks itemIDs as shown to userID at the given time, incrementing
	// user and global counters.
	Record(ctx context.Context, userID string, itemIDs []string, at time.Time) error

	// Close releases the store's resources.
	Close() error
}

// Maintainer is implemented by stores that need periodic housekeeping,
// such as reclaiming space left by expired cooldown entries.
type Maintainer interface {
	Maintain(ctx context.Context) error
}
