// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package exposure

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
		check   func(t *testing.T, s Store)
	}{
		{
			name: "memory",
			cfg:  Config{Backend: BackendMemory},
			check: func(t *testing.T, s Store) {
				if _, ok := s.(*MemoryStore); !ok {
					t.Errorf("store type = %T, want *MemoryStore", s)
				}
			},
		},
		{
			name: "empty defaults to memory",
			cfg:  Config{},
			check: func(t *testing.T, s Store) {
				if _, ok := s.(*MemoryStore); !ok {
					t.Errorf("store type = %T, want *MemoryStore", s)
				}
			},
		},
		{
			name: "badger wrapped in breaker",
			cfg: Config{
				Backend:    BackendBadger,
				BadgerPath: "", // replaced with a temp dir below
				SeenTTL:    time.Hour,
				Breaker:    DefaultBreakerConfig(),
			},
			check: func(t *testing.T, s Store) {
				b, ok := s.(*BreakerStore)
				if !ok {
					t.Fatalf("store type = %T, want *BreakerStore", s)
				}
				if _, ok := b.next.(*BadgerStore); !ok {
					t.Errorf("inner store = %T, want *BadgerStore", b.next)
				}
			},
		},
		{
			name:    "unknown backend",
			cfg:     Config{Backend: "cassandra"},
			wantErr: ErrUnknownBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if cfg.Backend == BackendBadger {
				cfg.BadgerPath = t.TempDir()
			}

			store, err := New(&cfg, zerolog.Nop())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer store.Close()
			tt.check(t, store)
		})
	}
}

func TestNew_BadgerRequiresPath(t *testing.T) {
	if _, err := New(&Config{Backend: BackendBadger}, zerolog.Nop()); err == nil {
		t.Error("New() with empty badger path should fail")
	}
}
