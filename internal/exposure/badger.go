// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package exposure

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key prefixes for BadgerDB storage
const (
	userKeyPrefix   = "exp_user:"
	globalKeyPrefix = "exp_global:"
	seenKeyPrefix   = "exp_seen:"
)

// maxConflictRetries bounds how often Record retries a conflicting transaction.
const maxConflictRetries = 5

// seenRecord is the value stored under a seen key.
type seenRecord struct {
	At time.Time `json:"at"`
}

// BadgerStore implements Store using BadgerDB for durable storage.
// Counters are big-endian uint64 values; seen entries carry a TTL so
// expired cooldowns are reclaimed by badger's compaction.
type BadgerStore struct {
	db      *badger.DB
	seenTTL time.Duration
	ownsDB  bool
}

// NewBadgerStore creates a BadgerDB-backed exposure store on an open database.
// seenTTL bounds how long last-seen entries are kept; zero keeps them forever.
func NewBadgerStore(db *badger.DB, seenTTL time.Duration) *BadgerStore {
	return &BadgerStore{db: db, seenTTL: seenTTL}
}

// OpenBadgerStore opens (or creates) a database at path and wraps it.
// The returned store closes the database on Close.
func OpenBadgerStore(path string, seenTTL time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger's internal logging
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}
	store := NewBadgerStore(db, seenTTL)
	store.ownsDB = true
	return store, nil
}

// userSegment length-prefixes the user ID so that no (user, item) pair
// shares a key with another: "a:b"+"c" and "a"+"b:c" stay distinct.
func userSegment(userID string) string {
	return strconv.Itoa(len(userID)) + ":" + userID + ":"
}

func userKey(userID, itemID string) []byte {
	return []byte(userKeyPrefix + userSegment(userID) + itemID)
}

func globalKey(itemID string) []byte {
	return []byte(globalKeyPrefix + itemID)
}

func seenKey(userID, itemID string) []byte {
	return []byte(seenKeyPrefix + userSegment(userID) + itemID)
}

// Snapshot implements Store.
func (s *BadgerStore) Snapshot(ctx context.Context, userID string, itemIDs []string, since time.Time) (*State, error) {
	state := NewState()

	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range itemIDs {
			if err := ctx.Err(); err != nil {
				return err
			}

			n, err := readCounter(txn, globalKey(id))
			if err != nil {
				return err
			}
			if n > 0 {
				state.Global[id] = n
			}

			if userID == "" {
				continue
			}

			n, err = readCounter(txn, userKey(userID, id))
			if err != nil {
				return err
			}
			if n > 0 {
				state.User[id] = n
			}

			at, ok, err := readSeen(txn, seenKey(userID, id))
			if err != nil {
				return err
			}
			if ok && !at.Before(since) {
				state.Seen[id] = at
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger snapshot: %w", err)
	}
	return state, nil
}

// Record implements Store.
func (s *BadgerStore) Record(ctx context.Context, userID string, itemIDs []string, at time.Time) error {
	seen, err := json.Marshal(seenRecord{At: at.UTC()})
	if err != nil {
		return fmt.Errorf("marshal seen record: %w", err)
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.db.Update(func(txn *badger.Txn) error {
			for _, id := range itemIDs {
				if err := incrementCounter(txn, globalKey(id)); err != nil {
					return err
				}
				if userID == "" {
					continue
				}
				if err := incrementCounter(txn, userKey(userID, id)); err != nil {
					return err
				}
				entry := badger.NewEntry(seenKey(userID, id), seen)
				if s.seenTTL > 0 {
					entry = entry.WithTTL(s.seenTTL)
				}
				if err := txn.SetEntry(entry); err != nil {
					return fmt.Errorf("set seen: %w", err)
				}
			}
			return nil
		})

		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			continue
		}
		if err != nil {
			return fmt.Errorf("badger record: %w", err)
		}
		return nil
	}
}

// Close implements Store. The database is only closed when the store opened it.
func (s *BadgerStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// readCounter returns the counter at key, or zero when absent.
func readCounter(txn *badger.Txn, key []byte) (int64, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get counter: %w", err)
	}

	var n int64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("counter %q: invalid length %d", key, len(val))
		}
		n = int64(binary.BigEndian.Uint64(val)) //nolint:gosec // counters never exceed int64
		return nil
	})
	return n, err
}

// incrementCounter adds one to the counter at key.
func incrementCounter(txn *badger.Txn, key []byte) error {
	n, err := readCounter(txn, key)
	if err != nil {
		return err
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(n+1)) //nolint:gosec // n is non-negative
	if err := txn.Set(key, buf); err != nil {
		return fmt.Errorf("set counter: %w", err)
	}
	return nil
}

// readSeen returns the last-seen time at key.
func readSeen(txn *badger.Txn, key []byte) (time.Time, bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get seen: %w", err)
	}

	var rec seenRecord
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	}); err != nil {
		return time.Time{}, false, fmt.Errorf("decode seen: %w", err)
	}
	return rec.At, true, nil
}

// gcDiscardRatio is the fraction of a value log file that must be stale
// before badger rewrites it.
const gcDiscardRatio = 0.5

// Maintain runs badger value log GC until no file is worth rewriting.
func (s *BadgerStore) Maintain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.RunValueLogGC(gcDiscardRatio)
		switch {
		case errors.Is(err, badger.ErrNoRewrite),
			errors.Is(err, badger.ErrRejected),
			errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		}
		if err != nil {
			return fmt.Errorf("badger value log gc: %w", err)
		}
	}
}
