// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package exposure

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces the Redis keys written by RedisStore.
const DefaultKeyPrefix = "pigment:exposure"

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	SeenTTL   time.Duration
}

// RedisStore implements Store on Redis so several server processes can
// share exposure state. Counts live in hashes (HINCRBY) and last-seen
// times in a per-user sorted set scored by unix milliseconds.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	seenTTL time.Duration
}

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, opts RedisOptions) *RedisStore {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, seenTTL: opts.SeenTTL}
}

func (s *RedisStore) globalKey() string {
	return s.prefix + ":global"
}

func (s *RedisStore) userKey(userID string) string {
	return s.prefix + ":user:" + userID
}

func (s *RedisStore) seenKey(userID string) string {
	return s.prefix + ":seen:" + userID
}

// Snapshot implements Store.
func (s *RedisStore) Snapshot(ctx context.Context, userID string, itemIDs []string, since time.Time) (*State, error) {
	state := NewState()
	if len(itemIDs) == 0 {
		return state, nil
	}

	var userCmd *redis.SliceCmd
	var seenCmd *redis.FloatSliceCmd
	pipe := s.client.Pipeline()
	globalCmd := pipe.HMGet(ctx, s.globalKey(), itemIDs...)
	if userID != "" {
		userCmd = pipe.HMGet(ctx, s.userKey(userID), itemIDs...)
		seenCmd = pipe.ZMScore(ctx, s.seenKey(userID), itemIDs...)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("redis snapshot: %w", err)
	}

	if err := fillCounts(state.Global, itemIDs, globalCmd.Val()); err != nil {
		return nil, err
	}
	if userID == "" {
		return state, nil
	}
	if err := fillCounts(state.User, itemIDs, userCmd.Val()); err != nil {
		return nil, err
	}

	cutoff := since.UnixMilli()
	for i, score := range seenCmd.Val() {
		if i >= len(itemIDs) || score <= 0 {
			continue
		}
		ms := int64(score)
		if ms >= cutoff {
			state.Seen[itemIDs[i]] = time.UnixMilli(ms).UTC()
		}
	}
	return state, nil
}

// Record implements Store.
func (s *RedisStore) Record(ctx context.Context, userID string, itemIDs []string, at time.Time) error {
	if len(itemIDs) == 0 {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range itemIDs {
			pipe.HIncrBy(ctx, s.globalKey(), id, 1)
		}
		if userID == "" {
			return nil
		}

		members := make([]redis.Z, 0, len(itemIDs))
		for _, id := range itemIDs {
			pipe.HIncrBy(ctx, s.userKey(userID), id, 1)
			members = append(members, redis.Z{Score: float64(at.UnixMilli()), Member: id})
		}
		pipe.ZAddGT(ctx, s.seenKey(userID), members...)

		if s.seenTTL > 0 {
			floor := at.Add(-s.seenTTL).UnixMilli()
			pipe.ZRemRangeByScore(ctx, s.seenKey(userID), "-inf", "("+strconv.FormatInt(floor, 10))
			pipe.Expire(ctx, s.seenKey(userID), s.seenTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis record: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// fillCounts parses HMGET replies into dst, skipping missing fields.
func fillCounts(dst map[string]int64, ids []string, vals []interface{}) error {
	for i, v := range vals {
		if v == nil || i >= len(ids) {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("redis counter %q: unexpected type %T", ids[i], v)
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return fmt.Errorf("redis counter %q: %w", ids[i], err)
		}
		if n > 0 {
			dst[ids[i]] = n
		}
	}
	return nil
}
