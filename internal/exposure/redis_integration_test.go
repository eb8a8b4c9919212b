// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

//go:build integration

package exposure

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/pigment/internal/testinfra"
)

func TestRedisStore_Integration(t *testing.T) {
	testinfra.RequireDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to start redis: %v", err)
	}
	testinfra.TerminateOnCleanup(t, container)

	client, err := NewRedisClient(RedisOptions{Addr: container.Addr})
	if err != nil {
		t.Fatalf("NewRedisClient() error = %v", err)
	}
	defer client.Close()

	runStoreContract(t, func(t *testing.T) Store {
		// Each subtest gets its own key namespace on the shared server.
		return NewRedisStore(client, RedisOptions{
			KeyPrefix: "test:" + t.Name(),
			SeenTTL:   60 * 24 * time.Hour,
		})
	})
}
