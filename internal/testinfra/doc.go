// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

// Package testinfra provides container helpers for integration tests.
//
// Everything here is built only with the integration tag:
//
//	go test -tags integration ./internal/exposure/...
//
// # Redis Container
//
// RedisContainer starts a throwaway Redis server for the shared exposure
// store:
//
//	func TestRedisStore(t *testing.T) {
//	    testinfra.RequireDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    testinfra.TerminateOnCleanup(t, redis)
//
//	    client, err := exposure.NewRedisClient(exposure.RedisOptions{Addr: redis.Addr})
//	    // ...
//	}
//
// # CI Considerations
//
// RequireDocker skips in -short mode and when Docker is unavailable.
// The first run pulls the image; later runs use the local cache.
package testinfra
