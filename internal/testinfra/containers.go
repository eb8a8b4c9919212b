// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

//go:build integration

package testinfra

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// terminateTimeout bounds container teardown.
const terminateTimeout = 30 * time.Second

// dockerAvailable runs `docker info` once per test binary.
var dockerAvailable = sync.OnceValue(func() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "docker", "info").Run() == nil
})

// RequireDocker skips the test in -short mode or when no Docker daemon
// answers.
func RequireDocker(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}
	if !dockerAvailable() {
		t.Skip("Skipping container test: Docker not available")
	}
}

// TerminateOnCleanup registers container teardown with t.Cleanup.
// Teardown uses its own context, so it still runs after the test context
// has expired. Failures are logged, not fatal.
func TerminateOnCleanup(t *testing.T, container testcontainers.Container) {
	t.Helper()

	if container == nil {
		return
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), terminateTimeout)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})
}
