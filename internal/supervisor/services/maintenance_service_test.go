// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

type countingMaintainer struct {
	calls atomic.Int32
	err   error
}

func (m *countingMaintainer) Maintain(ctx context.Context) error {
	m.calls.Add(1)
	return m.err
}

func TestMaintenanceService_Interface(t *testing.T) {
	var _ suture.Service = (*MaintenanceService)(nil)
}

func TestMaintenanceService_Defaults(t *testing.T) {
	svc := NewMaintenanceService(&countingMaintainer{}, 0, quietLogger())
	if svc.interval != defaultMaintenanceInterval {
		t.Errorf("interval = %v, want %v", svc.interval, defaultMaintenanceInterval)
	}
	if svc.String() != "exposure-maintenance" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestMaintenanceService_RunsEveryInterval(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"failure keeps running", errors.New("gc failed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &countingMaintainer{err: tt.err}
			done := make(chan error, 64)
			svc := NewMaintenanceService(m, 5*time.Millisecond, quietLogger())
			svc.done = done

			ctx, cancel := context.WithCancel(context.Background())
			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			for i := 0; i < 3; i++ {
				select {
				case err := <-done:
					if !errors.Is(err, tt.err) {
						t.Errorf("run %d error = %v, want %v", i, err, tt.err)
					}
				case <-time.After(2 * time.Second):
					t.Fatalf("run %d did not happen", i)
				}
			}
			cancel()

			if err := <-errCh; !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() error = %v, want context.Canceled", err)
			}
			if m.calls.Load() < 3 {
				t.Errorf("Maintain calls = %d, want >= 3", m.calls.Load())
			}
		})
	}
}
