// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

func TestMaintenanceService_Interface(t *testing.T) {
	t.Parallel()
	var _ suture.Service = (*MaintenanceService)(nil)
}

func TestMaintenanceService_RunsTasksUntilCanceled(t *testing.T) {
	t.Parallel()

	var ok, failing atomic.Int32
	svc := NewMaintenanceService(5*time.Millisecond,
		MaintenanceTask{Name: "failing", Run: func(context.Context) error {
			failing.Add(1)
			return errors.New("gc: nothing to collect")
		}},
		MaintenanceTask{Name: "ok", Run: func(context.Context) error {
			ok.Add(1)
			return nil
		}},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for ok.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("ok task ran %d times, want at least 2", ok.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	// A failing task must not stop the ones after it.
	if failing.Load() < ok.Load()-1 {
		t.Errorf("failing ran %d times, ok ran %d", failing.Load(), ok.Load())
	}
}

func TestNewMaintenanceService_Defaults(t *testing.T) {
	t.Parallel()

	svc := NewMaintenanceService(0)
	if svc.interval != DefaultMaintenanceInterval {
		t.Errorf("interval = %v, want %v", svc.interval, DefaultMaintenanceInterval)
	}
	if svc.String() != "maintenance" {
		t.Errorf("String() = %q", svc.String())
	}
}
