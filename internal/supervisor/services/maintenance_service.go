// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package services

import (
	"context"
	"time"

	"github.com/tomtom215/upnext/internal/logging"
)

// DefaultMaintenanceInterval is how often maintenance tasks run.
const DefaultMaintenanceInterval = 10 * time.Minute

// MaintenanceTask is one periodic housekeeping job.
type MaintenanceTask struct {
	Name string
	Run  func(ctx context.Context) error
}

// MaintenanceService runs housekeeping tasks on a fixed interval: badger
// value-log GC and expiry sweeps of the in-memory caches. A failing task is
// logged and retried on the next tick; it never stops the service.
type MaintenanceService struct {
	tasks    []MaintenanceTask
	interval time.Duration
	name     string
}

// NewMaintenanceService creates the service. A non-positive interval uses
// DefaultMaintenanceInterval.
func NewMaintenanceService(interval time.Duration, tasks ...MaintenanceTask) *MaintenanceService {
	if interval <= 0 {
		interval = DefaultMaintenanceInterval
	}
	return &MaintenanceService{
		tasks:    tasks,
		interval: interval,
		name:     "maintenance",
	}
}

// Serve implements suture.Service.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *MaintenanceService) runOnce(ctx context.Context) {
	logger := logging.WithComponent(s.name)
	for _, task := range s.tasks {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		if err := task.Run(ctx); err != nil {
			logger.Warn().Err(err).Str("task", task.Name).Msg("Maintenance task failed")
			continue
		}
		logger.Debug().Str("task", task.Name).Dur("duration", time.Since(start)).Msg("Maintenance task completed")
	}
}

// String implements fmt.Stringer.
func (s *MaintenanceService) String() string {
	return s.name
}
