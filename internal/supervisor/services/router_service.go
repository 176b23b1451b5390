// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package services

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/upnext/internal/events"
)

// RouterFactory builds a fresh Watermill router. A router cannot be run
// again after it stops, so every restart needs a new one.
type RouterFactory func() (*message.Router, error)

// EventRouterService runs the change-event router under supervision.
type EventRouterService struct {
	newRouter RouterFactory
	name      string
}

// NewEventRouterService creates the wrapper.
func NewEventRouterService(newRouter RouterFactory) *EventRouterService {
	return &EventRouterService{
		newRouter: newRouter,
		name:      "event-router",
	}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.newRouter()
	if err != nil {
		return fmt.Errorf("event router setup failed: %w", err)
	}
	return events.RunRouter(ctx, router)
}

// String implements fmt.Stringer.
func (s *EventRouterService) String() string {
	return s.name
}
