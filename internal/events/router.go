// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"

	"github.com/tomtom215/upnext/internal/logging"
	"github.com/tomtom215/upnext/internal/metrics"
)

// Invalidator drops derived state for a user.
type Invalidator interface {
	InvalidateUser(userID string)
}

// RouterConfig holds configuration for the Watermill Router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// DefaultRouterConfig returns production defaults for the Router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     time.Second,
	}
}

// NewRouter builds a Watermill router that feeds every change event on the
// bus to inv. Malformed payloads are logged and acknowledged; they would fail
// every retry.
func NewRouter(cfg RouterConfig, bus *Bus, inv Invalidator) (*message.Router, error) {
	logger := bus.Logger()

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Recoverer converts handler panics to errors; Retry backs off transient failures.
	router.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      2.0,
		Logger:          logger,
	}
	router.AddMiddleware(retry.Middleware)

	for _, topic := range []string{TopicWatch, TopicOverride} {
		router.AddConsumerHandler(
			"feed-cache-invalidator."+topic,
			topic,
			bus.Subscriber(),
			invalidateHandler(topic, inv),
		)
	}

	return router, nil
}

func invalidateHandler(topic string, inv Invalidator) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		var ev ChangeEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			logging.Warn().Err(err).Str("topic", topic).Str("message_id", msg.UUID).Msg("Dropping malformed change event")
			metrics.RecordEventProcessed(topic, err)
			return nil
		}
		if ev.UserID == "" {
			ev.UserID = msg.Metadata.Get("user_id")
		}

		inv.InvalidateUser(ev.UserID)
		metrics.RecordEventProcessed(topic, nil)

		logging.Debug().
			Str("topic", topic).
			Str("kind", string(ev.Kind)).
			Str("user_id", ev.UserID).
			Str("show_id", ev.ShowID).
			Str("correlation_id", ev.CorrelationID).
			Msg("Feed cache invalidated by change event")
		return nil
	}
}

// RunRouter runs the router until ctx is canceled. Watermill closes the
// router itself when ctx is done.
func RunRouter(ctx context.Context, router *message.Router) error {
	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return ctx.Err()
}
