// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/upnext/internal/logging"
	"github.com/tomtom215/upnext/internal/metrics"
)

// Bus publishes change events on an in-process pub/sub.
//
// Messages are not persisted: events published while nothing is subscribed
// are dropped. That is acceptable because every consumer only invalidates
// derived state, and writers invalidate synchronously as well.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBus creates a bus. A nil logger routes Watermill logs through the
// global zerolog logger.
func NewBus(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = NewLogger()
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, logger),
		logger: logger,
	}
}

// NewLogger returns a Watermill logger backed by the global zerolog logger.
func NewLogger() watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logging.NewSlogLogger())
}

// Publish encodes ev and publishes it on the topic for its kind.
func (b *Bus) Publish(ctx context.Context, ev *ChangeEvent) error {
	if ev.CorrelationID == "" {
		ev.CorrelationID = logging.CorrelationIDFromContext(ctx)
	}
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("invalid change event: %w", err)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	msg := message.NewMessage(ev.EventID, data)
	msg.Metadata.Set("kind", string(ev.Kind))
	msg.Metadata.Set("user_id", ev.UserID)
	msg.Metadata.Set("show_id", ev.ShowID)
	if ev.CorrelationID != "" {
		msg.Metadata.Set("correlation_id", ev.CorrelationID)
	}

	topic := ev.Kind.Topic()
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	metrics.RecordEventPublished(topic)
	return nil
}

// Subscriber returns the subscriber side of the bus. Watermill routers close
// their subscribers on shutdown, so the returned subscriber ignores Close and
// the bus stays usable for the next router. Use Bus.Close to stop it.
func (b *Bus) Subscriber() message.Subscriber {
	return sharedSubscriber{b.pubsub}
}

type sharedSubscriber struct {
	message.Subscriber
}

func (sharedSubscriber) Close() error { return nil }

// Logger returns the Watermill logger the bus was built with.
func (b *Bus) Logger() watermill.LoggerAdapter {
	return b.logger
}

// Close closes the pub/sub.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
