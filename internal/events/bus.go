// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package events

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/conventus/internal/metrics"
)

// EventBus is the publishing surface shared by the in-process and
// NATS transports. Server startup selects the implementation from
// EVENTS_NATS_ENABLED.
type EventBus interface {
	PublishRunCompleted(ctx context.Context, event *RunCompleted) error
	PublishDatasetUpdated(ctx context.Context, event *DatasetUpdated) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Subscriber() message.Subscriber
	BreakerState() gobreaker.State
	Close() error
}

// Bus is the in-process event bus. Publishing goes through a circuit
// breaker; subscribers attach either directly or through a Router.
//
// The bus is safe for concurrent use. Close tears down the transport;
// subscriber channels are closed and further publishes fail.
type Bus struct {
	pubsub  *gochannel.GoChannel
	breaker *gobreaker.CircuitBreaker[interface{}]
	logger  zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewBus creates an in-process bus with the given settings.
func NewBus(cfg Config, logger zerolog.Logger) *Bus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: int64(cfg.BufferSize),
		},
		NewWatermillLogger(logger),
	)

	return &Bus{
		pubsub:  pubsub,
		breaker: newPublishBreaker("events-publisher", cfg, logger),
		logger:  logger,
	}
}

// newPublishBreaker builds the circuit breaker guarding publishes.
func newPublishBreaker(name string, cfg Config, logger zerolog.Logger) *gobreaker.CircuitBreaker[interface{}] {
	settings := gobreaker.Settings{
		Name:    name,
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("publish circuit breaker state change")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
			metrics.SetCircuitBreakerState(name, BreakerStateValue(to))
		},
	}
	return gobreaker.NewCircuitBreaker[interface{}](settings)
}

// BreakerStateValue converts a gobreaker state to its gauge value:
// closed=0, half-open=1, open=2.
func BreakerStateValue(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// PublishRunCompleted publishes a run.completed event.
func (b *Bus) PublishRunCompleted(ctx context.Context, event *RunCompleted) error {
	data, err := Serialize(event)
	if err != nil {
		metrics.RecordEventPublished(TopicRunCompleted, err)
		return err
	}
	return b.publish(ctx, TopicRunCompleted, event.EventID, data)
}

// PublishDatasetUpdated publishes a dataset.updated event.
func (b *Bus) PublishDatasetUpdated(ctx context.Context, event *DatasetUpdated) error {
	data, err := Serialize(event)
	if err != nil {
		metrics.RecordEventPublished(TopicDatasetUpdated, err)
		return err
	}
	return b.publish(ctx, TopicDatasetUpdated, event.EventID, data)
}

// publish sends one message through the breaker. Callers treat errors
// as drops: log and count, never propagate to the triggering request.
func (b *Bus) publish(ctx context.Context, topic, eventID string, payload []byte) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		err := fmt.Errorf("event bus is closed")
		metrics.RecordEventPublished(topic, err)
		return err
	}
	b.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		metrics.RecordEventPublished(topic, err)
		return err
	}

	msg := message.NewMessage(eventID, payload)
	msg.Metadata.Set(MetadataEventType, topic)
	msg.Metadata.Set(MetadataSchemaVersion, strconv.Itoa(SchemaVersion))

	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.pubsub.Publish(topic, msg)
	})
	metrics.RecordEventPublished(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	b.logger.Debug().
		Str("topic", topic).
		Str("event_id", eventID).
		Msg("event published")
	return nil
}

// Subscribe returns a channel of messages for the topic. The channel
// closes when ctx is cancelled or the bus closes.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, fmt.Errorf("event bus is closed")
	}
	return b.pubsub.Subscribe(ctx, topic)
}

// Publisher exposes the raw transport for Router wiring.
func (b *Bus) Publisher() message.Publisher {
	return b.pubsub
}

// Subscriber exposes the raw transport for Router wiring.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// BreakerState reports the publish breaker state for health checks.
func (b *Bus) BreakerState() gobreaker.State {
	return b.breaker.State()
}

// Close shuts down the transport. Subscriber channels close once
// in-flight messages are consumed.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	return b.pubsub.Close()
}
