// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

//go:build nats

package events

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/conventus/internal/metrics"
)

// JetStream limits for the embedded server. Event payloads are small
// run summaries, so the defaults stay conservative.
const (
	jetStreamMaxMemory = 64 * 1024 * 1024
	jetStreamMaxStore  = 1 << 30
)

// EmbeddedServer wraps an in-process NATS JetStream server with
// lifecycle management. It gives single-instance deployments durable
// event delivery without an external broker.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// NewEmbeddedServer creates and starts an embedded NATS server.
// Returns an error if the server fails to start within 30 seconds.
func NewEmbeddedServer(cfg NATSConfig) (*EmbeddedServer, error) {
	opts := &server.Options{
		ServerName:         "conventus-events",
		Host:               "127.0.0.1",
		Port:               -1, // OS-assigned port; clients use ClientURL
		JetStream:          true,
		StoreDir:           cfg.StoreDir,
		JetStreamMaxMemory: jetStreamMaxMemory,
		JetStreamMaxStore:  jetStreamMaxStore,
		DontListen:         false,
		Debug:              false,
		Trace:              false,
		NoLog:              false,
		MaxPayload:         8 * 1024 * 1024, // 8MB max message size
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	ns.ConfigureLogger()

	// Start in background
	go ns.Start()

	if !ns.ReadyForConnections(30 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within timeout")
	}

	return &EmbeddedServer{
		server:    ns,
		clientURL: ns.ClientURL(),
	}, nil
}

// ClientURL returns the connection URL for clients.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// IsRunning returns server health status.
func (s *EmbeddedServer) IsRunning() bool {
	return s.server.Running()
}

// Shutdown stops the server and waits for in-flight messages to
// complete or context cancellation.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	s.server.Shutdown()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.server.WaitForShutdown()
		return nil
	}
}

// NATSBus is the JetStream-backed event bus. It mirrors the Bus
// publish surface over a Watermill NATS publisher and subscriber,
// optionally owning an embedded server.
type NATSBus struct {
	embedded   *EmbeddedServer
	publisher  message.Publisher
	subscriber message.Subscriber
	breaker    *gobreaker.CircuitBreaker[interface{}]
	logger     zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewNATSBus connects to the configured NATS server, starting an
// embedded one first when cfg.Embedded is set, and builds the
// JetStream publisher and subscriber pair.
func NewNATSBus(cfg Config, natsCfg NATSConfig, logger zerolog.Logger) (*NATSBus, error) {
	wmLogger := NewWatermillLogger(logger)

	var embedded *EmbeddedServer
	url := natsCfg.URL
	if natsCfg.Embedded {
		var err error
		embedded, err = NewEmbeddedServer(natsCfg)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		url = embedded.ClientURL()
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		natsgo.ErrorHandler(func(nc *natsgo.Conn, sub *natsgo.Subscription, err error) {
			evt := logger.Error().Err(err)
			if sub != nil {
				evt = evt.Str("subject", sub.Subject)
			}
			evt.Msg("NATS async error")
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: true,
			TrackMsgId:    true, // Nats-Msg-Id deduplication
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, wmLogger)
	if err != nil {
		shutdownEmbedded(embedded)
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: "conventus",
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     30 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: true,
			AckAsync:      false, // Synchronous for exactly-once
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.MaxDeliver(5),
				natsgo.MaxAckPending(256),
				natsgo.AckWait(30 * time.Second),
				// Deliver new messages only (use DeliverAll for replay)
				natsgo.DeliverNew(),
			},
			DurablePrefix: "conventus",
		},
	}, wmLogger)
	if err != nil {
		_ = pub.Close()
		shutdownEmbedded(embedded)
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}

	return &NATSBus{
		embedded:   embedded,
		publisher:  pub,
		subscriber: sub,
		breaker:    newPublishBreaker("nats-publisher", cfg, logger),
		logger:     logger,
	}, nil
}

func shutdownEmbedded(embedded *EmbeddedServer) {
	if embedded == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = embedded.Shutdown(ctx)
}

// PublishRunCompleted publishes a run.completed event.
func (b *NATSBus) PublishRunCompleted(ctx context.Context, event *RunCompleted) error {
	data, err := Serialize(event)
	if err != nil {
		metrics.RecordEventPublished(TopicRunCompleted, err)
		return err
	}
	return b.publish(ctx, TopicRunCompleted, event.EventID, data)
}

// PublishDatasetUpdated publishes a dataset.updated event.
func (b *NATSBus) PublishDatasetUpdated(ctx context.Context, event *DatasetUpdated) error {
	data, err := Serialize(event)
	if err != nil {
		metrics.RecordEventPublished(TopicDatasetUpdated, err)
		return err
	}
	return b.publish(ctx, TopicDatasetUpdated, event.EventID, data)
}

func (b *NATSBus) publish(ctx context.Context, topic, eventID string, payload []byte) error {
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
	// Nats-Msg-Id drives JetStream deduplication
	msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)

	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.publisher.Publish(topic, msg)
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
func (b *NATSBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, fmt.Errorf("event bus is closed")
	}
	return b.subscriber.Subscribe(ctx, topic)
}

// Publisher exposes the raw transport for Router wiring.
func (b *NATSBus) Publisher() message.Publisher {
	return b.publisher
}

// Subscriber exposes the raw transport for Router wiring.
func (b *NATSBus) Subscriber() message.Subscriber {
	return b.subscriber
}

// BreakerState reports the publish breaker state for health checks.
func (b *NATSBus) BreakerState() gobreaker.State {
	return b.breaker.State()
}

// Close shuts down the publisher, the subscriber, and then the
// embedded server when one was started.
func (b *NATSBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var firstErr error
	if err := b.publisher.Close(); err != nil {
		firstErr = fmt.Errorf("close publisher: %w", err)
	}
	if err := b.subscriber.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close subscriber: %w", err)
	}
	if b.embedded != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := b.embedded.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("shutdown embedded server: %w", err)
		}
	}
	return firstErr
}
