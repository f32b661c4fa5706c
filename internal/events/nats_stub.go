// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

//go:build !nats

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// EmbeddedServer is a stub when NATS dependencies are not compiled in.
// Build with -tags=nats to enable the JetStream transport.
type EmbeddedServer struct{}

// NewEmbeddedServer returns an error when NATS dependencies are not
// compiled in. Build with -tags=nats to enable the JetStream transport.
func NewEmbeddedServer(cfg NATSConfig) (*EmbeddedServer, error) {
	return nil, fmt.Errorf("NATS transport not available: build with -tags=nats")
}

// ClientURL returns an empty string for the stub implementation.
func (s *EmbeddedServer) ClientURL() string {
	return ""
}

// IsRunning always reports false for the stub implementation.
func (s *EmbeddedServer) IsRunning() bool {
	return false
}

// Shutdown is a no-op stub.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	return nil
}

// NATSBus is a stub when NATS dependencies are not compiled in.
// Build with -tags=nats to enable the JetStream transport.
type NATSBus struct{}

// NewNATSBus returns an error when NATS dependencies are not compiled
// in. Build with -tags=nats to enable the JetStream transport.
func NewNATSBus(cfg Config, natsCfg NATSConfig, logger zerolog.Logger) (*NATSBus, error) {
	return nil, fmt.Errorf("NATS transport not available: build with -tags=nats")
}

// PublishRunCompleted is a stub that returns an error.
func (b *NATSBus) PublishRunCompleted(ctx context.Context, event *RunCompleted) error {
	return fmt.Errorf("NATS transport not available: build with -tags=nats")
}

// PublishDatasetUpdated is a stub that returns an error.
func (b *NATSBus) PublishDatasetUpdated(ctx context.Context, event *DatasetUpdated) error {
	return fmt.Errorf("NATS transport not available: build with -tags=nats")
}

// Subscribe is a stub that returns an error.
func (b *NATSBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return nil, fmt.Errorf("NATS transport not available: build with -tags=nats")
}

// Publisher returns nil for the stub implementation.
func (b *NATSBus) Publisher() message.Publisher {
	return nil
}

// Subscriber returns nil for the stub implementation.
func (b *NATSBus) Subscriber() message.Subscriber {
	return nil
}

// BreakerState reports an open breaker for the stub implementation.
func (b *NATSBus) BreakerState() gobreaker.State {
	return gobreaker.StateOpen
}

// Close is a no-op stub.
func (b *NATSBus) Close() error {
	return nil
}
