// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package events

import "time"

// Config holds event bus settings.
type Config struct {
	// BufferSize is the per-subscriber output channel buffer of the
	// in-process transport.
	// Default: 64.
	BufferSize int

	// PublishTimeout bounds a single publish attempt.
	// Default: 5s.
	PublishTimeout time.Duration

	// BreakerThreshold is the consecutive publish failures that open
	// the circuit breaker.
	// Default: 5.
	BreakerThreshold uint32

	// BreakerCooldown is how long the breaker stays open before a
	// probe publish.
	// Default: 60s.
	BreakerCooldown time.Duration
}

// DefaultConfig returns production defaults for the event bus.
func DefaultConfig() Config {
	return Config{
		BufferSize:       64,
		PublishTimeout:   5 * time.Second,
		BreakerThreshold: 5,
		BreakerCooldown:  60 * time.Second,
	}
}

// NATSConfig holds the NATS transport settings used by builds
// compiled with -tags=nats.
type NATSConfig struct {
	// URL is the NATS server to connect to. Ignored when Embedded is
	// set; the embedded server's client URL is used instead.
	URL string

	// Embedded runs a NATS JetStream server inside the process.
	Embedded bool

	// StoreDir is the JetStream storage directory for the embedded
	// server.
	StoreDir string
}

