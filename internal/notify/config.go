// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package notify

import "time"

// Config controls webhook delivery.
type Config struct {
	// Targets are the URLs that receive run-completed POSTs.
	Targets []string `json:"targets"`

	// Secret signs payloads with HMAC-SHA256. Empty disables the
	// signature header.
	Secret string `json:"secret"`

	// Timeout bounds each HTTP attempt.
	Timeout time.Duration `json:"timeout"`

	// MaxRetries is how many times a failed delivery is retried.
	MaxRetries int `json:"max_retries"`

	// BreakerThreshold is the consecutive-failure count that opens a
	// target's circuit breaker.
	BreakerThreshold uint32 `json:"breaker_threshold"`

	// BreakerCooldown is how long an open breaker waits before
	// probing the target again.
	BreakerCooldown time.Duration `json:"breaker_cooldown"`
}

// DefaultConfig returns production-ready delivery settings.
func DefaultConfig() *Config {
	return &Config{
		Targets:          []string{},
		Secret:           "",
		Timeout:          10 * time.Second,
		MaxRetries:       2,
		BreakerThreshold: 5,
		BreakerCooldown:  60 * time.Second,
	}
}
