// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Workers is the number of goroutines evaluating groups in
	// parallel. Zero means one worker per logical CPU, capped at the
	// group count.
	Workers int `json:"workers" koanf:"workers"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache" koanf:"cache"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultTopN is the listing length applied when a request does
	// not name one. Zero returns every recommendation.
	// Default: 0.
	DefaultTopN int `json:"default_top_n" koanf:"default_top_n"`

	// MaxTopN is the largest listing length a request may ask for.
	// Default: 1000.
	MaxTopN int `json:"max_top_n" koanf:"max_top_n"`

	// ComputeTimeout bounds a single run.
	// Default: 30s.
	ComputeTimeout time.Duration `json:"compute_timeout" koanf:"compute_timeout"`
}

// CacheConfig contains result caching parameters. Results are cached
// by dataset revision; ad-hoc datasets (revision zero) bypass the
// cache entirely.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 10m.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// MaxEntries is the maximum number of cached run results.
	// Default: 64.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Workers: 0,
		Limits: LimitsConfig{
			DefaultTopN:    0,
			MaxTopN:        1000,
			ComputeTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        10 * time.Minute,
			MaxEntries: 64,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}

	if c.Limits.DefaultTopN < 0 {
		return fmt.Errorf("limits.default_top_n must be non-negative, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < 1 {
		return fmt.Errorf("limits.max_top_n must be positive, got %d", c.Limits.MaxTopN)
	}
	if c.Limits.DefaultTopN > c.Limits.MaxTopN {
		return fmt.Errorf("limits.default_top_n must be <= limits.max_top_n, got %d > %d",
			c.Limits.DefaultTopN, c.Limits.MaxTopN)
	}
	if c.Limits.ComputeTimeout <= 0 {
		return fmt.Errorf("limits.compute_timeout must be positive, got %v", c.Limits.ComputeTimeout)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	return &Config{
		Workers: c.Workers,
		Limits:  c.Limits,
		Cache:   c.Cache,
	}
}
