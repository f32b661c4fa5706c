// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults",
			modify: func(*Config) {},
		},
		{
			name:   "explicit worker count",
			modify: func(c *Config) { c.Workers = 4 },
		},
		{
			name:    "negative workers",
			modify:  func(c *Config) { c.Workers = -1 },
			wantErr: true,
		},
		{
			name:    "negative default top n",
			modify:  func(c *Config) { c.Limits.DefaultTopN = -1 },
			wantErr: true,
		},
		{
			name:    "zero max top n",
			modify:  func(c *Config) { c.Limits.MaxTopN = 0 },
			wantErr: true,
		},
		{
			name: "default top n above max",
			modify: func(c *Config) {
				c.Limits.DefaultTopN = 50
				c.Limits.MaxTopN = 10
			},
			wantErr: true,
		},
		{
			name:    "zero compute timeout",
			modify:  func(c *Config) { c.Limits.ComputeTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "zero cache ttl while enabled",
			modify:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: true,
		},
		{
			name:    "zero cache capacity while enabled",
			modify:  func(c *Config) { c.Cache.MaxEntries = 0 },
			wantErr: true,
		},
		{
			name: "disabled cache skips cache checks",
			modify: func(c *Config) {
				c.Cache.Enabled = false
				c.Cache.TTL = 0
				c.Cache.MaxEntries = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	original := DefaultConfig()
	original.Workers = 8
	original.Limits.MaxTopN = 25
	original.Cache.TTL = time.Minute

	clone := original.Clone()
	clone.Workers = 1
	clone.Limits.MaxTopN = 99
	clone.Cache.TTL = time.Hour

	if original.Workers != 8 || original.Limits.MaxTopN != 25 || original.Cache.TTL != time.Minute {
		t.Error("mutating the clone changed the original")
	}
}
