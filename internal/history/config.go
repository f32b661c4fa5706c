// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package history

import "time"

// Config controls the DuckDB-backed run archive.
type Config struct {
	// Path is the DuckDB database file location. Parent directories
	// are created on open.
	Path string `json:"path"`

	// MaxMemory caps DuckDB memory usage, for example "1GB".
	MaxMemory string `json:"max_memory"`

	// Threads is the DuckDB thread count. Zero means one per CPU.
	Threads int `json:"threads"`

	// RetentionDays is how long archived runs are kept. Zero or
	// negative disables the retention sweep.
	RetentionDays int `json:"retention_days"`

	// RetentionInterval is how often the retention sweep runs.
	RetentionInterval time.Duration `json:"retention_interval"`
}

// DefaultConfig returns production-ready archive settings.
func DefaultConfig() *Config {
	return &Config{
		Path:              "/data/conventus.duckdb",
		MaxMemory:         "1GB",
		Threads:           0,
		RetentionDays:     90,
		RetentionInterval: 12 * time.Hour,
	}
}
