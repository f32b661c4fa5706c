// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

/*
schema.go - Archive Schema Management

Tables:
  - runs: one row per completed recommendation run (summary counters)
  - recommendations: ranked per-group recommendation rows for each run
  - schema_migrations: versioned migration tracking (see migrations.go)

Slot bounds are stored as TEXT, not TIMESTAMP: datasets carry naive and
zoned timestamps side by side and the archive preserves the original
wire text exactly as the live endpoints returned it.

Index Strategy:
  - runs(started_at) for recent-run listings and retention sweeps
  - recommendations(group_id) for per-group trend queries
  - recommendations(activity_id) for activity leaderboards
  - the (run_id, group_id, rank) primary key covers run detail lookups
*/

//nolint:staticcheck // File documentation, not package doc
package history

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the archive tables.
func (s *Store) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := s.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// tableCreationQueries returns the table creation SQL statements.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			dataset_revision UBIGINT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			duration_ms BIGINT NOT NULL,
			cache_hit BOOLEAN NOT NULL DEFAULT false,
			groups INTEGER NOT NULL,
			activities INTEGER NOT NULL,
			recommendations INTEGER NOT NULL,
			gate_rejections INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS recommendations (
			run_id TEXT NOT NULL,
			group_id TEXT NOT NULL,
			rank INTEGER NOT NULL,
			activity_id TEXT NOT NULL,
			activity_name TEXT NOT NULL,
			-- Slot bounds keep the original wire text, see file header.
			slot_start TEXT NOT NULL,
			slot_end TEXT NOT NULL,
			slot_score DOUBLE NOT NULL,
			activity_score DOUBLE NOT NULL,
			total_score DOUBLE NOT NULL,
			location TEXT,
			price_eur DOUBLE,
			distance_km DOUBLE,
			PRIMARY KEY (run_id, group_id, rank)
		);`,
	}
}

// createIndexes creates the archive indexes.
func (s *Store) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_group ON recommendations(group_id);`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_activity ON recommendations(activity_id);`,
	}

	for _, query := range indexes {
		if _, err := s.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}
