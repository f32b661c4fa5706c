// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package history

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/conventus/internal/logging"
)

// Migration represents a versioned archive schema migration.
type Migration struct {
	Version     int       // Unique version number (monotonically increasing)
	Name        string    // Human-readable migration name
	Description string    // Description of what this migration does
	SQL         string    // SQL statement to execute
	AppliedAt   time.Time // When the migration was applied (populated on query)
}

// schemaMigrationsTable creates the migration tracking table.
const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// getMigrations returns all versioned migrations in order.
//
// The archive schema is young enough that every column lives in the
// initial CREATE TABLE statements in schema.go. Post-release schema
// changes go here, append only, starting from version 1. Example:
//
//	{Version: 1, Name: "add_score_breakdown", Description: "Add JSON score breakdown column",
//	 SQL: `ALTER TABLE recommendations ADD COLUMN IF NOT EXISTS breakdown TEXT;`},
func getMigrations() []Migration {
	return []Migration{}
}

// runMigrations executes only migrations that have not been applied yet.
func (s *Store) runMigrations() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if _, err := s.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, m := range getMigrations() {
		if _, exists := applied[m.Version]; exists {
			continue
		}

		if _, err := s.conn.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("failed to execute migration v%d (%s): %w", m.Version, m.Name, err)
		}

		if _, err := s.conn.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, description) VALUES (?, ?, ?)`,
			m.Version, m.Name, m.Description); err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}

		logging.Info().
			Int("version", m.Version).
			Str("name", m.Name).
			Msg("Applied archive migration")
	}

	return nil
}

// appliedMigrations returns a map of version -> Migration for all
// applied migrations.
func (s *Store) appliedMigrations(ctx context.Context) (map[int]Migration, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT version, name, description, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]Migration)
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[m.Version] = m
	}
	return applied, rows.Err()
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	var version int
	if err := s.conn.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
