// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package history

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/conventus/internal/logging"
)

// Store wraps the DuckDB connection that holds archived runs.
type Store struct {
	conn *sql.DB
	cfg  *Config
}

// Open opens (or creates) the archive database and initializes the
// schema.
func Open(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists before DuckDB touches the file.
	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301.
	dbDir := filepath.Dir(cfg.Path)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create archive directory %s: %w", dbDir, err)
		}
	}

	// The archive uses no DuckDB extensions, so auto-install/auto-load
	// stay disabled to prevent hangs in restricted network environments.
	// Result order is carried by the rank column, not insertion order.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&preserve_insertion_order=false&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	s := &Store{
		conn: conn,
		cfg:  cfg,
	}
	s.configureConnectionPool()

	if err := s.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize archive database: %w", err)
	}

	return s, nil
}

// configureConnectionPool applies pool limits tuned for DuckDB's
// in-process model.
func (s *Store) configureConnectionPool() {
	s.conn.SetMaxOpenConns(runtime.NumCPU())
	s.conn.SetMaxIdleConns(2)
	s.conn.SetConnMaxLifetime(time.Hour)
	s.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// initialize creates tables, runs versioned migrations, and creates
// indexes.
func (s *Store) initialize() error {
	if err := s.createTables(); err != nil {
		return err
	}
	if err := s.runMigrations(); err != nil {
		return err
	}
	if err := s.createIndexes(); err != nil {
		return err
	}

	// Flush the WAL so schema statements are not replayed on next open.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint archive after schema initialization")
	}

	return nil
}

// Close checkpoints the WAL and closes the database connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := s.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint archive before close")
	}
	cancel()

	return s.conn.Close()
}

// Ping checks if the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if s.conn == nil {
		return fmt.Errorf("archive database connection is nil")
	}
	return s.conn.PingContext(ctx)
}

// Checkpoint forces a WAL checkpoint.
func (s *Store) Checkpoint(ctx context.Context) error {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	if _, err := s.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("failed to checkpoint archive database: %w", err)
	}
	return nil
}

// Path returns the database file location for backup tooling.
func (s *Store) Path() string {
	return s.cfg.Path
}

// ensureContext creates a context with a 30-second timeout if none
// provided.
func (s *Store) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}
	return ctx, func() {}
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
