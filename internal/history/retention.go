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
	"github.com/tomtom215/conventus/internal/metrics"
)

// DeleteRunsBefore removes runs that started before cutoff together
// with their recommendation rows. It returns the number of runs
// deleted.
func (s *Store) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (deleted int64, err error) {
	start := time.Now()
	defer func() { metrics.RecordHistoryQuery("retention_delete", time.Since(start), err) }()

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM recommendations WHERE run_id IN (SELECT run_id FROM runs WHERE started_at < ?)`,
		cutoff); err != nil {
		return 0, fmt.Errorf("failed to delete expired recommendations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired runs: %w", err)
	}

	deleted, err = result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return deleted, nil
}

// RetentionService periodically deletes runs older than the configured
// retention window. It satisfies suture.Service.
type RetentionService struct {
	store    *Store
	days     int
	interval time.Duration
}

// NewRetentionService creates a retention sweeper for the store.
func NewRetentionService(store *Store, cfg *Config) *RetentionService {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	interval := cfg.RetentionInterval
	if interval <= 0 {
		interval = DefaultConfig().RetentionInterval
	}
	return &RetentionService{
		store:    store,
		days:     cfg.RetentionDays,
		interval: interval,
	}
}

// Serve runs the retention sweep loop until ctx is cancelled.
func (r *RetentionService) Serve(ctx context.Context) error {
	if r.days <= 0 {
		// Retention disabled, park until shutdown.
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// sweep deletes one batch of expired runs. Errors are logged, not
// returned, so a failed sweep does not restart the service.
func (r *RetentionService) sweep(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -r.days)

	count, err := r.store.DeleteRunsBefore(ctx, cutoff)
	if err != nil {
		logging.Error().Err(err).Msg("Archive retention sweep failed")
		return
	}
	if count > 0 {
		metrics.HistoryRetentionDeletes.Add(float64(count))
		logging.Info().
			Int64("count", count).
			Time("cutoff", cutoff).
			Msg("Deleted expired archived runs")
	}
}
