// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package history

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/conventus/internal/events"
	"github.com/tomtom215/conventus/internal/logging"
	"github.com/tomtom215/conventus/internal/metrics"
)

// ArchiveRun persists one completed run and its recommendation rows in
// a single transaction. The run id is the idempotency key: an event
// that was already archived commits nothing and returns nil, so broker
// redelivery never duplicates rows.
func (s *Store) ArchiveRun(ctx context.Context, event *events.RunCompleted) (err error) {
	start := time.Now()
	defer func() { metrics.RecordHistoryQuery("archive_run", time.Since(start), err) }()

	if event == nil {
		return fmt.Errorf("nil run.completed event")
	}

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is finalized
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

	result, err := tx.ExecContext(ctx, `INSERT INTO runs (
		run_id, dataset_revision, started_at, duration_ms, cache_hit,
		groups, activities, recommendations, gate_rejections
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT DO NOTHING`,
		event.RunID, event.DatasetRevision, event.StartedAt, event.ElapsedMS, event.CacheHit,
		event.Groups, event.Activities, event.Recommendations, event.GateRejections)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", event.RunID, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read insert result for run %s: %w", event.RunID, err)
	}
	if inserted == 0 {
		// Already archived, most likely a redelivered event.
		if err = tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		logging.Debug().Str("run_id", event.RunID).Msg("Run already archived, skipping")
		return nil
	}

	// Prepare statement within transaction for efficiency
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO recommendations (
		run_id, group_id, rank, activity_id, activity_name,
		slot_start, slot_end, slot_score, activity_score, total_score,
		location, price_eur, distance_km
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Failed to close prepared statement")
		}
	}()

	rows := 0
	for groupID, recs := range event.Results {
		for i, rec := range recs {
			// Per-group slices arrive sorted by total score, so the
			// slice index is the final rank.
			if _, err = stmt.ExecContext(ctx,
				event.RunID, groupID, i+1, rec.ActivityID, rec.ActivityName,
				rec.SlotStart, rec.SlotEnd, rec.SlotScore, rec.ActivityScore, rec.TotalScore,
				rec.Location, rec.PriceEUR, rec.DistanceKM); err != nil {
				return fmt.Errorf("failed to insert recommendation %s/%s: %w", groupID, rec.ActivityID, err)
			}
			rows++
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.HistoryRunsArchived.Inc()
	logging.Debug().
		Str("run_id", event.RunID).
		Uint64("dataset_revision", event.DatasetRevision).
		Int("rows", rows).
		Msg("Archived run")

	return nil
}
