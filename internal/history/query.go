// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/conventus/internal/metrics"
	"github.com/tomtom215/conventus/internal/models"
)

// ErrRunNotFound is returned by GetRun for unknown run ids.
var ErrRunNotFound = errors.New("archived run not found")

// defaultQueryLimit bounds list queries when the caller passes no limit.
const defaultQueryLimit = 50

// RunRecord is one archived run summary row.
type RunRecord struct {
	RunID           string    `json:"run_id"`
	DatasetRevision uint64    `json:"dataset_revision"`
	StartedAt       time.Time `json:"started_at"`
	DurationMS      int64     `json:"duration_ms"`
	CacheHit        bool      `json:"cache_hit"`
	Groups          int       `json:"groups"`
	Activities      int       `json:"activities"`
	Recommendations int       `json:"recommendations"`
	GateRejections  int       `json:"gate_rejections"`
}

// RunDetail is an archived run with its recommendation rows restored to
// the same per-group shape the live endpoints return.
type RunDetail struct {
	RunRecord
	Results map[string][]models.Recommendation `json:"results"`
}

// GroupTrendPoint aggregates one run's recommendations for a single
// group.
type GroupTrendPoint struct {
	RunID           string    `json:"run_id"`
	StartedAt       time.Time `json:"started_at"`
	BestScore       float64   `json:"best_score"`
	MeanScore       float64   `json:"mean_score"`
	Recommendations int       `json:"recommendations"`
}

// ActivityRank aggregates one activity's recommendations across
// archived runs.
type ActivityRank struct {
	ActivityID   string  `json:"activity_id"`
	ActivityName string  `json:"activity_name"`
	Appearances  int     `json:"appearances"`
	MeanScore    float64 `json:"mean_score"`
	BestScore    float64 `json:"best_score"`
}

// RecentRuns returns run summaries ordered newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) (runs []RunRecord, err error) {
	start := time.Now()
	defer func() { metrics.RecordHistoryQuery("recent_runs", time.Since(start), err) }()

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	if limit <= 0 {
		limit = defaultQueryLimit
	}

	rows, err := s.conn.QueryContext(ctx, `
	SELECT run_id, dataset_revision, started_at, duration_ms, cache_hit,
		groups, activities, recommendations, gate_rejections
	FROM runs
	ORDER BY started_at DESC, run_id
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer rows.Close()

	// Initialize as empty slice so JSON serializes [] instead of null.
	runs = []RunRecord{}
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.DatasetRevision, &r.StartedAt, &r.DurationMS, &r.CacheHit,
			&r.Groups, &r.Activities, &r.Recommendations, &r.GateRejections); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one archived run with its recommendation rows grouped
// by group id and ordered by rank. Returns ErrRunNotFound for unknown
// run ids.
func (s *Store) GetRun(ctx context.Context, runID string) (detail *RunDetail, err error) {
	start := time.Now()
	defer func() { metrics.RecordHistoryQuery("get_run", time.Since(start), err) }()

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	var r RunRecord
	err = s.conn.QueryRowContext(ctx, `
	SELECT run_id, dataset_revision, started_at, duration_ms, cache_hit,
		groups, activities, recommendations, gate_rejections
	FROM runs
	WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.DatasetRevision, &r.StartedAt, &r.DurationMS, &r.CacheHit,
			&r.Groups, &r.Activities, &r.Recommendations, &r.GateRejections)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run %s: %w", runID, err)
	}

	rows, err := s.conn.QueryContext(ctx, `
	SELECT group_id, activity_id, activity_name, slot_start, slot_end,
		slot_score, activity_score, total_score, location, price_eur, distance_km
	FROM recommendations
	WHERE run_id = ?
	ORDER BY group_id, rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations for run %s: %w", runID, err)
	}
	defer rows.Close()

	results := map[string][]models.Recommendation{}
	for rows.Next() {
		var (
			rec      models.Recommendation
			location sql.NullString
			price    sql.NullFloat64
			distance sql.NullFloat64
		)
		if err := rows.Scan(&rec.GroupID, &rec.ActivityID, &rec.ActivityName, &rec.SlotStart, &rec.SlotEnd,
			&rec.SlotScore, &rec.ActivityScore, &rec.TotalScore, &location, &price, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation row: %w", err)
		}
		if location.Valid {
			rec.Location = &location.String
		}
		if price.Valid {
			rec.PriceEUR = &price.Float64
		}
		if distance.Valid {
			rec.DistanceKM = &distance.Float64
		}
		results[rec.GroupID] = append(results[rec.GroupID], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recommendation rows: %w", err)
	}

	return &RunDetail{RunRecord: r, Results: results}, nil
}

// GroupTrend returns per-run score aggregates for one group, newest
// run first, covering at most limit runs.
func (s *Store) GroupTrend(ctx context.Context, groupID string, limit int) (points []GroupTrendPoint, err error) {
	start := time.Now()
	defer func() { metrics.RecordHistoryQuery("group_trend", time.Since(start), err) }()

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	if limit <= 0 {
		limit = defaultQueryLimit
	}

	rows, err := s.conn.QueryContext(ctx, `
	SELECT r.run_id, r.started_at,
		MAX(rec.total_score) AS best_score,
		AVG(rec.total_score) AS mean_score,
		COUNT(*) AS recommendations
	FROM runs r
	JOIN recommendations rec ON rec.run_id = r.run_id
	WHERE rec.group_id = ?
	GROUP BY r.run_id, r.started_at
	ORDER BY r.started_at DESC, r.run_id
	LIMIT ?`, groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query group trend: %w", err)
	}
	defer rows.Close()

	points = []GroupTrendPoint{}
	for rows.Next() {
		var p GroupTrendPoint
		if err := rows.Scan(&p.RunID, &p.StartedAt, &p.BestScore, &p.MeanScore, &p.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to scan trend row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// TopActivities ranks activities recommended since the given time by
// mean total score.
func (s *Store) TopActivities(ctx context.Context, since time.Time, limit int) (ranks []ActivityRank, err error) {
	start := time.Now()
	defer func() { metrics.RecordHistoryQuery("top_activities", time.Since(start), err) }()

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	if limit <= 0 {
		limit = defaultQueryLimit
	}

	rows, err := s.conn.QueryContext(ctx, `
	SELECT rec.activity_id, rec.activity_name,
		COUNT(*) AS appearances,
		AVG(rec.total_score) AS mean_score,
		MAX(rec.total_score) AS best_score
	FROM recommendations rec
	JOIN runs r ON r.run_id = rec.run_id
	WHERE r.started_at >= ?
	GROUP BY rec.activity_id, rec.activity_name
	ORDER BY mean_score DESC, appearances DESC, rec.activity_id
	LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top activities: %w", err)
	}
	defer rows.Close()

	ranks = []ActivityRank{}
	for rows.Next() {
		var a ActivityRank
		if err := rows.Scan(&a.ActivityID, &a.ActivityName, &a.Appearances, &a.MeanScore, &a.BestScore); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		ranks = append(ranks, a)
	}
	return ranks, rows.Err()
}
