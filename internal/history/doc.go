// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package history archives completed recommendation runs in DuckDB.
//
// The archive consumes run.completed events. Each event carries the run
// summary and the full per-group recommendation table, and ArchiveRun
// writes both in a single transaction keyed by run id, so a redelivered
// event never produces a second copy.
//
// Query methods back the /api/v1/history endpoints:
//
//   - RecentRuns: newest run summaries
//   - GetRun: one run with its recommendation rows restored per group
//   - GroupTrend: best and mean total score per run for one group
//   - TopActivities: activities ranked by mean total score over a window
//
// RetentionService deletes runs older than the configured window and is
// meant to run under the supervision tree.
package history
