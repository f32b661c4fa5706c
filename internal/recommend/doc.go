// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package recommend implements the group recommendation engine: the
// orchestration layer that turns a dataset (users, groups, activities)
// into a ranked recommendation list per group.
//
// For every (group, activity) pair the engine resolves the group's
// members, checks that every single member is free for the activity's
// slot, and only then scores the pair. Partial availability produces
// nothing; the gate is all-or-nothing. Scores come from the scoring
// package; the engine combines them, rounds for presentation, and
// stable-sorts each group's list by total score descending, so equal
// totals keep the input order of activities.
//
// Groups are independent, so the engine evaluates them on a bounded
// worker pool. Results are assembled positionally, making the output
// identical to a sequential evaluation regardless of worker count.
//
// The engine has no I/O of its own. Dataset loading, persistence, and
// presentation live in their own packages; an in-memory result cache
// keyed by dataset revision avoids recomputing unchanged inputs.
package recommend
