// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package schedule provides the time-interval primitives the
// recommendation pipeline is built on: half-open interval overlap
// checks and per-user availability filtering against busy calendars.
//
// All functions are pure and safe for concurrent use. Intervals are
// half-open [Start, End): an interval ending at 10:00 does not overlap
// one starting at 10:00. Degenerate intervals (Start >= End) are
// accepted without validation; the overlap arithmetic still applies.
package schedule
