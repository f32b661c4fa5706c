// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package scoring implements the two scoring functions of the
// recommendation pipeline: temporal desirability of a time slot and
// attractiveness of an activity.
//
// Slot scoring is a weighted sum of four components derived from the
// slot's start time, weekday, duration, and the group's availability
// ratio:
//
//	slot = 0.35*day + 0.2*(hourBand*weekdayFactor) + 0.25*groupFit + 0.2*duration
//
// Activity scoring combines a proximity bucket and a cost bucket:
//
//	activity = 0.6*proximity + 0.4*cost
//
// All lookup tables live in tables.go as immutable data so boundary
// behavior can be tested directly. Every function here is pure and
// safe for concurrent use.
package scoring
