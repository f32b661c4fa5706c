// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package schedule

import "time"

// Interval is a half-open time interval [Start, End).
//
// Start < End is expected but not enforced: inverted or zero-length
// intervals pass through the overlap arithmetic mechanically and never
// overlap anything, which matches how upstream calendar data treats
// them.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether iv and other intersect.
//
// Semantics are strictly half-open: two intervals overlap iff each one
// starts before the other ends. Touching intervals (one ends exactly
// when the other starts) do NOT overlap, so back-to-back calendar
// blocks never conflict.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Duration returns End minus Start. Negative for inverted intervals.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Hours returns the interval length in fractional hours.
func (iv Interval) Hours() float64 {
	return iv.Duration().Hours()
}
