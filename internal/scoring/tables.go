// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package scoring

import "time"

// Component weights of the combined slot score. They sum to 1.0 so the
// slot score stays on the same 1..10 scale as its components.
const (
	dayWeight      = 0.35
	windowWeight   = 0.2
	groupFitWeight = 0.25
	durationWeight = 0.2
)

// Weights of the combined activity score.
const (
	proximityWeight = 0.6
	costWeight      = 0.4
)

// Defaults substituted for absent or zero-valued activity attributes.
// Substitution happens only inside scoring; output passes the original
// values through untouched.
const (
	DefaultDistanceKM = 5.0
	DefaultPriceEUR   = 10.0
)

// hourBand maps a half-open hour range [From, To) of a day to a score.
type hourBand struct {
	From  int
	To    int
	Score float64
}

// hourBandDefault applies when a slot's start hour matches no band.
const hourBandDefault = 1.0

// Per-weekday hour-band tables. Early weekdays share one table; the
// weekend tables shift weight toward afternoons and evenings.
var (
	earlyWeekBands = []hourBand{
		{0, 8, 1}, {8, 12, 2}, {12, 16, 3}, {16, 18, 4}, {18, 20, 8}, {20, 22, 5}, {22, 24, 2},
	}
	thursdayBands = []hourBand{
		{0, 8, 1}, {8, 12, 2}, {12, 16, 3}, {16, 18, 5}, {18, 20, 8}, {20, 22, 6}, {22, 24, 4},
	}
	fridayBands = []hourBand{
		{0, 8, 1}, {8, 12, 2}, {12, 16, 3}, {16, 18, 5}, {18, 20, 8}, {20, 22, 10}, {22, 24, 8},
	}
	saturdayBands = []hourBand{
		{0, 8, 1}, {8, 12, 2}, {12, 16, 4}, {16, 18, 6}, {18, 20, 8}, {20, 22, 10}, {22, 24, 8},
	}
	sundayBands = []hourBand{
		{0, 8, 1}, {8, 12, 3}, {12, 16, 7}, {16, 18, 8}, {18, 20, 7}, {20, 22, 4}, {22, 24, 1},
	}
)

// bandsFor returns the hour-band table for the given weekday.
func bandsFor(wd time.Weekday) []hourBand {
	switch wd {
	case time.Monday, time.Tuesday, time.Wednesday:
		return earlyWeekBands
	case time.Thursday:
		return thursdayBands
	case time.Friday:
		return fridayBands
	case time.Saturday:
		return saturdayBands
	default:
		return sundayBands
	}
}

// DayScore returns the base desirability of a weekday. Friday and
// Saturday are the fallback branch, so any unmatched weekday scores 10.
func DayScore(wd time.Weekday) float64 {
	switch wd {
	case time.Monday, time.Tuesday, time.Wednesday:
		return 1
	case time.Thursday:
		return 5
	case time.Sunday:
		return 8
	default:
		return 10
	}
}

// WeekdayFactor scales the hour-band score: midweek evenings count for
// a fifth of what the same hour is worth on a Friday night. Sunday is
// the fallback branch.
func WeekdayFactor(wd time.Weekday) float64 {
	switch wd {
	case time.Monday, time.Tuesday, time.Wednesday:
		return 0.2
	case time.Thursday:
		return 0.4
	case time.Friday, time.Saturday:
		return 1.0
	default:
		return 0.8
	}
}
