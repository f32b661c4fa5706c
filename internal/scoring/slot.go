// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package scoring

import "time"

// SlotScore computes the temporal desirability of a slot for a group.
//
// groupSize is the number of resolvable group members considered;
// availableSize the number of them free for the slot. The caller's
// availability gate means the two are equal in practice, so the
// group-fit component contributes a flat 2.5 for any non-empty group
// and 0 when availableSize is zero (guarding the division).
//
// The weekday and hour are taken from the slot start only; a slot
// crossing midnight is scored by the day it begins.
func SlotScore(start, end time.Time, groupSize, availableSize int) float64 {
	wd := start.Weekday()

	score := DayScore(wd) * dayWeight
	score += HourBandScore(wd, start.Hour()) * WeekdayFactor(wd) * windowWeight
	score += GroupFit(groupSize, availableSize) * groupFitWeight
	score += DurationScore(end.Sub(start).Hours()) * durationWeight
	return score
}

// HourBandScore looks up the desirability of an hour of day for the
// given weekday. Hours outside every band score the default 1.
func HourBandScore(wd time.Weekday, hour int) float64 {
	for _, b := range bandsFor(wd) {
		if hour >= b.From && hour < b.To {
			return b.Score
		}
	}
	return hourBandDefault
}

// GroupFit scores what fraction of the group can attend, on a 0..10
// scale. Zero availableSize contributes zero rather than dividing.
func GroupFit(groupSize, availableSize int) float64 {
	if availableSize <= 0 {
		return 0
	}
	return float64(groupSize) / float64(availableSize) * 10
}

// DurationScore buckets a slot length in hours. Thresholds are strict:
// a slot must exceed a boundary to earn its bucket, so exactly one,
// two, three or four hours score the lower band.
func DurationScore(hours float64) float64 {
	switch {
	case hours < 1:
		return 1
	case hours > 4:
		return 10
	case hours > 3:
		return 8
	case hours > 2:
		return 5
	case hours > 1:
		return 3
	default:
		return 1
	}
}
