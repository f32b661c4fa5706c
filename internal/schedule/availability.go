// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package schedule

// IsFree reports whether a calendar with the given busy intervals is
// free for the whole slot.
//
// A single overlapping busy interval makes the slot unavailable. An
// empty or nil busy list is always free. Busy intervals need no
// ordering and may overlap each other; they are checked independently.
func IsFree(busy []Interval, slot Interval) bool {
	for _, b := range busy {
		if b.Overlaps(slot) {
			return false
		}
	}
	return true
}
