// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package models

import (
	"time"

	"github.com/tomtom215/conventus/internal/schedule"
)

// User is a participant with a busy calendar. Users are read-only
// inputs; the engine never mutates them.
type User struct {
	ID   string
	Busy []schedule.Interval
}

// Group is a named set of member user ids. Member order carries no
// meaning. Members that resolve to no known user are silently dropped
// during evaluation, not rejected.
type Group struct {
	ID      string
	Members []string
}

// Activity is a candidate event with a fixed time slot.
//
// RawStart and RawEnd keep the exact timestamp text from the input
// document; recommendations pass them through to the output without
// reformatting. Slot holds the parsed times the engine computes with.
type Activity struct {
	ID       string
	Name     string
	Slot     schedule.Interval
	RawStart string
	RawEnd   string

	// Optional attributes. Nil means the input omitted the field;
	// scoring coalesces nil and zero to its documented defaults while
	// the output preserves the original value.
	Location   *string
	PriceEUR   *float64
	DistanceKM *float64
}

// Dataset is one complete input document: every collection the engine
// needs for a run. Revision is zero for ad-hoc datasets that never
// touched the store.
type Dataset struct {
	Revision   uint64
	UploadedAt time.Time
	Users      []User
	Groups     []Group
	Activities []Activity
}

// DatasetMeta summarizes a stored dataset revision for listings.
type DatasetMeta struct {
	Revision   uint64    `json:"revision"`
	UploadedAt time.Time `json:"uploaded_at"`
	Users      int       `json:"users"`
	Groups     int       `json:"groups"`
	Activities int       `json:"activities"`
	Checksum   string    `json:"checksum"`
	Current    bool      `json:"current"`
}

// Recommendation is one scored (group, activity) pairing that passed
// the availability gate. It exists only inside a run result; nothing
// persists it except the optional history archive.
//
// Field names and JSON keys follow the established output contract of
// the recommendation API: camelCase for derived fields, snake_case for
// the passthrough activity attributes.
type Recommendation struct {
	GroupID       string   `json:"groupId"`
	ActivityID    string   `json:"activityId"`
	ActivityName  string   `json:"activityName"`
	SlotStart     string   `json:"slotStart"`
	SlotEnd       string   `json:"slotEnd"`
	SlotScore     float64  `json:"slotScore"`
	ActivityScore float64  `json:"activityScore"`
	TotalScore    float64  `json:"totalScore"`
	Location      *string  `json:"location"`
	PriceEUR      *float64 `json:"price_eur"`
	DistanceKM    *float64 `json:"distance_km"`
}
