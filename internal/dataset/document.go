// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package dataset

// Document is the raw wire form of one uploaded dataset. All three
// collections may be empty; ids and timestamps are required where the
// records themselves appear.
type Document struct {
	Users      []UserDocument     `json:"users" validate:"dive"`
	Groups     []GroupDocument    `json:"groups" validate:"dive"`
	Activities []ActivityDocument `json:"activities" validate:"dive"`
}

// UserDocument is one participant and their busy calendar.
type UserDocument struct {
	ID   string         `json:"id" validate:"required"`
	Busy []SpanDocument `json:"calendar_busy" validate:"dive"`
}

// SpanDocument is one busy calendar block as timestamp text.
type SpanDocument struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// GroupDocument is one group of member user ids.
type GroupDocument struct {
	ID      string   `json:"id" validate:"required"`
	Members []string `json:"members"`
}

// ActivityDocument is one candidate activity. Location, price and
// distance are optional; absent and null are equivalent.
type ActivityDocument struct {
	ID         string   `json:"id" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Start      string   `json:"start" validate:"required"`
	End        string   `json:"end" validate:"required"`
	Location   *string  `json:"location"`
	PriceEUR   *float64 `json:"price_eur"`
	DistanceKM *float64 `json:"distance_km"`
}
