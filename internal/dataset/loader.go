// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package dataset

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/conventus/internal/models"
	"github.com/tomtom215/conventus/internal/schedule"
	"github.com/tomtom215/conventus/internal/validation"
)

// timestampLayouts are tried in order. RFC3339 covers stamps with an
// offset or Z suffix; the second layout accepts naive local stamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Parse decodes and validates one dataset document. Every timestamp
// is parsed here; a single malformed stamp rejects the whole
// document. The original timestamp text of activity slots is kept for
// output passthrough.
func Parse(data []byte) (*models.Dataset, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode dataset document: %w", err)
	}

	if verr := validation.ValidateStruct(&doc); verr != nil {
		return nil, fmt.Errorf("validate dataset document: %w", verr)
	}

	return convert(&doc)
}

// ParseTimestamp parses one timestamp in any accepted layout.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// convert builds the typed dataset from a decoded document.
func convert(doc *Document) (*models.Dataset, error) {
	ds := &models.Dataset{
		Users:      make([]models.User, 0, len(doc.Users)),
		Groups:     make([]models.Group, 0, len(doc.Groups)),
		Activities: make([]models.Activity, 0, len(doc.Activities)),
	}

	for _, u := range doc.Users {
		busy := make([]schedule.Interval, 0, len(u.Busy))
		for i, span := range u.Busy {
			iv, err := parseSpan(span)
			if err != nil {
				return nil, fmt.Errorf("user %q calendar_busy[%d]: %w", u.ID, i, err)
			}
			busy = append(busy, iv)
		}
		ds.Users = append(ds.Users, models.User{ID: u.ID, Busy: busy})
	}

	for _, g := range doc.Groups {
		ds.Groups = append(ds.Groups, models.Group{ID: g.ID, Members: g.Members})
	}

	for _, a := range doc.Activities {
		slot, err := parseSpan(SpanDocument{Start: a.Start, End: a.End})
		if err != nil {
			return nil, fmt.Errorf("activity %q: %w", a.ID, err)
		}

		ds.Activities = append(ds.Activities, models.Activity{
			ID:         a.ID,
			Name:       a.Name,
			Slot:       slot,
			RawStart:   a.Start,
			RawEnd:     a.End,
			Location:   a.Location,
			PriceEUR:   a.PriceEUR,
			DistanceKM: a.DistanceKM,
		})
	}

	return ds, nil
}

// parseSpan parses a start/end pair into an interval.
func parseSpan(span SpanDocument) (schedule.Interval, error) {
	start, err := ParseTimestamp(span.Start)
	if err != nil {
		return schedule.Interval{}, fmt.Errorf("start: %w", err)
	}

	end, err := ParseTimestamp(span.End)
	if err != nil {
		return schedule.Interval{}, fmt.Errorf("end: %w", err)
	}

	return schedule.Interval{Start: start, End: end}, nil
}
