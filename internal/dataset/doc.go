// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package dataset handles intake and storage of recommendation input
// documents.
//
// The loader decodes the external JSON document format (users with
// busy calendars, groups, candidate activities) into typed records,
// parsing every timestamp once at the boundary. The store keeps each
// accepted document as an immutable revision in BadgerDB and tracks
// which revision is current.
//
// Document format:
//
//	{
//	  "users": [
//	    {"id": "alice", "calendar_busy": [
//	      {"start": "2026-03-06T18:00:00", "end": "2026-03-06T19:00:00"}
//	    ]}
//	  ],
//	  "groups": [
//	    {"id": "crew", "members": ["alice", "bob"]}
//	  ],
//	  "activities": [
//	    {"id": "act-1", "name": "Bowling",
//	     "start": "2026-03-06T19:00:00", "end": "2026-03-06T21:30:00",
//	     "location": "Lanes 7", "price_eur": 20, "distance_km": 2}
//	  ]
//	}
//
// Timestamps are accepted in RFC3339 form or as naive local stamps
// without a zone. A document with any malformed timestamp is rejected
// whole; there are no partial loads.
package dataset
