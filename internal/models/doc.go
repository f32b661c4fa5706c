// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package models defines the shared domain types of the recommendation
// pipeline (users, groups, activities, recommendations, datasets) and
// the API envelope types every HTTP endpoint responds with.
//
// Domain records are immutable once loaded: the dataset loader builds
// them at the input boundary and every later stage only reads them.
// Optional activity attributes (location, price, distance) are
// pointers so that "absent" survives the round trip to the output
// untouched; scoring substitutes its own defaults without mutating the
// record.
package models
