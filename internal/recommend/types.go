// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package recommend

import (
	"time"

	"github.com/tomtom215/conventus/internal/models"
)

// RunResult is the outcome of one engine run over a dataset.
//
// Recommendations maps each group id to its ranked list; groups with
// no activity passing the availability gate map to an empty list, not
// a missing key. GroupOrder preserves the dataset's group order for
// presenters that need deterministic iteration.
type RunResult struct {
	RunID           string    `json:"runId"`
	DatasetRevision uint64    `json:"datasetRevision,omitempty"`
	StartedAt       time.Time `json:"startedAt"`
	ElapsedMS       int64     `json:"elapsedMs"`
	CacheHit        bool      `json:"cacheHit,omitempty"`

	Groups              int `json:"groups"`
	Activities          int `json:"activities"`
	PairsEvaluated      int `json:"pairsEvaluated"`
	GateRejections      int `json:"gateRejections"`
	RecommendationCount int `json:"recommendationCount"`

	Recommendations map[string][]models.Recommendation `json:"recommendations"`
	GroupOrder      []string                           `json:"-"`
}

// Stats is a snapshot of the engine's lifetime counters.
type Stats struct {
	Runs        int64 `json:"runs"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Errors      int64 `json:"errors"`
}

// groupEval is the per-group evaluation outcome collected by the
// worker pool. Results are stored positionally so assembly order never
// depends on scheduling.
type groupEval struct {
	groupID        string
	recs           []models.Recommendation
	pairs          int
	gateRejections int
}
