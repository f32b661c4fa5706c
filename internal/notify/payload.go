// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package notify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/tomtom215/conventus/internal/events"
)

// Headers attached to every delivery.
const (
	// HeaderSignature carries the hex HMAC-SHA256 digest of the body.
	HeaderSignature = "X-Conventus-Signature"

	// HeaderEvent names the event type, currently run.completed.
	HeaderEvent = "X-Conventus-Event"

	// HeaderDelivery carries the event id for receiver-side
	// deduplication.
	HeaderDelivery = "X-Conventus-Delivery"
)

// RunSummary is the webhook payload for a completed run. It carries
// the summary counters only, never the per-group results.
type RunSummary struct {
	Event           string    `json:"event"`
	RunID           string    `json:"run_id"`
	DatasetRevision uint64    `json:"dataset_revision,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	ElapsedMS       int64     `json:"elapsed_ms"`
	Groups          int       `json:"groups"`
	Activities      int       `json:"activities"`
	Recommendations int       `json:"recommendations"`
	GateRejections  int       `json:"gate_rejections"`
	CacheHit        bool      `json:"cache_hit,omitempty"`
}

// NewRunSummary strips a run.completed envelope down to its webhook
// form.
func NewRunSummary(event *events.RunCompleted) *RunSummary {
	return &RunSummary{
		Event:           events.TopicRunCompleted,
		RunID:           event.RunID,
		DatasetRevision: event.DatasetRevision,
		StartedAt:       event.StartedAt,
		ElapsedMS:       event.ElapsedMS,
		Groups:          event.Groups,
		Activities:      event.Activities,
		Recommendations: event.Recommendations,
		GateRejections:  event.GateRejections,
		CacheHit:        event.CacheHit,
	}
}

// Sign computes the hex HMAC-SHA256 digest receivers recompute to
// verify payload authenticity.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
