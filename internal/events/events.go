// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/conventus/internal/models"
	"github.com/tomtom215/conventus/internal/recommend"
)

// Topics published on the event bus.
const (
	TopicRunCompleted   = "run.completed"
	TopicDatasetUpdated = "dataset.updated"
)

// SchemaVersion is the current event schema version. Increment on
// breaking envelope changes.
const SchemaVersion = 1

// Metadata keys attached to every published message.
const (
	MetadataEventType     = "event_type"
	MetadataSchemaVersion = "schema_version"
)

// RunCompleted announces a finished recommendation run. The envelope
// carries the full per-group results so archival consumers need no
// second lookup; notification consumers read the summary fields and
// ignore Results.
type RunCompleted struct {
	SchemaVersion   int                                `json:"schema_version"`
	EventID         string                             `json:"event_id"`
	RunID           string                             `json:"run_id"`
	DatasetRevision uint64                             `json:"dataset_revision,omitempty"`
	StartedAt       time.Time                          `json:"started_at"`
	ElapsedMS       int64                              `json:"elapsed_ms"`
	Groups          int                                `json:"groups"`
	Activities      int                                `json:"activities"`
	Recommendations int                                `json:"recommendations"`
	GateRejections  int                                `json:"gate_rejections"`
	CacheHit        bool                               `json:"cache_hit,omitempty"`
	Results         map[string][]models.Recommendation `json:"results,omitempty"`
}

// NewRunCompleted builds the envelope for a finished run.
func NewRunCompleted(result *recommend.RunResult) *RunCompleted {
	return &RunCompleted{
		SchemaVersion:   SchemaVersion,
		EventID:         uuid.NewString(),
		RunID:           result.RunID,
		DatasetRevision: result.DatasetRevision,
		StartedAt:       result.StartedAt,
		ElapsedMS:       result.ElapsedMS,
		Groups:          result.Groups,
		Activities:      result.Activities,
		Recommendations: result.RecommendationCount,
		GateRejections:  result.GateRejections,
		CacheHit:        result.CacheHit,
		Results:         result.Recommendations,
	}
}

// Validate checks required envelope fields.
func (e *RunCompleted) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if e.RunID == "" {
		return fmt.Errorf("run_id is required")
	}
	return nil
}

// DatasetUpdated announces an accepted dataset revision.
type DatasetUpdated struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	Revision      uint64    `json:"revision"`
	Users         int       `json:"users"`
	Groups        int       `json:"groups"`
	Activities    int       `json:"activities"`
	Checksum      string    `json:"checksum"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// NewDatasetUpdated builds the envelope for an accepted upload.
func NewDatasetUpdated(meta *models.DatasetMeta) *DatasetUpdated {
	return &DatasetUpdated{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.NewString(),
		Revision:      meta.Revision,
		Users:         meta.Users,
		Groups:        meta.Groups,
		Activities:    meta.Activities,
		Checksum:      meta.Checksum,
		UploadedAt:    meta.UploadedAt,
	}
}

// Validate checks required envelope fields.
func (e *DatasetUpdated) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if e.Revision == 0 {
		return fmt.Errorf("revision is required")
	}
	return nil
}

// Serialize encodes an event envelope to its wire form.
func Serialize(event interface{}) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("serialize event: %w", err)
	}
	return data, nil
}

// DeserializeRunCompleted decodes a run.completed payload.
func DeserializeRunCompleted(data []byte) (*RunCompleted, error) {
	var event RunCompleted
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("deserialize run.completed: %w", err)
	}
	if event.SchemaVersion == 0 {
		event.SchemaVersion = 1
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run.completed event: %w", err)
	}
	return &event, nil
}

// DeserializeDatasetUpdated decodes a dataset.updated payload.
func DeserializeDatasetUpdated(data []byte) (*DatasetUpdated, error) {
	var event DatasetUpdated
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("deserialize dataset.updated: %w", err)
	}
	if event.SchemaVersion == 0 {
		event.SchemaVersion = 1
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset.updated event: %w", err)
	}
	return &event, nil
}
