// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package api

import (
	"context"

	"github.com/tomtom215/conventus/internal/events"
	"github.com/tomtom215/conventus/internal/logging"
	"github.com/tomtom215/conventus/internal/models"
	"github.com/tomtom215/conventus/internal/recommend"
)

// EventPublisher defines the interface for publishing run lifecycle
// events to the bus. Both the in-process gochannel bus and the NATS
// variant satisfy it.
type EventPublisher interface {
	// PublishRunCompleted publishes a run-completed event.
	// Errors should be logged but never fail the originating request.
	PublishRunCompleted(ctx context.Context, event *events.RunCompleted) error

	// PublishDatasetUpdated publishes a dataset-updated event.
	PublishDatasetUpdated(ctx context.Context, event *events.DatasetUpdated) error
}

// SetEventPublisher sets the optional event publisher for bus integration.
// When set, dataset uploads and completed runs are announced after the
// HTTP response is committed. The publisher is optional - passing nil
// disables event publishing.
//
// Thread Safety: Safe for concurrent access but should be called once during startup.
func (h *Handler) SetEventPublisher(publisher EventPublisher) {
	h.publisher = publisher
}

// publishRunCompleted announces a finished run on the event bus if a
// publisher is configured. Publishing is asynchronous and best-effort;
// the compute response never waits on the bus or fails because of it.
func (h *Handler) publishRunCompleted(result *recommend.RunResult) {
	if h.publisher == nil || result == nil {
		return
	}

	event := events.NewRunCompleted(result)
	go func() {
		// Detached from the request context: the response is already
		// on the wire when this runs.
		if err := h.publisher.PublishRunCompleted(context.Background(), event); err != nil {
			logging.Warn().Err(err).Str("run_id", result.RunID).Msg("Failed to publish run-completed event")
		}
	}()
}

// publishDatasetUpdated announces a stored dataset revision on the
// event bus if a publisher is configured.
func (h *Handler) publishDatasetUpdated(meta *models.DatasetMeta) {
	if h.publisher == nil || meta == nil {
		return
	}

	event := events.NewDatasetUpdated(meta)
	go func() {
		if err := h.publisher.PublishDatasetUpdated(context.Background(), event); err != nil {
			logging.Warn().Err(err).Uint64("revision", meta.Revision).Msg("Failed to publish dataset-updated event")
		}
	}()
}
