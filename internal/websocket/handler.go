// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package websocket

import (
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/conventus/internal/events"
	"github.com/tomtom215/conventus/internal/logging"
)

// Consumer names registered on the event router.
const (
	ConsumerNameRunCompleted   = "ws-run-completed"
	ConsumerNameDatasetUpdated = "ws-dataset-updated"
)

// NewRunCompletedHandler returns a router handler that pushes run
// summaries to connected WebSocket clients.
//
// The handler always acks. Broadcasts are best-effort fan-out to
// whoever is connected right now; redelivering a missed frame to
// clients that connected later has no value.
func NewRunCompletedHandler(hub *Hub) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		event, err := events.DeserializeRunCompleted(msg.Payload)
		if err != nil {
			logging.Warn().
				Err(err).
				Str("message_uuid", msg.UUID).
				Msg("Dropping malformed run.completed event")
			return nil
		}

		hub.BroadcastRunCompleted(event)
		return nil
	}
}

// NewDatasetUpdatedHandler returns a router handler that announces
// accepted dataset revisions to connected WebSocket clients.
func NewDatasetUpdatedHandler(hub *Hub) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		event, err := events.DeserializeDatasetUpdated(msg.Payload)
		if err != nil {
			logging.Warn().
				Err(err).
				Str("message_uuid", msg.UUID).
				Msg("Dropping malformed dataset.updated event")
			return nil
		}

		hub.BroadcastDatasetUpdated(event)
		return nil
	}
}
