// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package history

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/conventus/internal/events"
	"github.com/tomtom215/conventus/internal/logging"
)

// ConsumerName identifies the archive consumer on the event router.
const ConsumerName = "history-archiver"

// NewRunCompletedHandler returns a Watermill handler that archives
// run.completed events.
//
// Malformed payloads are logged and acknowledged so the broker does
// not redeliver them. Archive failures are returned so the router's
// retry middleware redelivers the message.
func NewRunCompletedHandler(store *Store) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		event, err := events.DeserializeRunCompleted(msg.Payload)
		if err != nil {
			logging.Warn().
				Err(err).
				Str("message_uuid", msg.UUID).
				Msg("Dropping malformed run.completed event")
			return nil
		}

		if err := store.ArchiveRun(msg.Context(), event); err != nil {
			return fmt.Errorf("archive run %s: %w", event.RunID, err)
		}
		return nil
	}
}
