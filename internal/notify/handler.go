// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package notify

import (
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/conventus/internal/events"
	"github.com/tomtom215/conventus/internal/logging"
)

// ConsumerName identifies the webhook consumer on the event router.
const ConsumerName = "webhook-notifier"

// NewRunCompletedHandler returns a Watermill handler that posts run
// summaries to the configured webhook targets.
//
// The handler always acks. Per-target retry and circuit breaking
// happen inside the notifier, and a router-level redelivery would
// re-post to targets that already accepted the delivery.
func NewRunCompletedHandler(notifier *Notifier) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		event, err := events.DeserializeRunCompleted(msg.Payload)
		if err != nil {
			logging.Warn().
				Err(err).
				Str("message_uuid", msg.UUID).
				Msg("Dropping malformed run.completed event")
			return nil
		}

		if err := notifier.NotifyRunCompleted(msg.Context(), event); err != nil {
			logging.Warn().
				Err(err).
				Str("run_id", event.RunID).
				Msg("Webhook delivery incomplete")
		}
		return nil
	}
}
