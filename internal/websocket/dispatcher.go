// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package websocket

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/taskbuddy/taskbuddy/internal/logging"
	"github.com/taskbuddy/taskbuddy/internal/metrics"
	"github.com/taskbuddy/taskbuddy/internal/models"
)

// wireNotification is the JSON frame pushed to clients.
type wireNotification struct {
	ID          int64                   `json:"id"`
	Message     string                  `json:"message"`
	Type        models.NotificationType `json:"type"`
	RecipientID int64                   `json:"recipientId"`
	Read        bool                    `json:"read"`
	CreatedAt   string                  `json:"createdAt"`
}

// Dispatcher pushes notifications to their recipient's open channels.
// Delivery is at-most-once and best-effort: a recipient with no open
// channels misses the push (the notification is still persisted), and
// a channel that cannot accept the message is closed and unregistered
// while the remaining channels still receive it.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over the registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Deliver pushes the notification to every open channel of its
// recipient. It never returns an error; failures are logged and the
// failing channel is pruned.
func (d *Dispatcher) Deliver(n *models.Notification) {
	payload, err := json.Marshal(wireNotification{
		ID:          n.ID,
		Message:     n.Message,
		Type:        n.Type,
		RecipientID: n.RecipientID,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		logging.Error().Err(err).Int64("notification_id", n.ID).Msg("failed to marshal notification")
		return
	}

	channels := d.registry.ChannelsFor(n.RecipientID)
	if len(channels) == 0 {
		logging.Debug().
			Int64("recipient_id", n.RecipientID).
			Int64("notification_id", n.ID).
			Msg("recipient has no open channels, skipping push")
		return
	}

	for _, ch := range channels {
		if ch.Send(payload) {
			metrics.NotificationsDelivered.Inc()
			continue
		}
		// Closed or backed up. Drop the channel so it cannot wedge
		// future deliveries; the rest of the snapshot is unaffected.
		ch.Close()
		d.registry.Unregister(n.RecipientID, ch)
		metrics.NotificationsDropped.Inc()
		logging.Warn().
			Int64("recipient_id", n.RecipientID).
			Int64("notification_id", n.ID).
			Msg("websocket send failed, channel pruned")
	}
}
