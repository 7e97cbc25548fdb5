// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package models

import "time"

// NotificationType tags a notification with the domain event that raised it.
type NotificationType string

const (
	NotificationTaskAssigned         NotificationType = "TASK_ASSIGNED"
	NotificationTaskStatusChanged    NotificationType = "TASK_STATUS_CHANGED"
	NotificationProjectStatusChanged NotificationType = "PROJECT_STATUS_CHANGED"
	NotificationProjectInvitation    NotificationType = "PROJECT_INVITATION"
	NotificationInvitationAccepted   NotificationType = "INVITATION_ACCEPTED"
	NotificationNewComment           NotificationType = "NEW_COMMENT"
	NotificationGeneral              NotificationType = "GENERAL"
)

// ParseNotificationType converts a client-provided type string, returning
// false when the value is not a known type.
func ParseNotificationType(s string) (NotificationType, bool) {
	switch NotificationType(s) {
	case NotificationTaskAssigned, NotificationTaskStatusChanged,
		NotificationProjectStatusChanged, NotificationProjectInvitation,
		NotificationInvitationAccepted, NotificationNewComment, NotificationGeneral:
		return NotificationType(s), true
	}
	return "", false
}

// Notification is a message addressed to a single recipient. It is created
// unread and mutated only by the mark-read operation; the dispatcher pushes
// it to every open channel the recipient currently holds.
type Notification struct {
	ID          int64            `db:"id" json:"id"`
	Message     string           `db:"message" json:"message"`
	Type        NotificationType `db:"type" json:"type"`
	RecipientID int64            `db:"recipient_id" json:"recipientId"`
	Read        bool             `db:"read" json:"read"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}
