// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package service

import (
	"context"
	"fmt"

	"github.com/taskbuddy/taskbuddy/internal/database"
	"github.com/taskbuddy/taskbuddy/internal/logging"
	"github.com/taskbuddy/taskbuddy/internal/models"
)

// Deliverer pushes a persisted notification to the recipient's open
// real-time channels. Delivery is best effort; failures never surface to
// the business operation that raised the notification.
type Deliverer interface {
	Deliver(n *models.Notification)
}

// NotificationService persists notifications and hands them to the
// real-time deliverer.
type NotificationService struct {
	notifications *database.NotificationStore
	users         *database.UserStore
	deliverer     Deliverer
}

func NewNotificationService(notifications *database.NotificationStore, users *database.UserStore, deliverer Deliverer) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		deliverer:     deliverer,
	}
}

// Create persists a notification for recipientID and pushes it to the
// recipient's open channels. The recipient must exist.
func (s *NotificationService) Create(ctx context.Context, recipientID int64, message string, typ models.NotificationType) (*models.Notification, error) {
	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("User not found with ID: %d", recipientID)
		}
		return nil, err
	}
	return s.create(ctx, recipientID, message, typ)
}

// Unread returns the recipient's unread notifications, newest first.
func (s *NotificationService) Unread(ctx context.Context, recipientID int64) ([]models.Notification, error) {
	return s.notifications.ListUnread(ctx, recipientID)
}

// MarkRead marks a single notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		if database.IsNotFound(err) {
			return notFoundf("Notification not found with ID: %d", id)
		}
		return err
	}
	return nil
}

// MarkAllRead marks every unread notification for the recipient as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID int64) error {
	return s.notifications.MarkAllRead(ctx, recipientID)
}

// CountUnread returns the recipient's unread notification count.
func (s *NotificationService) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	return s.notifications.CountUnread(ctx, recipientID)
}

func (s *NotificationService) create(ctx context.Context, recipientID int64, message string, typ models.NotificationType) (*models.Notification, error) {
	n := &models.Notification{
		Message:     message,
		Type:        typ,
		RecipientID: recipientID,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	if s.deliverer != nil {
		s.deliverer.Deliver(n)
	}
	return n, nil
}

// notify persists and delivers a notification raised by a business
// operation. A missing recipient or a store failure is logged and swallowed
// so the triggering operation still succeeds.
func (s *NotificationService) notify(ctx context.Context, recipientID int64, message string, typ models.NotificationType) {
	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		logging.Debug().
			Int64("recipient_id", recipientID).
			Str("type", string(typ)).
			Msg("Notification recipient missing, skipping")
		return
	}
	if _, err := s.create(ctx, recipientID, message, typ); err != nil {
		logging.Warn().
			Err(err).
			Int64("recipient_id", recipientID).
			Str("type", string(typ)).
			Msg("Failed to create notification")
	}
}

// NotifyTaskAssigned tells a user they were assigned a task.
func (s *NotificationService) NotifyTaskAssigned(ctx context.Context, recipientID int64, taskTitle, projectName string) {
	msg := fmt.Sprintf("You have been assigned to task '%s' in project '%s'", taskTitle, projectName)
	s.notify(ctx, recipientID, msg, models.NotificationTaskAssigned)
}

// NotifyProjectInvitation tells a user they were invited to a project.
func (s *NotificationService) NotifyProjectInvitation(ctx context.Context, recipientID int64, projectName, inviterName string) {
	msg := fmt.Sprintf("%s invited you to join project '%s'", inviterName, projectName)
	s.notify(ctx, recipientID, msg, models.NotificationProjectInvitation)
}

// NotifyTaskStatusChanged tells the project manager a task changed status.
func (s *NotificationService) NotifyTaskStatusChanged(ctx context.Context, recipientID int64, taskTitle string, status models.TaskStatus) {
	msg := fmt.Sprintf("Task '%s' status changed to %s", taskTitle, status)
	s.notify(ctx, recipientID, msg, models.NotificationTaskStatusChanged)
}

// NotifyProjectStatusChanged tells a project member the project changed
// status.
func (s *NotificationService) NotifyProjectStatusChanged(ctx context.Context, recipientID int64, projectName string, status models.ProjectStatus) {
	msg := fmt.Sprintf("Project '%s' status changed to %s", projectName, status)
	s.notify(ctx, recipientID, msg, models.NotificationProjectStatusChanged)
}

// NotifyNewComment tells a user somebody commented on their task or
// project.
func (s *NotificationService) NotifyNewComment(ctx context.Context, recipientID int64, commenterName, target string) {
	msg := fmt.Sprintf("%s commented on '%s'", commenterName, target)
	s.notify(ctx, recipientID, msg, models.NotificationNewComment)
}

// NotifyInvitationAccepted tells the inviter their invitation was accepted.
func (s *NotificationService) NotifyInvitationAccepted(ctx context.Context, recipientID int64, accepterName, projectName string) {
	msg := fmt.Sprintf("%s accepted your invitation to join project '%s'", accepterName, projectName)
	s.notify(ctx, recipientID, msg, models.NotificationInvitationAccepted)
}
