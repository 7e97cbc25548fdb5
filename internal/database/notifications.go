// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/taskbuddy/taskbuddy/internal/models"
)

// NotificationStore persists notifications.
type NotificationStore struct {
	db *DB
}

// NewNotificationStore creates a notification store over the shared database handle.
func NewNotificationStore(db *DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// Create inserts a new unread notification.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	n.CreatedAt = time.Now().UTC()
	n.Read = false
	if n.Type == "" {
		n.Type = models.NotificationGeneral
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (message, type, recipient_id, read, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		n.Message, n.Type, n.RecipientID, n.Read, n.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading notification id: %w", err)
	}
	n.ID = id
	return nil
}

// GetByID fetches a notification by primary key.
func (s *NotificationStore) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	var n models.Notification
	err := s.db.GetContext(ctx, &n, `SELECT * FROM notifications WHERE id = ?`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &n, nil
}

// ListUnread returns the recipient's unread notifications, newest first.
func (s *NotificationStore) ListUnread(ctx context.Context, recipientID int64) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.SelectContext(ctx, &notifications,
		`SELECT * FROM notifications
		 WHERE recipient_id = ? AND read = 0
		 ORDER BY created_at DESC`, recipientID)
	if err != nil {
		return nil, mapErr(err)
	}
	return notifications, nil
}

// MarkRead marks a single notification read.
func (s *NotificationStore) MarkRead(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// MarkAllRead marks all of the recipient's notifications read.
func (s *NotificationStore) MarkAllRead(ctx context.Context, recipientID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE recipient_id = ? AND read = 0`,
		recipientID)
	return mapErr(err)
}

// CountUnread returns the number of unread notifications for the recipient.
func (s *NotificationStore) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND read = 0`,
		recipientID)
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}
