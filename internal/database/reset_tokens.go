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

// ResetTokenStore persists password reset OTPs.
type ResetTokenStore struct {
	db *DB
}

// NewResetTokenStore creates a reset token store over the shared database handle.
func NewResetTokenStore(db *DB) *ResetTokenStore {
	return &ResetTokenStore{db: db}
}

// Create inserts a new reset token.
func (s *ResetTokenStore) Create(ctx context.Context, t *models.PasswordResetToken) error {
	t.CreatedAt = time.Now().UTC()
	t.Used = false
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (email, otp, expires_at, used, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.Email, t.OTP, t.ExpiresAt, t.Used, t.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading reset token id: %w", err)
	}
	t.ID = id
	return nil
}

// FindValid returns the newest unused, unexpired token matching the
// email and OTP, or ErrNotFound.
func (s *ResetTokenStore) FindValid(ctx context.Context, email, otp string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	err := s.db.GetContext(ctx, &t,
		`SELECT * FROM password_reset_tokens
		 WHERE email = ? AND otp = ? AND used = 0 AND expires_at > ?
		 ORDER BY created_at DESC
		 LIMIT 1`,
		email, otp, time.Now().UTC())
	if err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

// MarkUsed consumes the token so it cannot be replayed.
func (s *ResetTokenStore) MarkUsed(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE password_reset_tokens SET used = 1 WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// InvalidateForEmail marks every outstanding token for the email used.
// Called before issuing a new OTP so only the latest code works.
func (s *ResetTokenStore) InvalidateForEmail(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE password_reset_tokens SET used = 1 WHERE email = ? AND used = 0`,
		email)
	return mapErr(err)
}
