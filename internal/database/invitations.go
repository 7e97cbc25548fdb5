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

// InvitationStore persists project invitations.
type InvitationStore struct {
	db *DB
}

// NewInvitationStore creates an invitation store over the shared database handle.
func NewInvitationStore(db *DB) *InvitationStore {
	return &InvitationStore{db: db}
}

// Create inserts a new invitation in PENDING state.
func (s *InvitationStore) Create(ctx context.Context, inv *models.ProjectInvitation) error {
	inv.CreatedAt = time.Now().UTC()
	inv.Status = models.InvitationStatusPending
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO project_invitations (project_id, invited_user_id, invited_by_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		inv.ProjectID, inv.InvitedUserID, inv.InvitedByID, inv.Status, inv.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading invitation id: %w", err)
	}
	inv.ID = id
	return nil
}

// GetByID fetches an invitation by primary key.
func (s *InvitationStore) GetByID(ctx context.Context, id int64) (*models.ProjectInvitation, error) {
	var inv models.ProjectInvitation
	err := s.db.GetContext(ctx, &inv, `SELECT * FROM project_invitations WHERE id = ?`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &inv, nil
}

// HasPending reports whether the user already has a pending invitation
// to the project.
func (s *InvitationStore) HasPending(ctx context.Context, projectID, invitedUserID int64) (bool, error) {
	var n int64
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM project_invitations
		 WHERE project_id = ? AND invited_user_id = ? AND status = ?`,
		projectID, invitedUserID, models.InvitationStatusPending)
	if err != nil {
		return false, mapErr(err)
	}
	return n > 0, nil
}

// ListPendingForUser returns the user's pending invitations, newest first.
func (s *InvitationStore) ListPendingForUser(ctx context.Context, userID int64) ([]models.ProjectInvitation, error) {
	var invs []models.ProjectInvitation
	err := s.db.SelectContext(ctx, &invs,
		`SELECT * FROM project_invitations
		 WHERE invited_user_id = ? AND status = ?
		 ORDER BY created_at DESC`,
		userID, models.InvitationStatusPending)
	if err != nil {
		return nil, mapErr(err)
	}
	return invs, nil
}

// ListByProject returns all invitations for a project, newest first.
func (s *InvitationStore) ListByProject(ctx context.Context, projectID int64) ([]models.ProjectInvitation, error) {
	var invs []models.ProjectInvitation
	err := s.db.SelectContext(ctx, &invs,
		`SELECT * FROM project_invitations WHERE project_id = ? ORDER BY created_at DESC`,
		projectID)
	if err != nil {
		return nil, mapErr(err)
	}
	return invs, nil
}

// UpdateStatus transitions the invitation to ACCEPTED or REJECTED.
func (s *InvitationStore) UpdateStatus(ctx context.Context, id int64, status models.InvitationStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE project_invitations SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// Delete removes the invitation. Used when an invitation is cancelled.
func (s *InvitationStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM project_invitations WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}
