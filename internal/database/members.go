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

// MemberStore persists project memberships.
type MemberStore struct {
	db *DB
}

// NewMemberStore creates a membership store over the shared database handle.
func NewMemberStore(db *DB) *MemberStore {
	return &MemberStore{db: db}
}

// Add inserts a membership row. Returns ErrDuplicate when the user is
// already a member of the project.
func (s *MemberStore) Add(ctx context.Context, m *models.ProjectMember) error {
	m.CreatedAt = time.Now().UTC()
	if m.Role == "" {
		m.Role = models.ProjectRoleMember
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO project_members (project_id, user_id, role, created_at)
		 VALUES (?, ?, ?, ?)`,
		m.ProjectID, m.UserID, m.Role, m.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading membership id: %w", err)
	}
	m.ID = id
	return nil
}

// Remove deletes the user's membership in the project.
func (s *MemberStore) Remove(ctx context.Context, projectID, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM project_members WHERE project_id = ? AND user_id = ?`,
		projectID, userID)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// FindRole returns the user's role in the project, or ErrNotFound when
// no membership exists. This is the authorization engine's membership
// lookup.
func (s *MemberStore) FindRole(ctx context.Context, projectID, userID int64) (models.ProjectRole, error) {
	var role models.ProjectRole
	err := s.db.GetContext(ctx, &role,
		`SELECT role FROM project_members WHERE project_id = ? AND user_id = ?`,
		projectID, userID)
	if err != nil {
		return "", mapErr(err)
	}
	return role, nil
}

// ListByProject returns all memberships of a project.
func (s *MemberStore) ListByProject(ctx context.Context, projectID int64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	err := s.db.SelectContext(ctx, &members,
		`SELECT * FROM project_members WHERE project_id = ? ORDER BY created_at`,
		projectID)
	if err != nil {
		return nil, mapErr(err)
	}
	return members, nil
}

// ListUserIDs returns the IDs of all members of a project. Used for
// project-wide notification fan-out.
func (s *MemberStore) ListUserIDs(ctx context.Context, projectID int64) ([]int64, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids,
		`SELECT user_id FROM project_members WHERE project_id = ?`, projectID)
	if err != nil {
		return nil, mapErr(err)
	}
	return ids, nil
}
