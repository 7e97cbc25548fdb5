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

// ProjectStore persists projects.
type ProjectStore struct {
	db *DB
}

// NewProjectStore creates a project store over the shared database handle.
func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// Create inserts the project and its creator's MANAGER membership in a
// single transaction, so a project can never exist without exactly one
// manager membership.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	p.CreatedAt = now
	if p.Status == "" {
		p.Status = models.ProjectStatusPending
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO projects (name, description, status, manager_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.Status, p.ManagerID, now)
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading project id: %w", err)
	}
	p.ID = id

	_, err = tx.ExecContext(ctx,
		`INSERT INTO project_members (project_id, user_id, role, created_at)
		 VALUES (?, ?, ?, ?)`,
		id, p.ManagerID, models.ProjectRoleManager, now)
	if err != nil {
		return mapErr(err)
	}

	return tx.Commit()
}

// GetByID fetches a project by primary key.
func (s *ProjectStore) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	var p models.Project
	err := s.db.GetContext(ctx, &p, `SELECT * FROM projects WHERE id = ?`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

// List returns all projects ordered by creation time.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.SelectContext(ctx, &projects, `SELECT * FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, mapErr(err)
	}
	return projects, nil
}

// ListByManager returns projects managed by the given user.
func (s *ProjectStore) ListByManager(ctx context.Context, managerID int64) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.SelectContext(ctx, &projects,
		`SELECT * FROM projects WHERE manager_id = ? ORDER BY created_at`, managerID)
	if err != nil {
		return nil, mapErr(err)
	}
	return projects, nil
}

// ListForMember returns projects the user belongs to, with any role.
func (s *ProjectStore) ListForMember(ctx context.Context, userID int64) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.SelectContext(ctx, &projects,
		`SELECT p.* FROM projects p
		 JOIN project_members m ON m.project_id = p.id
		 WHERE m.user_id = ?
		 ORDER BY p.created_at`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return projects, nil
}

// Update rewrites the project's name, description, and status.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, status = ? WHERE id = ?`,
		p.Name, p.Description, p.Status, p.ID)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// UpdateStatus changes only the project status.
func (s *ProjectStore) UpdateStatus(ctx context.Context, id int64, status models.ProjectStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// Delete removes the project. Memberships, tasks, comments, and
// invitations go with it via ON DELETE CASCADE.
func (s *ProjectStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}
