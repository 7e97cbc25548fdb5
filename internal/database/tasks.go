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

// TaskStore persists tasks.
type TaskStore struct {
	db *DB
}

// NewTaskStore creates a task store over the shared database handle.
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db}
}

// Create inserts a new task.
func (s *TaskStore) Create(ctx context.Context, t *models.Task) error {
	t.CreatedAt = time.Now().UTC()
	if t.Status == "" {
		t.Status = models.TaskStatusPending
	}
	if t.Priority == "" {
		t.Priority = models.TaskPriorityMedium
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, status, priority, due_date, assigned_user_id, project_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.AssignedUserID, t.ProjectID, t.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading task id: %w", err)
	}
	t.ID = id
	return nil
}

// GetByID fetches a task by primary key.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	var t models.Task
	err := s.db.GetContext(ctx, &t, `SELECT * FROM tasks WHERE id = ?`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

// FindTaskProjectID returns the owning project ID without loading the
// full row. This is the authorization engine's task lookup.
func (s *TaskStore) FindTaskProjectID(ctx context.Context, taskID int64) (int64, error) {
	var projectID int64
	err := s.db.GetContext(ctx, &projectID,
		`SELECT project_id FROM tasks WHERE id = ?`, taskID)
	if err != nil {
		return 0, mapErr(err)
	}
	return projectID, nil
}

// List returns every task ordered by creation time.
func (s *TaskStore) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.SelectContext(ctx, &tasks,
		`SELECT * FROM tasks ORDER BY created_at`)
	if err != nil {
		return nil, mapErr(err)
	}
	return tasks, nil
}

// ListByProject returns all tasks of a project ordered by creation time.
func (s *TaskStore) ListByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.SelectContext(ctx, &tasks,
		`SELECT * FROM tasks WHERE project_id = ? ORDER BY created_at`, projectID)
	if err != nil {
		return nil, mapErr(err)
	}
	return tasks, nil
}

// ListByAssignee returns all tasks assigned to the given user.
func (s *TaskStore) ListByAssignee(ctx context.Context, userID int64) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.SelectContext(ctx, &tasks,
		`SELECT * FROM tasks WHERE assigned_user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return tasks, nil
}

// Update rewrites the task's mutable fields.
func (s *TaskStore) Update(ctx context.Context, t *models.Task) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, assigned_user_id = ?
		 WHERE id = ?`,
		t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.AssignedUserID, t.ID)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// UpdateStatus changes only the task status.
func (s *TaskStore) UpdateStatus(ctx context.Context, id int64, status models.TaskStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// Reassign changes the assignee and resets the status to PENDING.
func (s *TaskStore) Reassign(ctx context.Context, id, assigneeID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET assigned_user_id = ?, status = ? WHERE id = ?`,
		assigneeID, models.TaskStatusPending, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// Delete removes the task. Its comments go with it via ON DELETE CASCADE.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// CountForUser returns the number of tasks assigned to the user with
// the given status. Used by the dashboard summary.
func (s *TaskStore) CountForUser(ctx context.Context, userID int64, status models.TaskStatus) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM tasks WHERE assigned_user_id = ? AND status = ?`,
		userID, status)
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}
