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

// CommentStore persists task and project comments.
type CommentStore struct {
	db *DB
}

// NewCommentStore creates a comment store over the shared database handle.
func NewCommentStore(db *DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create inserts a comment. Exactly one of TaskID/ProjectID must be set;
// the schema CHECK rejects anything else.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) error {
	c.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (message, user_id, task_id, project_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.Message, c.UserID, c.TaskID, c.ProjectID, c.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading comment id: %w", err)
	}
	c.ID = id
	return nil
}

// GetByID fetches a comment by primary key.
func (s *CommentStore) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var c models.Comment
	err := s.db.GetContext(ctx, &c, `SELECT * FROM comments WHERE id = ?`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

// ListByTask returns a task's comments ordered oldest first.
func (s *CommentStore) ListByTask(ctx context.Context, taskID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.SelectContext(ctx, &comments,
		`SELECT * FROM comments WHERE task_id = ? ORDER BY created_at`, taskID)
	if err != nil {
		return nil, mapErr(err)
	}
	return comments, nil
}

// ListByProject returns a project's own comments (not its tasks')
// ordered oldest first.
func (s *CommentStore) ListByProject(ctx context.Context, projectID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.SelectContext(ctx, &comments,
		`SELECT * FROM comments WHERE project_id = ? ORDER BY created_at`, projectID)
	if err != nil {
		return nil, mapErr(err)
	}
	return comments, nil
}

// Update rewrites the comment message.
func (s *CommentStore) Update(ctx context.Context, id int64, message string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE comments SET message = ? WHERE id = ?`, message, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// Delete removes the comment.
func (s *CommentStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}
