// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package service

import (
	"context"

	"github.com/taskbuddy/taskbuddy/internal/database"
	"github.com/taskbuddy/taskbuddy/internal/models"
)

// CommentService manages comments on tasks and projects.
type CommentService struct {
	comments      *database.CommentStore
	tasks         *database.TaskStore
	projects      *database.ProjectStore
	users         *database.UserStore
	notifications *NotificationService
}

func NewCommentService(comments *database.CommentStore, tasks *database.TaskStore, projects *database.ProjectStore, users *database.UserStore, notifications *NotificationService) *CommentService {
	return &CommentService{
		comments:      comments,
		tasks:         tasks,
		projects:      projects,
		users:         users,
		notifications: notifications,
	}
}

// AddTaskComment attaches a comment to a task. The task's assignee and the
// project manager are notified, unless they are the commenter.
func (s *CommentService) AddTaskComment(ctx context.Context, taskID, userID int64, message string) (*models.Comment, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("Task not found with ID: %d", taskID)
		}
		return nil, err
	}
	commenter, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("User not found with ID: %d", userID)
		}
		return nil, err
	}

	c := &models.Comment{
		Message: message,
		UserID:  userID,
		TaskID:  &taskID,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}

	if t.AssignedUserID != nil && *t.AssignedUserID != userID {
		s.notifications.NotifyNewComment(ctx, *t.AssignedUserID, commenter.Username, t.Title)
	}
	if project, err := s.projects.GetByID(ctx, t.ProjectID); err == nil {
		if project.ManagerID != userID && !t.IsAssignedTo(project.ManagerID) {
			s.notifications.NotifyNewComment(ctx, project.ManagerID, commenter.Username, t.Title)
		}
	}
	return c, nil
}

// AddProjectComment attaches a comment to a project. The project manager is
// notified unless they are the commenter.
func (s *CommentService) AddProjectComment(ctx context.Context, projectID, userID int64, message string) (*models.Comment, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("Project not found with ID: %d", projectID)
		}
		return nil, err
	}
	commenter, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("User not found with ID: %d", userID)
		}
		return nil, err
	}

	c := &models.Comment{
		Message:   message,
		UserID:    userID,
		ProjectID: &projectID,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}

	if project.ManagerID != userID {
		s.notifications.NotifyNewComment(ctx, project.ManagerID, commenter.Username, project.Name)
	}
	return c, nil
}

// ListByTask returns a task's comments, oldest first.
func (s *CommentService) ListByTask(ctx context.Context, taskID int64) ([]models.Comment, error) {
	return s.comments.ListByTask(ctx, taskID)
}

// ListByProject returns a project's comments, oldest first.
func (s *CommentService) ListByProject(ctx context.Context, projectID int64) ([]models.Comment, error) {
	return s.comments.ListByProject(ctx, projectID)
}

// Update edits a comment's message. Author only.
func (s *CommentService) Update(ctx context.Context, commentID, userID int64, message string) (*models.Comment, error) {
	c, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, invalidInputf("You can only edit your own comments!")
	}
	if err := s.comments.Update(ctx, commentID, message); err != nil {
		return nil, err
	}
	c.Message = message
	return c, nil
}

// Delete removes a comment. Author only.
func (s *CommentService) Delete(ctx context.Context, commentID, userID int64) error {
	c, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return invalidInputf("You can only delete your own comments!")
	}
	return s.comments.Delete(ctx, commentID)
}

func (s *CommentService) getComment(ctx context.Context, commentID int64) (*models.Comment, error) {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("Comment not found with ID: %d", commentID)
		}
		return nil, err
	}
	return c, nil
}
