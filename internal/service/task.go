// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package service

import (
	"context"
	"strings"
	"time"

	"github.com/taskbuddy/taskbuddy/internal/authz"
	"github.com/taskbuddy/taskbuddy/internal/database"
	"github.com/taskbuddy/taskbuddy/internal/logging"
	"github.com/taskbuddy/taskbuddy/internal/models"
)

// TaskInput carries the client-supplied fields of a task. Nil pointer
// fields are left untouched on partial updates.
type TaskInput struct {
	Title          string
	Description    string
	Priority       models.TaskPriority
	DueDate        *time.Time
	AssignedUserID *int64
	ProjectID      int64
}

// TaskService manages tasks within projects.
type TaskService struct {
	tasks         *database.TaskStore
	projects      *database.ProjectStore
	members       *database.MemberStore
	users         *database.UserStore
	engine        *authz.Engine
	notifications *NotificationService
}

func NewTaskService(tasks *database.TaskStore, projects *database.ProjectStore, members *database.MemberStore, users *database.UserStore, engine *authz.Engine, notifications *NotificationService) *TaskService {
	return &TaskService{
		tasks:         tasks,
		projects:      projects,
		members:       members,
		users:         users,
		engine:        engine,
		notifications: notifications,
	}
}

// Create creates a task in a project. The requesting user must be the
// project manager or a member; an optional assignee must also be a member
// and is notified of the assignment.
func (s *TaskService) Create(ctx context.Context, in TaskInput, requestingUserID int64) (*models.Task, error) {
	project, err := s.projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("Project not found with ID: %d", in.ProjectID)
		}
		return nil, err
	}
	if err := s.engine.CheckProjectAccess(ctx, in.ProjectID, requestingUserID); err != nil {
		return nil, invalidInputf("Only project manager or project members can create tasks!")
	}

	t := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      models.TaskStatusPending,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		ProjectID:   in.ProjectID,
	}
	if in.AssignedUserID != nil {
		assignee, err := s.users.GetByID(ctx, *in.AssignedUserID)
		if err != nil {
			if database.IsNotFound(err) {
				return nil, notFoundf("Assigned user not found with ID: %d", *in.AssignedUserID)
			}
			return nil, err
		}
		if err := s.engine.CheckProjectAccess(ctx, in.ProjectID, assignee.ID); err != nil {
			return nil, invalidInputf("Cannot assign task to user who is not a project member!")
		}
		t.AssignedUserID = &assignee.ID
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	if t.AssignedUserID != nil {
		s.notifications.NotifyTaskAssigned(ctx, *t.AssignedUserID, t.Title, project.Name)
	}

	logging.Info().
		Int64("task_id", t.ID).
		Int64("project_id", t.ProjectID).
		Msg("Task created")
	return t, nil
}

// Get returns a task by ID.
func (s *TaskService) Get(ctx context.Context, taskID int64) (*models.Task, error) {
	return s.getTask(ctx, taskID)
}

// List returns all tasks.
func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.tasks.List(ctx)
}

// ListByProject returns a project's tasks.
func (s *TaskService) ListByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("Project not found with ID: %d", projectID)
		}
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

// ListByAssignee returns the tasks assigned to a user.
func (s *TaskService) ListByAssignee(ctx context.Context, userID int64) ([]models.Task, error) {
	return s.tasks.ListByAssignee(ctx, userID)
}

// UpdateStatus moves a task through its lifecycle. Only the assigned user
// may change the status; the project manager is notified of the change.
// The returned string is the client-facing confirmation message.
func (s *TaskService) UpdateStatus(ctx context.Context, taskID, requestingUserID int64, status models.TaskStatus) (string, error) {
	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return "", err
	}
	if t.AssignedUserID == nil {
		return "", invalidInputf("Task is not assigned to any user!")
	}
	if *t.AssignedUserID != requestingUserID {
		return "", invalidInputf("Only assigned user can change task status!")
	}

	if err := s.tasks.UpdateStatus(ctx, taskID, status); err != nil {
		return "", err
	}

	project, err := s.projects.GetByID(ctx, t.ProjectID)
	if err == nil {
		s.notifications.NotifyTaskStatusChanged(ctx, project.ManagerID, t.Title, status)
	}

	pretty := strings.ToLower(strings.ReplaceAll(string(status), "_", " "))
	return "Task " + pretty + " successfully!", nil
}

// Reassign hands a task to a different project member and resets its
// status to PENDING. Manager only; the new assignee is notified.
func (s *TaskService) Reassign(ctx context.Context, taskID, newAssigneeID, requestingUserID int64) error {
	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return err
	}
	project, err := s.projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		return err
	}
	if project.ManagerID != requestingUserID {
		return invalidInputf("Only project manager can reassign tasks!")
	}
	if _, err := s.users.GetByID(ctx, newAssigneeID); err != nil {
		if database.IsNotFound(err) {
			return notFoundf("New assignee not found with ID: %d", newAssigneeID)
		}
		return err
	}
	if err := s.engine.CheckProjectAccess(ctx, t.ProjectID, newAssigneeID); err != nil {
		return invalidInputf("Cannot assign task to user who is not a project member!")
	}

	if err := s.tasks.Reassign(ctx, taskID, newAssigneeID); err != nil {
		return err
	}
	s.notifications.NotifyTaskAssigned(ctx, newAssigneeID, t.Title, project.Name)
	return nil
}

// Update applies a partial edit to a task's title, description, priority,
// and due date. Manager or assignee only.
func (s *TaskService) Update(ctx context.Context, taskID, requestingUserID int64, title, description *string, priority *models.TaskPriority, dueDate *time.Time) (*models.Task, error) {
	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		return nil, err
	}
	isManager := project.ManagerID == requestingUserID
	if !isManager && !t.IsAssignedTo(requestingUserID) {
		return nil, invalidInputf("Only project manager or assigned user can update this task!")
	}

	if title != nil {
		t.Title = *title
	}
	if description != nil {
		t.Description = *description
	}
	if priority != nil {
		t.Priority = *priority
	}
	if dueDate != nil {
		t.DueDate = dueDate
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a task. Manager only.
func (s *TaskService) Delete(ctx context.Context, taskID, requestingUserID int64) error {
	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return err
	}
	project, err := s.projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		return err
	}
	if project.ManagerID != requestingUserID {
		return invalidInputf("Only project manager can delete tasks!")
	}
	return s.tasks.Delete(ctx, taskID)
}

func (s *TaskService) getTask(ctx context.Context, taskID int64) (*models.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("Task not found with ID: %d", taskID)
		}
		return nil, err
	}
	return t, nil
}
