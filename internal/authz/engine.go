// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

// Package authz implements project-scoped access checks.
//
// Every business operation that touches a project or task calls the
// Engine explicitly before doing any work. Access is membership-based:
// a user can act inside a project iff a membership row exists, and
// manager-only operations additionally require the MANAGER role.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskbuddy/taskbuddy/internal/models"
)

// Sentinel errors returned by access checks. Handlers map these to 403
// and 404 responses respectively.
var (
	ErrAccessDenied = errors.New("access denied: not a member of this project")
	ErrTaskNotFound = errors.New("task not found")
)

// MembershipSource resolves a user's role within a project.
// Implemented by the project member store.
type MembershipSource interface {
	// FindRole returns the user's role in the project, or a not-found
	// error when no membership row exists.
	FindRole(ctx context.Context, projectID, userID int64) (models.ProjectRole, error)
}

// TaskSource resolves the project a task belongs to.
// Implemented by the task store.
type TaskSource interface {
	// FindTaskProjectID returns the owning project ID, or a not-found
	// error when the task does not exist.
	FindTaskProjectID(ctx context.Context, taskID int64) (int64, error)
}

// NotFound reports whether err represents a missing row, as opposed to
// an infrastructure failure. Wired to database.IsNotFound at startup.
type NotFound func(error) bool

// Engine performs access checks against membership and task lookups.
type Engine struct {
	members  MembershipSource
	tasks    TaskSource
	notFound NotFound
}

// NewEngine creates an authorization engine over the given lookups.
func NewEngine(members MembershipSource, tasks TaskSource, notFound NotFound) *Engine {
	return &Engine{
		members:  members,
		tasks:    tasks,
		notFound: notFound,
	}
}

// CheckProjectAccess returns nil iff the user has a membership row in the
// project, with any role. A missing membership is ErrAccessDenied; lookup
// failures are returned as-is.
func (e *Engine) CheckProjectAccess(ctx context.Context, projectID, userID int64) error {
	_, err := e.members.FindRole(ctx, projectID, userID)
	if err != nil {
		if e.notFound(err) {
			return ErrAccessDenied
		}
		return fmt.Errorf("membership lookup failed: %w", err)
	}
	return nil
}

// CheckTaskAccess resolves the task's project and delegates to
// CheckProjectAccess. A missing task is ErrTaskNotFound; membership is
// not consulted in that case.
func (e *Engine) CheckTaskAccess(ctx context.Context, taskID, userID int64) error {
	projectID, err := e.tasks.FindTaskProjectID(ctx, taskID)
	if err != nil {
		if e.notFound(err) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("task lookup failed: %w", err)
	}
	return e.CheckProjectAccess(ctx, projectID, userID)
}

// IsManager reports whether the user holds the MANAGER role in the
// project. A user with no membership at all is simply not a manager.
func (e *Engine) IsManager(ctx context.Context, projectID, userID int64) (bool, error) {
	role, err := e.members.FindRole(ctx, projectID, userID)
	if err != nil {
		if e.notFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("membership lookup failed: %w", err)
	}
	return role == models.ProjectRoleManager, nil
}
