// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package service

import (
	"context"

	"github.com/taskbuddy/taskbuddy/internal/authz"
	"github.com/taskbuddy/taskbuddy/internal/database"
	"github.com/taskbuddy/taskbuddy/internal/logging"
	"github.com/taskbuddy/taskbuddy/internal/models"
)

// ProjectService manages projects and their memberships.
type ProjectService struct {
	projects      *database.ProjectStore
	members       *database.MemberStore
	users         *database.UserStore
	engine        *authz.Engine
	notifications *NotificationService
}

func NewProjectService(projects *database.ProjectStore, members *database.MemberStore, users *database.UserStore, engine *authz.Engine, notifications *NotificationService) *ProjectService {
	return &ProjectService{
		projects:      projects,
		members:       members,
		users:         users,
		engine:        engine,
		notifications: notifications,
	}
}

// Create creates a project managed by managerID. The manager membership is
// inserted atomically with the project row.
func (s *ProjectService) Create(ctx context.Context, name, description string, managerID int64) (*models.Project, error) {
	if _, err := s.users.GetByID(ctx, managerID); err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("User not found with ID: %d", managerID)
		}
		return nil, err
	}
	p := &models.Project{
		Name:        name,
		Description: description,
		ManagerID:   managerID,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	logging.Info().
		Int64("project_id", p.ID).
		Int64("manager_id", managerID).
		Msg("Project created")
	return p, nil
}

// Get returns a project. The requesting user must be a member.
func (s *ProjectService) Get(ctx context.Context, projectID, userID int64) (*models.Project, error) {
	p, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.CheckProjectAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all projects.
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.projects.List(ctx)
}

// ListByManager returns the projects a user manages.
func (s *ProjectService) ListByManager(ctx context.Context, managerID int64) ([]models.Project, error) {
	return s.projects.ListByManager(ctx, managerID)
}

// ListForUser returns the projects a user manages or is a member of,
// managed projects first, without duplicates.
func (s *ProjectService) ListForUser(ctx context.Context, userID int64) ([]models.Project, error) {
	managed, err := s.projects.ListByManager(ctx, userID)
	if err != nil {
		return nil, err
	}
	member, err := s.projects.ListForMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(managed))
	all := make([]models.Project, 0, len(managed)+len(member))
	for _, p := range managed {
		seen[p.ID] = struct{}{}
		all = append(all, p)
	}
	for _, p := range member {
		if _, ok := seen[p.ID]; !ok {
			all = append(all, p)
		}
	}
	return all, nil
}

// Update changes a project's name and description. Manager only.
func (s *ProjectService) Update(ctx context.Context, projectID, userID int64, name, description string) (*models.Project, error) {
	p, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx, projectID, userID, "Only project manager can update the project!"); err != nil {
		return nil, err
	}

	p.Name = name
	p.Description = description
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateStatus changes a project's lifecycle status and notifies every
// other member. Manager only.
func (s *ProjectService) UpdateStatus(ctx context.Context, projectID, userID int64, status models.ProjectStatus) error {
	p, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.requireManager(ctx, projectID, userID, "Only project manager can update project status!"); err != nil {
		return err
	}
	if err := s.projects.UpdateStatus(ctx, projectID, status); err != nil {
		return err
	}

	memberIDs, err := s.members.ListUserIDs(ctx, projectID)
	if err != nil {
		logging.Warn().
			Err(err).
			Int64("project_id", projectID).
			Msg("Failed to list members for status notification")
		return nil
	}
	for _, id := range memberIDs {
		if id == userID {
			continue
		}
		s.notifications.NotifyProjectStatusChanged(ctx, id, p.Name, status)
	}
	return nil
}

// Delete removes a project and everything under it. Manager only.
func (s *ProjectService) Delete(ctx context.Context, projectID, userID int64) error {
	if _, err := s.getProject(ctx, projectID); err != nil {
		return err
	}
	if err := s.requireManager(ctx, projectID, userID, "Only project manager can delete the project!"); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}
	logging.Info().
		Int64("project_id", projectID).
		Int64("user_id", userID).
		Msg("Project deleted")
	return nil
}

// AddMember adds a user to a project with the MEMBER role. Manager only.
func (s *ProjectService) AddMember(ctx context.Context, projectID, requestingUserID, newMemberID int64) error {
	if _, err := s.getProject(ctx, projectID); err != nil {
		return err
	}
	if err := s.requireManager(ctx, projectID, requestingUserID, "Only project manager can add members!"); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, newMemberID); err != nil {
		if database.IsNotFound(err) {
			return notFoundf("User not found with ID: %d", newMemberID)
		}
		return err
	}

	m := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    newMemberID,
		Role:      models.ProjectRoleMember,
	}
	if err := s.members.Add(ctx, m); err != nil {
		if database.IsDuplicate(err) {
			return invalidInputf("User is already a member of this project!")
		}
		return err
	}
	return nil
}

// RemoveMember removes a user from a project. Manager only; the manager's
// own membership cannot be removed.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, requestingUserID, memberID int64) error {
	p, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.requireManager(ctx, projectID, requestingUserID, "Only project manager can remove members!"); err != nil {
		return err
	}
	if memberID == p.ManagerID {
		return invalidInputf("Project manager cannot be removed from the project!")
	}
	if err := s.members.Remove(ctx, projectID, memberID); err != nil {
		if database.IsNotFound(err) {
			return notFoundf("User is not a member of this project")
		}
		return err
	}
	return nil
}

// Members returns a project's memberships. Members only.
func (s *ProjectService) Members(ctx context.Context, projectID, userID int64) ([]models.ProjectMember, error) {
	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.engine.CheckProjectAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.members.ListByProject(ctx, projectID)
}

// CheckAccess reports whether the user may see the project, returning
// authz.ErrAccessDenied when not a member.
func (s *ProjectService) CheckAccess(ctx context.Context, projectID, userID int64) error {
	if _, err := s.getProject(ctx, projectID); err != nil {
		return err
	}
	return s.engine.CheckProjectAccess(ctx, projectID, userID)
}

// RoleInProject returns the requested user's membership role, or
// ErrAccessDenied when no membership exists.
func (s *ProjectService) RoleInProject(ctx context.Context, projectID, userID int64) (models.ProjectRole, error) {
	role, err := s.members.FindRole(ctx, projectID, userID)
	if err != nil {
		if database.IsNotFound(err) {
			return "", authz.ErrAccessDenied
		}
		return "", err
	}
	return role, nil
}

func (s *ProjectService) getProject(ctx context.Context, projectID int64) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("Project not found with ID: %d", projectID)
		}
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) requireManager(ctx context.Context, projectID, userID int64, message string) error {
	isManager, err := s.engine.IsManager(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !isManager {
		return invalidInputf("%s", message)
	}
	return nil
}
