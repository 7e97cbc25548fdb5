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

// InvitationService manages project invitations and their lifecycle.
type InvitationService struct {
	invitations   *database.InvitationStore
	projects      *database.ProjectStore
	members       *database.MemberStore
	users         *database.UserStore
	engine        *authz.Engine
	notifications *NotificationService
}

func NewInvitationService(invitations *database.InvitationStore, projects *database.ProjectStore, members *database.MemberStore, users *database.UserStore, engine *authz.Engine, notifications *NotificationService) *InvitationService {
	return &InvitationService{
		invitations:   invitations,
		projects:      projects,
		members:       members,
		users:         users,
		engine:        engine,
		notifications: notifications,
	}
}

// Invite creates a pending invitation for invitedUserID and notifies them.
// Manager only; a user with a pending invitation or an existing membership
// cannot be invited again.
func (s *InvitationService) Invite(ctx context.Context, projectID, invitedUserID, requestingUserID int64) (*models.ProjectInvitation, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("Project not found with ID: %d", projectID)
		}
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, invitedUserID); err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("User not found with ID: %d", invitedUserID)
		}
		return nil, err
	}
	inviter, err := s.users.GetByID(ctx, requestingUserID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("User not found with ID: %d", requestingUserID)
		}
		return nil, err
	}

	isManager, err := s.engine.IsManager(ctx, projectID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !isManager {
		return nil, invalidInputf("Only project manager can invite users!")
	}

	pending, err := s.invitations.HasPending(ctx, projectID, invitedUserID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, invalidInputf("Invitation already sent and pending!")
	}
	if _, err := s.members.FindRole(ctx, projectID, invitedUserID); err == nil {
		return nil, invalidInputf("User is already a member of this project!")
	} else if !database.IsNotFound(err) {
		return nil, err
	}

	inv := &models.ProjectInvitation{
		ProjectID:     projectID,
		InvitedUserID: invitedUserID,
		InvitedByID:   requestingUserID,
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, err
	}
	s.notifications.NotifyProjectInvitation(ctx, invitedUserID, project.Name, inviter.Username)

	logging.Info().
		Int64("invitation_id", inv.ID).
		Int64("project_id", projectID).
		Int64("invited_user_id", invitedUserID).
		Msg("Invitation sent")
	return inv, nil
}

// Respond accepts or rejects a pending invitation. Only the invited user
// may respond. Acceptance adds a MEMBER membership and notifies the
// inviter.
func (s *InvitationService) Respond(ctx context.Context, invitationID, respondingUserID int64, status models.InvitationStatus) (*models.ProjectInvitation, error) {
	if status != models.InvitationStatusAccepted && status != models.InvitationStatusRejected {
		return nil, invalidInputf("Response must be ACCEPTED or REJECTED!")
	}
	inv, err := s.getInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.InvitedUserID != respondingUserID {
		return nil, invalidInputf("Only the invited user can respond to this invitation!")
	}
	if inv.Status != models.InvitationStatusPending {
		return nil, invalidInputf("Invitation has already been responded to!")
	}

	if err := s.invitations.UpdateStatus(ctx, invitationID, status); err != nil {
		return nil, err
	}
	inv.Status = status

	if status == models.InvitationStatusAccepted {
		m := &models.ProjectMember{
			ProjectID: inv.ProjectID,
			UserID:    inv.InvitedUserID,
			Role:      models.ProjectRoleMember,
		}
		if err := s.members.Add(ctx, m); err != nil && !database.IsDuplicate(err) {
			return nil, err
		}
		accepter, err := s.users.GetByID(ctx, inv.InvitedUserID)
		if err == nil {
			if project, perr := s.projects.GetByID(ctx, inv.ProjectID); perr == nil {
				s.notifications.NotifyInvitationAccepted(ctx, inv.InvitedByID, accepter.Username, project.Name)
			}
		}
	}
	return inv, nil
}

// Cancel hard-deletes a pending invitation. Inviter or project manager
// only.
func (s *InvitationService) Cancel(ctx context.Context, invitationID, requestingUserID int64) error {
	inv, err := s.getInvitation(ctx, invitationID)
	if err != nil {
		return err
	}

	canCancel := inv.InvitedByID == requestingUserID
	if !canCancel {
		isManager, err := s.engine.IsManager(ctx, inv.ProjectID, requestingUserID)
		if err != nil {
			return err
		}
		canCancel = isManager
	}
	if !canCancel {
		return invalidInputf("Only the inviter or project manager can cancel invitations!")
	}
	if inv.Status != models.InvitationStatusPending {
		return invalidInputf("Can only cancel pending invitations!")
	}
	return s.invitations.Delete(ctx, invitationID)
}

// PendingForUser returns a user's pending invitations, newest first.
func (s *InvitationService) PendingForUser(ctx context.Context, userID int64) ([]models.ProjectInvitation, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("User not found with ID: %d", userID)
		}
		return nil, err
	}
	return s.invitations.ListPendingForUser(ctx, userID)
}

// ListByProject returns every invitation of a project, newest first.
func (s *InvitationService) ListByProject(ctx context.Context, projectID int64) ([]models.ProjectInvitation, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("Project not found with ID: %d", projectID)
		}
		return nil, err
	}
	return s.invitations.ListByProject(ctx, projectID)
}

func (s *InvitationService) getInvitation(ctx context.Context, invitationID int64) (*models.ProjectInvitation, error) {
	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("Invitation not found with ID: %d", invitationID)
		}
		return nil, err
	}
	return inv, nil
}
