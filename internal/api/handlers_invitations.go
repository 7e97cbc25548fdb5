// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package api

import (
	"net/http"

	"github.com/taskbuddy/taskbuddy/internal/models"
)

// InviteUser handles POST /api/project-invitations. Manager only.
func (h *Handler) InviteUser(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req InviteUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	inv, err := h.invitations.Invite(r.Context(), req.ProjectID, req.InvitedUserID, u.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondCreated(w, "User invited successfully!", inv)
}

// ListPendingInvitations handles GET /api/project-invitations, returning
// the authenticated user's pending invitations.
func (h *Handler) ListPendingInvitations(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	invitations, err := h.invitations.PendingForUser(r.Context(), u.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Invitations retrieved successfully!", invitations)
}

// RespondToInvitation handles PATCH /api/project-invitations/{id}. Invited
// user only; acceptance joins the project and notifies the inviter.
func (h *Handler) RespondToInvitation(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid invitation ID")
		return
	}
	var req RespondInvitationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	inv, err := h.invitations.Respond(r.Context(), id, u.ID, models.InvitationStatus(req.Status))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	msg := "Invitation rejected successfully!"
	if inv.Status == models.InvitationStatusAccepted {
		msg = "Invitation accepted successfully!"
	}
	respondOK(w, msg, inv)
}

// CancelInvitation handles DELETE /api/project-invitations/{id}. Inviter
// or project manager only; pending invitations only.
func (h *Handler) CancelInvitation(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid invitation ID")
		return
	}
	if err := h.invitations.Cancel(r.Context(), id, u.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Invitation cancelled successfully!", nil)
}
