// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package api

import (
	"net/http"

	"github.com/taskbuddy/taskbuddy/internal/models"
)

// CreateProject handles POST /api/projects. The authenticated user becomes
// the project manager.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req CreateProjectRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.projects.Create(r.Context(), req.Name, req.Description, u.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondCreated(w, "Project created successfully!", p)
}

// ListProjects handles GET /api/projects, returning the projects the
// authenticated user manages or belongs to.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	projects, err := h.projects.ListForUser(r.Context(), u.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Projects retrieved successfully!", projects)
}

// GetProject handles GET /api/projects/{id}. Members only.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	p, err := h.projects.Get(r.Context(), id, u.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Project retrieved successfully!", p)
}

// UpdateProject handles PUT /api/projects/{id}. Manager only.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	var req UpdateProjectRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.projects.Update(r.Context(), id, u.ID, req.Name, req.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Project updated successfully!", p)
}

// UpdateProjectStatus handles PATCH /api/projects/{id}/status. Manager
// only; every other member is notified of the change.
func (h *Handler) UpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	var req UpdateProjectStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	status, valid := models.ParseProjectStatus(req.Status)
	if !valid {
		respondError(w, http.StatusBadRequest, "Invalid project status")
		return
	}
	if err := h.projects.UpdateStatus(r.Context(), id, u.ID, status); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Project status updated successfully!", nil)
}

// DeleteProject handles DELETE /api/projects/{id}. Manager only.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	if err := h.projects.Delete(r.Context(), id, u.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Project deleted successfully!", nil)
}

// ListProjectMembers handles GET /api/projects/{id}/members. Members only.
func (h *Handler) ListProjectMembers(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	members, err := h.projects.Members(r.Context(), id, u.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Project members retrieved successfully!", members)
}

// AddProjectMember handles POST /api/projects/{id}/members. Manager only.
func (h *Handler) AddProjectMember(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	var req AddMemberRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.projects.AddMember(r.Context(), id, u.ID, req.UserID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Member added successfully!", nil)
}

// RemoveProjectMember handles DELETE /api/projects/{id}/members/{userId}.
// Manager only; the manager cannot be removed.
func (h *Handler) RemoveProjectMember(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	memberID, ok := urlParamID(r, "userId")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if err := h.projects.RemoveMember(r.Context(), id, u.ID, memberID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Member removed successfully!", nil)
}

// GetProjectRole handles GET /api/projects/{id}/role, returning the
// authenticated user's membership role in the project.
func (h *Handler) GetProjectRole(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	role, err := h.projects.RoleInProject(r.Context(), id, u.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Role retrieved successfully!", role)
}

// ListProjectTasks handles GET /api/projects/{id}/tasks. Members only.
func (h *Handler) ListProjectTasks(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	if err := h.projects.CheckAccess(r.Context(), id, u.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	tasks, err := h.tasks.ListByProject(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Project tasks retrieved successfully!", tasks)
}

// ListProjectComments handles GET /api/projects/{id}/comments. Members
// only.
func (h *Handler) ListProjectComments(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	if err := h.projects.CheckAccess(r.Context(), id, u.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	comments, err := h.comments.ListByProject(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Comments retrieved successfully!", comments)
}

// ListProjectInvitations handles GET /api/projects/{id}/invitations.
// Manager only.
func (h *Handler) ListProjectInvitations(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	if err := h.projects.CheckAccess(r.Context(), id, u.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	invitations, err := h.invitations.ListByProject(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Invitations retrieved successfully!", invitations)
}
