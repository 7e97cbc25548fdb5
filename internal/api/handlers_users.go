// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package api

import (
	"net/http"

	"github.com/taskbuddy/taskbuddy/internal/models"
)

// ListUsers handles GET /api/users and GET /api/users?search=q.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if query := r.URL.Query().Get("search"); query != "" {
		users, err := h.users.Search(r.Context(), query)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondOK(w, "Search completed successfully!", users)
		return
	}
	users, err := h.users.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Users retrieved successfully!", users)
}

// GetUser handles GET /api/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "User retrieved successfully!", u)
}

// UpdateUser handles PUT /api/users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	var req UpdateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.users.Update(r.Context(), id, req.Username, req.Email, models.UserRole(req.Role))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "User updated successfully!", u)
}

// DeleteUser handles DELETE /api/users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "User deleted successfully!", nil)
}

// ChangeUserRole handles PATCH /api/users/{id}/role.
func (h *Handler) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	var req ChangeUserRoleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.users.ChangeRole(r.Context(), id, models.UserRole(req.Role))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "User role updated successfully!", u)
}

// ChangePassword handles POST /api/users/change-password for the
// authenticated user.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.users.ChangePassword(r.Context(), u.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Password changed successfully!", nil)
}
