// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package api

import (
	"net/http"
)

// CreateComment handles POST /api/comments. The body names exactly one of
// taskId and projectId.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req CreateCommentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if (req.TaskID == nil) == (req.ProjectID == nil) {
		respondError(w, http.StatusBadRequest, "Comment must target exactly one of taskId or projectId")
		return
	}

	if req.TaskID != nil {
		c, err := h.comments.AddTaskComment(r.Context(), *req.TaskID, u.ID, req.Message)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondCreated(w, "Comment added successfully!", c)
		return
	}
	c, err := h.comments.AddProjectComment(r.Context(), *req.ProjectID, u.ID, req.Message)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondCreated(w, "Comment added successfully!", c)
}

// UpdateComment handles PUT /api/comments/{id}. Author only.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid comment ID")
		return
	}
	var req UpdateCommentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.comments.Update(r.Context(), id, u.ID, req.Message)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Comment updated successfully!", c)
}

// DeleteComment handles DELETE /api/comments/{id}. Author only.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid comment ID")
		return
	}
	if err := h.comments.Delete(r.Context(), id, u.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Comment deleted successfully!", nil)
}
