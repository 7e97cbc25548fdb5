// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package api

import (
	"net/http"
	"time"

	"github.com/taskbuddy/taskbuddy/internal/models"
	"github.com/taskbuddy/taskbuddy/internal/service"
)

// CreateTask handles POST /api/tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	dueDate, ok := parseDueDate(req.DueDate)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid due date")
		return
	}
	priority := models.TaskPriority(req.Priority)
	if req.Priority == "" {
		priority = models.TaskPriorityMedium
	}

	in := service.TaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       priority,
		DueDate:        dueDate,
		AssignedUserID: req.AssignedUserID,
		ProjectID:      req.ProjectID,
	}
	t, err := h.tasks.Create(r.Context(), in, u.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	msg := "Task created successfully!"
	if t.AssignedUserID != nil {
		msg = "Task created and assigned successfully!"
	}
	respondCreated(w, msg, t)
}

// ListTasks handles GET /api/tasks, returning the authenticated user's
// assigned tasks. GET /api/tasks?all=true returns every task.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var (
		tasks []models.Task
		err   error
	)
	if r.URL.Query().Get("all") == "true" {
		tasks, err = h.tasks.List(r.Context())
	} else {
		tasks, err = h.tasks.ListByAssignee(r.Context(), u.ID)
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Tasks retrieved successfully!", tasks)
}

// GetTask handles GET /api/tasks/{id}.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}
	t, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Task retrieved successfully!", t)
}

// UpdateTask handles PUT /api/tasks/{id}. Manager or assignee only; absent
// fields are left unchanged.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}
	var req UpdateTaskRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var priority *models.TaskPriority
	if req.Priority != nil {
		p := models.TaskPriority(*req.Priority)
		priority = &p
	}
	var dueDate *time.Time
	if req.DueDate != nil {
		d, ok := parseDueDate(*req.DueDate)
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid due date")
			return
		}
		dueDate = d
	}

	t, err := h.tasks.Update(r.Context(), id, u.ID, req.Title, req.Description, priority, dueDate)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Task updated successfully!", t)
}

// UpdateTaskStatus handles PATCH /api/tasks/{id}/status. Assignee only;
// the project manager is notified.
func (h *Handler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}
	var req UpdateTaskStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	status, valid := models.ParseTaskStatus(req.Status)
	if !valid {
		respondError(w, http.StatusBadRequest, "Invalid task status")
		return
	}
	msg, err := h.tasks.UpdateStatus(r.Context(), id, u.ID, status)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, msg, nil)
}

// ReassignTask handles PATCH /api/tasks/{id}/assignee. Manager only; the
// task resets to PENDING and the new assignee is notified.
func (h *Handler) ReassignTask(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}
	var req ReassignTaskRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.tasks.Reassign(r.Context(), id, req.AssignedUserID, u.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Task reassigned successfully!", nil)
}

// DeleteTask handles DELETE /api/tasks/{id}. Manager only.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}
	if err := h.tasks.Delete(r.Context(), id, u.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Task deleted successfully!", nil)
}

// ListTaskComments handles GET /api/tasks/{id}/comments.
func (h *Handler) ListTaskComments(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}
	comments, err := h.comments.ListByTask(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Comments retrieved successfully!", comments)
}
