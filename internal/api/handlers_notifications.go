// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package api

import (
	"net/http"

	"github.com/taskbuddy/taskbuddy/internal/models"
)

// CreateNotification handles POST /api/notifications, persisting the
// notification and pushing it to the recipient's open sockets.
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	var req CreateNotificationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := h.notifications.Create(r.Context(), req.RecipientID, req.Message, models.NotificationType(req.Type))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondCreated(w, "Notification created successfully!", n)
}

// ListUnreadNotifications handles GET /api/notifications, returning the
// authenticated user's unread notifications, newest first.
func (h *Handler) ListUnreadNotifications(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	notifications, err := h.notifications.Unread(r.Context(), u.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Notifications retrieved successfully!", notifications)
}

// CountUnreadNotifications handles GET /api/notifications/count.
func (h *Handler) CountUnreadNotifications(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	count, err := h.notifications.CountUnread(r.Context(), u.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Unread count retrieved successfully!", map[string]int64{"count": count})
}

// MarkNotificationRead handles PATCH /api/notifications/{id}/read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	id, ok := urlParamID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}
	if err := h.notifications.MarkRead(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Notification marked as read!", nil)
}

// MarkAllNotificationsRead handles PATCH /api/notifications/read-all.
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.notifications.MarkAllRead(r.Context(), u.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "All notifications marked as read!", nil)
}

// DashboardSummary handles GET /api/dashboard/summary.
func (h *Handler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	summary, err := h.dashboard.Summary(r.Context(), u.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Dashboard summary retrieved successfully!", summary)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondOK(w, "ok", nil)
}
