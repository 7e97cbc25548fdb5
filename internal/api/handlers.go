// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taskbuddy/taskbuddy/internal/auth"
	"github.com/taskbuddy/taskbuddy/internal/models"
	"github.com/taskbuddy/taskbuddy/internal/service"
)

// Handler carries the service dependencies of every endpoint.
type Handler struct {
	users         *service.UserService
	projects      *service.ProjectService
	tasks         *service.TaskService
	comments      *service.CommentService
	invitations   *service.InvitationService
	notifications *service.NotificationService
	passwordReset *service.PasswordResetService
	dashboard     *service.DashboardService
}

// Services groups the handler dependencies for construction.
type Services struct {
	Users         *service.UserService
	Projects      *service.ProjectService
	Tasks         *service.TaskService
	Comments      *service.CommentService
	Invitations   *service.InvitationService
	Notifications *service.NotificationService
	PasswordReset *service.PasswordResetService
	Dashboard     *service.DashboardService
}

func NewHandler(s Services) *Handler {
	return &Handler{
		users:         s.Users,
		projects:      s.Projects,
		tasks:         s.Tasks,
		comments:      s.Comments,
		invitations:   s.Invitations,
		notifications: s.Notifications,
		passwordReset: s.PasswordReset,
		dashboard:     s.Dashboard,
	}
}

// urlParamID parses the named chi URL parameter as a positive int64.
func urlParamID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// currentUser returns the authenticated user placed in the context by the
// authentication middleware. Handlers behind the middleware can rely on it
// being present; the false branch is a guard against misrouted wiring.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return u, true
}

func parseDueDate(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, false
	}
	return &t, true
}
