// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskbuddy/taskbuddy/internal/auth"
	"github.com/taskbuddy/taskbuddy/internal/config"
	"github.com/taskbuddy/taskbuddy/internal/middleware"
)

// Router assembles the full HTTP surface: request plumbing, rate limits,
// authentication, and the endpoint tree.
type Router struct {
	handler       *Handler
	authenticator *auth.Authenticator
	handshake     http.Handler
	security      config.SecurityConfig
}

// NewRouter builds a Router. handshake serves the WebSocket notification
// endpoint and performs its own token authentication, so it is mounted
// outside the middleware-authenticated group.
func NewRouter(handler *Handler, authenticator *auth.Authenticator, handshake http.Handler, security config.SecurityConfig) *Router {
	return &Router{
		handler:       handler,
		authenticator: authenticator,
		handshake:     handshake,
		security:      security,
	}
}

// Setup wires every route and returns the root handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Sec-WebSocket-Protocol"},
		AllowCredentials: false,
		MaxAge:           86400,
	}))

	r.Get("/healthz", router.handler.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Credential endpoints carry a stricter per-IP rate limit against
	// brute forcing.
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(httprate.LimitByIP(router.security.RateLimitReqs, router.security.RateLimitWindow))

		strict := httprate.LimitByIP(router.security.LoginRateLimitReqs, router.security.RateLimitWindow)
		r.With(strict).Post("/login", router.handler.Login)
		r.With(strict).Post("/forgot-password", router.handler.ForgotPassword)
		r.With(strict).Post("/reset-password", router.handler.ResetPassword)
		r.Post("/register", router.handler.Register)

		r.With(router.authenticator.Middleware).Get("/me", router.handler.Me)
	})

	// The handshake endpoint authenticates itself from the token carried
	// in the query string, Authorization header, or subprotocol.
	r.Method(http.MethodGet, "/api/notifications/ws", router.handshake)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Compression)
		r.Use(middleware.PrometheusMetrics)
		r.Use(httprate.LimitByIP(router.security.RateLimitReqs, router.security.RateLimitWindow))
		r.Use(router.authenticator.Middleware)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", router.handler.ListUsers)
			r.Post("/change-password", router.handler.ChangePassword)
			r.Get("/{id}", router.handler.GetUser)
			r.Put("/{id}", router.handler.UpdateUser)
			r.Delete("/{id}", router.handler.DeleteUser)
			r.Patch("/{id}/role", router.handler.ChangeUserRole)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", router.handler.ListProjects)
			r.Post("/", router.handler.CreateProject)
			r.Get("/{id}", router.handler.GetProject)
			r.Put("/{id}", router.handler.UpdateProject)
			r.Delete("/{id}", router.handler.DeleteProject)
			r.Patch("/{id}/status", router.handler.UpdateProjectStatus)
			r.Get("/{id}/role", router.handler.GetProjectRole)
			r.Get("/{id}/tasks", router.handler.ListProjectTasks)
			r.Get("/{id}/comments", router.handler.ListProjectComments)
			r.Get("/{id}/invitations", router.handler.ListProjectInvitations)
			r.Get("/{id}/members", router.handler.ListProjectMembers)
			r.Post("/{id}/members", router.handler.AddProjectMember)
			r.Delete("/{id}/members/{userId}", router.handler.RemoveProjectMember)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", router.handler.ListTasks)
			r.Post("/", router.handler.CreateTask)
			r.Get("/{id}", router.handler.GetTask)
			r.Put("/{id}", router.handler.UpdateTask)
			r.Delete("/{id}", router.handler.DeleteTask)
			r.Patch("/{id}/status", router.handler.UpdateTaskStatus)
			r.Patch("/{id}/assignee", router.handler.ReassignTask)
			r.Get("/{id}/comments", router.handler.ListTaskComments)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Post("/", router.handler.CreateComment)
			r.Put("/{id}", router.handler.UpdateComment)
			r.Delete("/{id}", router.handler.DeleteComment)
		})

		r.Route("/project-invitations", func(r chi.Router) {
			r.Get("/", router.handler.ListPendingInvitations)
			r.Post("/", router.handler.InviteUser)
			r.Patch("/{id}", router.handler.RespondToInvitation)
			r.Delete("/{id}", router.handler.CancelInvitation)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", router.handler.ListUnreadNotifications)
			r.Post("/", router.handler.CreateNotification)
			r.Get("/count", router.handler.CountUnreadNotifications)
			r.Patch("/read-all", router.handler.MarkAllNotificationsRead)
			r.Patch("/{id}/read", router.handler.MarkNotificationRead)
		})

		r.Get("/dashboard/summary", router.handler.DashboardSummary)
	})

	return r
}
