// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

// Package main is the entry point for the TaskBuddy server.
//
// TaskBuddy is a collaborative task and project manager: users create
// projects, invite members, assign tasks, and comment on work, while a
// WebSocket endpoint pushes notifications about those events to connected
// clients in real time.
//
// Startup order:
//
//  1. Configuration: Koanf v2 layered loading (defaults, YAML file,
//     environment variables)
//  2. Logging: zerolog initialized from configuration
//  3. Database: SQLite via sqlx, schema applied idempotently
//  4. Channel registry and dispatcher: real-time notification fan-out
//  5. Services: business operations wired to stores and the
//     authorization engine
//  6. Supervisor tree: channel registry and HTTP server, restarted on
//     crash, shut down gracefully on SIGINT/SIGTERM
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taskbuddy/taskbuddy/internal/api"
	"github.com/taskbuddy/taskbuddy/internal/auth"
	"github.com/taskbuddy/taskbuddy/internal/authz"
	"github.com/taskbuddy/taskbuddy/internal/config"
	"github.com/taskbuddy/taskbuddy/internal/database"
	"github.com/taskbuddy/taskbuddy/internal/logging"
	"github.com/taskbuddy/taskbuddy/internal/mail"
	"github.com/taskbuddy/taskbuddy/internal/service"
	"github.com/taskbuddy/taskbuddy/internal/supervisor"
	"github.com/taskbuddy/taskbuddy/internal/supervisor/services"
	ws "github.com/taskbuddy/taskbuddy/internal/websocket"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Int("port", cfg.Server.Port).
		Msg("Configuration loaded")

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	// Stores
	users := database.NewUserStore(db)
	projects := database.NewProjectStore(db)
	members := database.NewMemberStore(db)
	tasks := database.NewTaskStore(db)
	comments := database.NewCommentStore(db)
	invitations := database.NewInvitationStore(db)
	notifications := database.NewNotificationStore(db)
	resetTokens := database.NewResetTokenStore(db)

	engine := authz.NewEngine(members, tasks, database.IsNotFound)

	tokens, err := auth.NewTokenManager(config.SigningKey(cfg.Security.JWTSecret), cfg.Security.TokenExpiry)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}

	// Real-time delivery
	registry := ws.NewRegistry()
	dispatcher := ws.NewDispatcher(registry)

	// Services
	notificationSvc := service.NewNotificationService(notifications, users, dispatcher)
	userSvc := service.NewUserService(users, tokens)
	projectSvc := service.NewProjectService(projects, members, users, engine, notificationSvc)
	taskSvc := service.NewTaskService(tasks, projects, members, users, engine, notificationSvc)
	commentSvc := service.NewCommentService(comments, tasks, projects, users, notificationSvc)
	invitationSvc := service.NewInvitationService(invitations, projects, members, users, engine, notificationSvc)
	resetSvc := service.NewPasswordResetService(users, resetTokens, mail.NewSender(cfg.Mail))
	dashboardSvc := service.NewDashboardService(projectSvc, tasks)

	// HTTP surface
	authenticator := auth.NewAuthenticator(tokens, users, api.Unauthorized)
	handshake := ws.NewHandshake(tokens, users, registry)
	handler := api.NewHandler(api.Services{
		Users:         userSvc,
		Projects:      projectSvc,
		Tasks:         taskSvc,
		Comments:      commentSvc,
		Invitations:   invitationSvc,
		Notifications: notificationSvc,
		PasswordReset: resetSvc,
		Dashboard:     dashboardSvc,
	})
	router := api.NewRouter(handler, authenticator, handshake, cfg.Security)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	// Supervisor tree
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(services.NewRegistryService(registry))
	tree.AddAPIService(services.NewHTTPServerService(server, tree.ShutdownTimeout()))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("TaskBuddy stopped gracefully")
}
