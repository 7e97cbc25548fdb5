// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package service

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/taskbuddy/taskbuddy/internal/auth"
	"github.com/taskbuddy/taskbuddy/internal/authz"
	"github.com/taskbuddy/taskbuddy/internal/database"
	"github.com/taskbuddy/taskbuddy/internal/models"
)

// recordingDeliverer captures notifications that would be pushed over
// WebSocket, in delivery order.
type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []*models.Notification
}

func (d *recordingDeliverer) Deliver(n *models.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, n)
}

func (d *recordingDeliverer) all() []*models.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*models.Notification, len(d.delivered))
	copy(out, d.delivered)
	return out
}

func (d *recordingDeliverer) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = nil
}

// recordingSender captures password reset OTPs instead of sending mail.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentOTP
	err  error
}

type sentOTP struct {
	email string
	otp   string
}

func (s *recordingSender) SendOTP(_ context.Context, toEmail, otp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentOTP{email: toEmail, otp: otp})
	return nil
}

func (s *recordingSender) last(t *testing.T) sentOTP {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		t.Fatal("no OTP was sent")
	}
	return s.sent[len(s.sent)-1]
}

// fixture wires every service over a throwaway SQLite database.
type fixture struct {
	db        *database.DB
	userStore *database.UserStore
	deliverer *recordingDeliverer
	mailer    *recordingSender

	users         *UserService
	projects      *ProjectService
	tasks         *TaskService
	comments      *CommentService
	invitations   *InvitationService
	notifications *NotificationService
	reset         *PasswordResetService
	dashboard     *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	userStore := database.NewUserStore(db)
	projectStore := database.NewProjectStore(db)
	memberStore := database.NewMemberStore(db)
	taskStore := database.NewTaskStore(db)
	commentStore := database.NewCommentStore(db)
	invitationStore := database.NewInvitationStore(db)
	notificationStore := database.NewNotificationStore(db)
	resetStore := database.NewResetTokenStore(db)

	engine := authz.NewEngine(memberStore, taskStore, database.IsNotFound)
	tokens, err := auth.NewTokenManager([]byte(strings.Repeat("k", 32)), time.Hour)
	if err != nil {
		t.Fatalf("auth.NewTokenManager() error = %v", err)
	}

	deliverer := &recordingDeliverer{}
	mailer := &recordingSender{}
	notificationSvc := NewNotificationService(notificationStore, userStore, deliverer)

	return &fixture{
		db:            db,
		userStore:     userStore,
		deliverer:     deliverer,
		mailer:        mailer,
		users:         NewUserService(userStore, tokens),
		projects:      NewProjectService(projectStore, memberStore, userStore, engine, notificationSvc),
		tasks:         NewTaskService(taskStore, projectStore, memberStore, userStore, engine, notificationSvc),
		comments:      NewCommentService(commentStore, taskStore, projectStore, userStore, notificationSvc),
		invitations:   NewInvitationService(invitationStore, projectStore, memberStore, userStore, engine, notificationSvc),
		notifications: notificationSvc,
		reset:         NewPasswordResetService(userStore, resetStore, mailer),
		dashboard:     NewDashboardService(NewProjectService(projectStore, memberStore, userStore, engine, notificationSvc), taskStore),
	}
}

// user inserts an account directly, skipping the bcrypt cost of Register.
func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$12$notarealhashbutlongenough",
		Role:         models.UserRoleUser,
	}
	if err := f.userStore.Create(context.Background(), u); err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return u
}

func (f *fixture) project(t *testing.T, manager *models.User, members ...*models.User) *models.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), "project-"+manager.Username, "test project", manager.ID)
	if err != nil {
		t.Fatalf("creating project: %v", err)
	}
	for _, m := range members {
		if err := f.projects.AddMember(context.Background(), p.ID, manager.ID, m.ID); err != nil {
			t.Fatalf("adding member %s: %v", m.Username, err)
		}
	}
	f.deliverer.reset()
	return p
}

func (f *fixture) task(t *testing.T, p *models.Project, creator *models.User, assignee *models.User) *models.Task {
	t.Helper()
	in := TaskInput{Title: "deploy", Description: "ship it", Priority: models.TaskPriorityMedium, ProjectID: p.ID}
	if assignee != nil {
		in.AssignedUserID = &assignee.ID
	}
	task, err := f.tasks.Create(context.Background(), in, creator.ID)
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
	f.deliverer.reset()
	return task
}

func wantInvalidInput(t *testing.T, err error, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("got nil error, want invalid input %q", message)
	}
	if !IsInvalidInput(err) {
		t.Fatalf("error = %v, want invalid input", err)
	}
	if err.Error() != message {
		t.Errorf("error message = %q, want %q", err.Error(), message)
	}
}

func wantNotFound(t *testing.T, err error) {
	t.Helper()
	if !IsNotFound(err) {
		t.Fatalf("error = %v, want not found", err)
	}
}

func wantDelivered(t *testing.T, d *recordingDeliverer, recipientID int64, typ models.NotificationType, message string) {
	t.Helper()
	for _, n := range d.all() {
		if n.RecipientID == recipientID && n.Type == typ {
			if n.Message != message {
				t.Errorf("notification message = %q, want %q", n.Message, message)
			}
			return
		}
	}
	t.Errorf("no %s notification delivered to user %d (got %d deliveries)", typ, recipientID, len(d.all()))
}
