// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/taskbuddy/taskbuddy/internal/auth"
	"github.com/taskbuddy/taskbuddy/internal/authz"
	"github.com/taskbuddy/taskbuddy/internal/config"
	"github.com/taskbuddy/taskbuddy/internal/database"
	"github.com/taskbuddy/taskbuddy/internal/mail"
	"github.com/taskbuddy/taskbuddy/internal/service"
	ws "github.com/taskbuddy/taskbuddy/internal/websocket"
)

// apiResponse mirrors the envelope for decoding in tests.
type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	srv      *httptest.Server
	registry *ws.Registry
}

func newTestServer(t *testing.T) *testServer {
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

	registry := ws.NewRegistry()
	dispatcher := ws.NewDispatcher(registry)
	notificationSvc := service.NewNotificationService(notificationStore, userStore, dispatcher)
	projectSvc := service.NewProjectService(projectStore, memberStore, userStore, engine, notificationSvc)

	handler := NewHandler(Services{
		Users:         service.NewUserService(userStore, tokens),
		Projects:      projectSvc,
		Tasks:         service.NewTaskService(taskStore, projectStore, memberStore, userStore, engine, notificationSvc),
		Comments:      service.NewCommentService(commentStore, taskStore, projectStore, userStore, notificationSvc),
		Invitations:   service.NewInvitationService(invitationStore, projectStore, memberStore, userStore, engine, notificationSvc),
		Notifications: notificationSvc,
		PasswordReset: service.NewPasswordResetService(userStore, resetStore, mail.LogSender{}),
		Dashboard:     service.NewDashboardService(projectSvc, taskStore),
	})

	authenticator := auth.NewAuthenticator(tokens, userStore, Unauthorized)
	handshake := ws.NewHandshake(tokens, userStore, registry)
	router := NewRouter(handler, authenticator, handshake, config.SecurityConfig{
		RateLimitReqs:      1000,
		RateLimitWindow:    time.Minute,
		LoginRateLimitReqs: 1000,
		CORSOrigins:        []string{"*"},
	})

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, registry: registry}
}

// do sends a JSON request, optionally authenticated, and decodes the
// envelope.
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("%s %s: decoding envelope: %v", method, path, err)
	}
	return resp.StatusCode, envelope
}

// register creates an account and returns its bearer token and user ID.
func (ts *testServer) register(t *testing.T, username string) (string, int64) {
	t.Helper()

	status, _ := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cretpass",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status = %d, want 201", username, status)
	}

	status, envelope := ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"usernameOrEmail": username,
		"password":        "s3cretpass",
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status = %d, want 200", username, status)
	}
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		t.Fatalf("decoding login data: %v", err)
	}
	return data.Token, data.User.ID
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := ts.srv.Client().Get(ts.srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.register(t, "alice")

	status, envelope := ts.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("GET /api/auth/me status = %d, want 200", status)
	}
	var me struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(envelope.Data, &me); err != nil {
		t.Fatalf("decoding me data: %v", err)
	}
	if me.Username != "alice" {
		t.Errorf("me username = %q, want alice", me.Username)
	}
}

func TestAuthRejections(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       interface{}
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "protected route without token",
			method:     http.MethodGet,
			path:       "/api/projects",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "protected route with garbage token",
			method:     http.MethodGet,
			path:       "/api/projects",
			token:      "not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong password",
			method:     http.MethodPost,
			path:       "/api/auth/login",
			body:       map[string]string{"usernameOrEmail": "alice", "password": "wrong"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid username or password",
		},
		{
			name:       "duplicate username",
			method:     http.MethodPost,
			path:       "/api/auth/register",
			body:       map[string]string{"username": "alice", "email": "a2@example.com", "password": "s3cretpass"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Username already exists!",
		},
		{
			name:       "short username fails validation",
			method:     http.MethodPost,
			path:       "/api/auth/register",
			body:       map[string]string{"username": "ab", "email": "ab@example.com", "password": "s3cretpass"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Validation failed on field 'Username'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, envelope := ts.do(t, tt.method, tt.path, tt.token, tt.body)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if envelope.Success {
				t.Error("success = true, want false")
			}
			if tt.wantMsg != "" && envelope.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", envelope.Message, tt.wantMsg)
			}
		})
	}
}

func TestProjectAndTaskEndpoints(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, _ := ts.register(t, "alice")
	bobToken, bobID := ts.register(t, "bob")

	// Alice creates a project and adds Bob.
	status, envelope := ts.do(t, http.MethodPost, "/api/projects", aliceToken, map[string]string{
		"name":        "apollo",
		"description": "launch prep",
	})
	if status != http.StatusCreated {
		t.Fatalf("create project status = %d, want 201", status)
	}
	var project struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(envelope.Data, &project); err != nil {
		t.Fatalf("decoding project: %v", err)
	}

	status, _ = ts.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", project.ID), aliceToken, map[string]int64{
		"userId": bobID,
	})
	if status != http.StatusOK {
		t.Fatalf("add member status = %d, want 200", status)
	}

	// Bob cannot change the project status.
	status, envelope = ts.do(t, http.MethodPatch, fmt.Sprintf("/api/projects/%d/status", project.ID), bobToken, map[string]string{
		"status": "COMPLETED",
	})
	if status != http.StatusBadRequest {
		t.Errorf("member status change = %d, want 400", status)
	}
	if envelope.Message != "Only project manager can update project status!" {
		t.Errorf("message = %q", envelope.Message)
	}

	// Alice creates a task assigned to Bob.
	status, envelope = ts.do(t, http.MethodPost, "/api/tasks", aliceToken, map[string]interface{}{
		"title":          "deploy",
		"projectId":      project.ID,
		"assignedUserId": bobID,
	})
	if status != http.StatusCreated {
		t.Fatalf("create task status = %d, want 201", status)
	}
	if envelope.Message != "Task created and assigned successfully!" {
		t.Errorf("create task message = %q", envelope.Message)
	}
	var task struct {
		ID       int64  `json:"id"`
		Priority string `json:"priority"`
	}
	if err := json.Unmarshal(envelope.Data, &task); err != nil {
		t.Fatalf("decoding task: %v", err)
	}
	if task.Priority != "MEDIUM" {
		t.Errorf("default priority = %q, want MEDIUM", task.Priority)
	}

	// Bob moves it along; the confirmation message mirrors the status.
	status, envelope = ts.do(t, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/status", task.ID), bobToken, map[string]string{
		"status": "IN_PROGRESS",
	})
	if status != http.StatusOK {
		t.Fatalf("task status change = %d, want 200", status)
	}
	if envelope.Message != "Task in progress successfully!" {
		t.Errorf("task status message = %q", envelope.Message)
	}

	// The assignment notified Bob; he sees it as unread.
	status, envelope = ts.do(t, http.MethodGet, "/api/notifications/count", bobToken, nil)
	if status != http.StatusOK {
		t.Fatalf("notification count status = %d, want 200", status)
	}
	var count struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(envelope.Data, &count); err != nil {
		t.Fatalf("decoding count: %v", err)
	}
	if count.Count != 1 {
		t.Errorf("unread count = %d, want 1 (task assignment)", count.Count)
	}

	status, _ = ts.do(t, http.MethodPatch, "/api/notifications/read-all", bobToken, nil)
	if status != http.StatusOK {
		t.Fatalf("read-all status = %d, want 200", status)
	}

	// Dashboard reflects Bob's single in-progress task.
	status, envelope = ts.do(t, http.MethodGet, "/api/dashboard/summary", bobToken, nil)
	if status != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", status)
	}
	var summary struct {
		ProjectsCount   int64 `json:"projectsCount"`
		InProgressTasks int64 `json:"inProgressTasks"`
	}
	if err := json.Unmarshal(envelope.Data, &summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if summary.ProjectsCount != 1 || summary.InProgressTasks != 1 {
		t.Errorf("summary = %+v, want 1 project and 1 in-progress task", summary)
	}
}

func TestCommentExclusivity(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.register(t, "alice")

	status, envelope := ts.do(t, http.MethodPost, "/api/comments", token, map[string]string{
		"message": "orphan",
	})
	if status != http.StatusBadRequest {
		t.Errorf("comment without target = %d, want 400", status)
	}
	if envelope.Success {
		t.Error("success = true, want false")
	}

	one := int64(1)
	status, _ = ts.do(t, http.MethodPost, "/api/comments", token, map[string]interface{}{
		"message":   "both",
		"taskId":    one,
		"projectId": one,
	})
	if status != http.StatusBadRequest {
		t.Errorf("comment with both targets = %d, want 400", status)
	}
}

func TestWebSocketPushEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, _ := ts.register(t, "alice")
	bobToken, bobID := ts.register(t, "bob")

	_, envelope := ts.do(t, http.MethodPost, "/api/projects", aliceToken, map[string]string{
		"name": "apollo",
	})
	var project struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(envelope.Data, &project); err != nil {
		t.Fatalf("decoding project: %v", err)
	}
	if _, e := ts.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", project.ID), aliceToken, map[string]int64{"userId": bobID}); e.Success != true {
		t.Fatalf("add member failed: %s", e.Message)
	}

	// Bob opens the notification socket with his bearer token.
	wsAddr := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/api/notifications/ws"
	header := http.Header{"Authorization": {"Bearer " + bobToken}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsAddr, header)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	resp.Body.Close()

	// The channel is registered server-side just after the upgrade
	// response; wait for it before triggering the push.
	deadline := time.Now().Add(2 * time.Second)
	for ts.registry.NumChannels() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if ts.registry.NumChannels() == 0 {
		t.Fatal("websocket channel was never registered")
	}

	// Alice assigns Bob a task; the push arrives on the open socket.
	status, _ := ts.do(t, http.MethodPost, "/api/tasks", aliceToken, map[string]interface{}{
		"title":          "deploy",
		"projectId":      project.ID,
		"assignedUserId": bobID,
	})
	if status != http.StatusCreated {
		t.Fatalf("create task status = %d, want 201", status)
	}

	if err := conn.SetReadDeadline(time.Now().Add(3 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var frame struct {
		Message     string `json:"message"`
		Type        string `json:"type"`
		RecipientID int64  `json:"recipientId"`
	}
	if err := json.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
	if frame.Type != "TASK_ASSIGNED" || frame.RecipientID != bobID {
		t.Errorf("frame = %+v, want TASK_ASSIGNED for bob", frame)
	}
	if frame.Message != "You have been assigned to task 'deploy' in project 'apollo'" {
		t.Errorf("frame message = %q", frame.Message)
	}
}
