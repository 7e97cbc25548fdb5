// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taskbuddy/taskbuddy/internal/auth"
	"github.com/taskbuddy/taskbuddy/internal/models"
)

type fakeResolver struct {
	users map[string]*models.User
}

func (f *fakeResolver) GetByLogin(_ context.Context, login string) (*models.User, error) {
	if u, ok := f.users[login]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func newHandshakeServer(t *testing.T) (*httptest.Server, *Registry, string) {
	t.Helper()

	tokens, err := auth.NewTokenManager([]byte(strings.Repeat("k", 32)), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	token, err := tokens.Generate("alice")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	resolver := &fakeResolver{users: map[string]*models.User{
		"alice": {ID: 5, Username: "alice"},
	}}
	registry := NewRegistry()
	srv := httptest.NewServer(NewHandshake(tokens, resolver, registry))
	t.Cleanup(srv.Close)
	return srv, registry, token
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitForChannels(t *testing.T, registry *Registry, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if registry.NumChannels() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("NumChannels() = %d, want %d", registry.NumChannels(), want)
}

func TestHandshakeQueryToken(t *testing.T) {
	srv, registry, token := newHandshakeServer(t)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token="+url.QueryEscape(token), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	resp.Body.Close()

	waitForChannels(t, registry, 1)
	chans := registry.ChannelsFor(5)
	if len(chans) != 1 {
		t.Fatalf("ChannelsFor(5) = %d channels, want 1", len(chans))
	}
	if got := chans[0].UserID(); got != 5 {
		t.Errorf("UserID() = %d, want 5", got)
	}
}

func TestHandshakeBearerHeader(t *testing.T) {
	srv, registry, token := newHandshakeServer(t)

	header := http.Header{"Authorization": {"Bearer " + token}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	resp.Body.Close()

	waitForChannels(t, registry, 1)
}

func TestHandshakeSubprotocolTokenEchoed(t *testing.T) {
	srv, registry, token := newHandshakeServer(t)

	dialer := websocket.Dialer{Subprotocols: []string{token}}
	conn, resp, err := dialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	// Browsers abort unless the server echoes the offered subprotocol.
	if got := resp.Header.Get("Sec-WebSocket-Protocol"); got != token {
		t.Errorf("Sec-WebSocket-Protocol = %q, want the offered token echoed", got)
	}
	resp.Body.Close()

	waitForChannels(t, registry, 1)
}

func TestHandshakeRejectsInvalidToken(t *testing.T) {
	srv, registry, _ := newHandshakeServer(t)

	tests := []struct {
		name string
		url  string
	}{
		{name: "no token", url: wsURL(srv)},
		{name: "garbage token", url: wsURL(srv) + "?token=not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(tt.url, nil)
			if err == nil {
				t.Fatal("Dial() succeeded, want rejection before upgrade")
			}
			if resp == nil || resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %v, want 401", resp)
			}
			if resp != nil {
				resp.Body.Close()
			}
		})
	}
	if got := registry.NumChannels(); got != 0 {
		t.Errorf("NumChannels() after rejected handshakes = %d, want 0", got)
	}
}

func TestHandshakeRejectsUnknownSubject(t *testing.T) {
	tokens, err := auth.NewTokenManager([]byte(strings.Repeat("k", 32)), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	token, err := tokens.Generate("ghost")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	srv := httptest.NewServer(NewHandshake(tokens, &fakeResolver{users: map[string]*models.User{}}, NewRegistry()))
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token="+url.QueryEscape(token), nil)
	if err == nil {
		t.Fatal("Dial() succeeded for a token whose subject has no user")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %v, want 401", resp)
	}
	if resp != nil {
		resp.Body.Close()
	}
}

func TestHandshakeDeliversOverSocket(t *testing.T) {
	srv, registry, token := newHandshakeServer(t)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token="+url.QueryEscape(token), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	resp.Body.Close()

	waitForChannels(t, registry, 1)
	NewDispatcher(registry).Deliver(testNotification(5))

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if !strings.Contains(string(payload), `"id":42`) {
		t.Errorf("payload = %s, want the notification frame", payload)
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "abc.def.ghi", want: "abc.def.ghi"},
		{name: "bearer prefix", input: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "encoded bearer prefix", input: "Bearer%20abc.def.ghi", want: "abc.def.ghi"},
		{name: "quoted", input: `"abc.def.ghi"`, want: "abc.def.ghi"},
		{name: "whitespace", input: "  abc.def.ghi  ", want: "abc.def.ghi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeToken(tt.input); got != tt.want {
				t.Errorf("sanitizeToken(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
