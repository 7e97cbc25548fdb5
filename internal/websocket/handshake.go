// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package websocket

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/taskbuddy/taskbuddy/internal/auth"
	"github.com/taskbuddy/taskbuddy/internal/logging"
)

// Handshake authenticates and upgrades notification WebSocket
// connections. Authentication happens before the upgrade: a request
// without a valid token is answered with 401 and never becomes a
// WebSocket, and the registry is untouched.
type Handshake struct {
	tokens   *auth.TokenManager
	users    auth.UserResolver
	registry *Registry
	upgrader websocket.Upgrader
}

// NewHandshake creates the handshake handler.
func NewHandshake(tokens *auth.TokenManager, users auth.UserResolver, registry *Registry) *Handshake {
	return &Handshake{
		tokens:   tokens,
		users:    users,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the SPA origin; token auth is
			// the access control, not the Origin header.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles GET /api/notifications/ws.
//
// The bearer token is searched in three places, in order: the ?token=
// query parameter, the Authorization header, and the
// Sec-WebSocket-Protocol values. The first candidate that validates
// and resolves to a user wins; a candidate that fails just moves the
// search to the next source.
func (h *Handshake) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, viaSubprotocol, ok := h.authenticate(r)
	if !ok {
		http.Error(w, "missing or invalid token", http.StatusUnauthorized)
		return
	}

	// Browsers abort the handshake when an offered subprotocol is not
	// echoed, so mirror the client's first offer when the token
	// arrived that way.
	var responseHeader http.Header
	if viaSubprotocol {
		if offered := websocket.Subprotocols(r); len(offered) > 0 {
			responseHeader = http.Header{"Sec-WebSocket-Protocol": {offered[0]}}
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, responseHeader)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logging.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	ch := NewChannel(h.registry, conn, userID)
	h.registry.Register(userID, ch)
	ch.Start()
}

// authenticate walks the token sources and returns the resolved user
// ID of the first candidate that validates, plus whether it came from
// the subprotocol header.
func (h *Handshake) authenticate(r *http.Request) (userID int64, viaSubprotocol bool, ok bool) {
	type candidate struct {
		token          string
		viaSubprotocol bool
	}

	var candidates []candidate
	if t := tokenFromQuery(r); t != "" {
		candidates = append(candidates, candidate{token: t})
	}
	if t := auth.BearerToken(r); t != "" {
		candidates = append(candidates, candidate{token: t})
	}
	if t := tokenFromSubprotocol(r); t != "" {
		candidates = append(candidates, candidate{token: t, viaSubprotocol: true})
	}

	for _, c := range candidates {
		subject, err := h.tokens.Validate(sanitizeToken(c.token))
		if err != nil {
			logging.Debug().Err(err).Msg("websocket token candidate rejected")
			continue
		}
		user, err := h.users.GetByLogin(r.Context(), subject)
		if err != nil {
			logging.Debug().Str("subject", subject).Msg("websocket token subject has no matching user")
			continue
		}
		return user.ID, c.viaSubprotocol, true
	}
	return 0, false, false
}

// sanitizeToken normalizes a raw token candidate: URL-decode, strip an
// optional Bearer prefix (plain or percent-encoded), strip surrounding
// quotes, and trim whitespace.
func sanitizeToken(token string) string {
	if decoded, err := url.QueryUnescape(token); err == nil {
		token = decoded
	}
	if strings.HasPrefix(token, "Bearer%20") {
		token = token[len("Bearer%20"):]
	} else if strings.HasPrefix(token, "Bearer ") {
		token = token[len("Bearer "):]
	}
	if len(token) > 1 && strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) {
		token = token[1 : len(token)-1]
	}
	return strings.TrimSpace(token)
}

// tokenFromQuery extracts the raw ?token= value without URL-decoding;
// sanitizeToken decodes exactly once.
func tokenFromQuery(r *http.Request) string {
	for _, param := range strings.Split(r.URL.RawQuery, "&") {
		if strings.HasPrefix(param, "token=") {
			return param[len("token="):]
		}
	}
	return ""
}

// tokenFromSubprotocol returns the first non-blank offered subprotocol
// value, with an optional Bearer prefix stripped.
func tokenFromSubprotocol(r *http.Request) string {
	for _, val := range websocket.Subprotocols(r) {
		t := strings.TrimPrefix(val, "Bearer ")
		if strings.TrimSpace(t) != "" {
			return t
		}
	}
	return ""
}
