// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskbuddy/taskbuddy/internal/logging"
	"github.com/taskbuddy/taskbuddy/internal/models"
)

// userContextKey is the context key under which the authenticated user is stored.
type userContextKey struct{}

// UserResolver looks up a user by login identifier (username or email).
// Implemented by the user store.
type UserResolver interface {
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}

// Authenticator is HTTP middleware that validates bearer tokens and
// resolves the token subject to a user record.
type Authenticator struct {
	tokens *TokenManager
	users  UserResolver
	deny   func(w http.ResponseWriter, message string)
}

// NewAuthenticator creates the authentication middleware. deny writes the
// 401 response body; it lets the API package keep ownership of the
// response envelope.
func NewAuthenticator(tokens *TokenManager, users UserResolver, deny func(w http.ResponseWriter, message string)) *Authenticator {
	return &Authenticator{
		tokens: tokens,
		users:  users,
		deny:   deny,
	}
}

// Middleware returns a chi-compatible middleware that rejects requests
// without a valid bearer token. On success the resolved user is stored in
// the request context; retrieve it with UserFromContext.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := BearerToken(r)
		if raw == "" {
			a.deny(w, "missing authorization token")
			return
		}

		subject, err := a.tokens.Validate(raw)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("token validation failed")
			a.deny(w, "invalid or expired token")
			return
		}

		user, err := a.users.GetByLogin(r.Context(), subject)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Str("subject", subject).Msg("token subject has no matching user")
			a.deny(w, "invalid or expired token")
			return
		}

		ctx := ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken extracts the token from the Authorization header.
// Returns empty string if the header is missing or not a bearer scheme.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// ContextWithUser stores the authenticated user in the context.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*models.User)
	return user, ok
}
