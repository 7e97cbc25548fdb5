// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

// Package auth provides JWT token management, password hashing, and the
// HTTP authentication middleware.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validation errors. Callers can distinguish an expired token from
// any other defect; everything that is not expiry is malformed.
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token is expired")
)

// Claims are the JWT claims carried by TaskBuddy access tokens.
// The subject is the user's login identifier (username or email).
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager creates and validates JWT access tokens.
// Tokens are signed with HMAC-SHA256.
type TokenManager struct {
	key    []byte
	expiry time.Duration
}

// NewTokenManager creates a token manager with the given signing key and
// token lifetime. The key must already be decoded (see config.SigningKey).
func NewTokenManager(key []byte, expiry time.Duration) (*TokenManager, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("signing key is required but was empty")
	}
	if expiry <= 0 {
		expiry = time.Hour
	}

	return &TokenManager{
		key:    key,
		expiry: expiry,
	}, nil
}

// Generate creates a signed token whose subject is the given login
// identifier. The token is valid from now until the configured expiry.
func (m *TokenManager) Generate(subject string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate verifies the token signature and time claims and returns the
// subject. It returns ErrTokenExpired for a well-formed token past its
// expiry, and ErrTokenMalformed for every other defect (bad signature,
// wrong algorithm, garbage input, missing subject).
func (m *TokenManager) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject anything but HMAC to prevent algorithm confusion.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrTokenMalformed
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrTokenMalformed)
	}

	return claims.Subject, nil
}
