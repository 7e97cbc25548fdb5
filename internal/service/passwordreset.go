// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taskbuddy/taskbuddy/internal/auth"
	"github.com/taskbuddy/taskbuddy/internal/database"
	"github.com/taskbuddy/taskbuddy/internal/logging"
	"github.com/taskbuddy/taskbuddy/internal/mail"
	"github.com/taskbuddy/taskbuddy/internal/models"
)

const otpTTL = 10 * time.Minute

// PasswordResetService implements the forgot-password OTP flow. Requests
// are rate limited per email so the endpoint cannot be used to flood a
// mailbox.
type PasswordResetService struct {
	users  *database.UserStore
	tokens *database.ResetTokenStore
	sender mail.Sender

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewPasswordResetService(users *database.UserStore, tokens *database.ResetTokenStore, sender mail.Sender) *PasswordResetService {
	return &PasswordResetService{
		users:    users,
		tokens:   tokens,
		sender:   sender,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Request issues a fresh 6-digit OTP for the account behind email,
// invalidating any earlier unused codes, and sends it through the
// configured mail sender.
func (s *PasswordResetService) Request(ctx context.Context, email string) error {
	if !s.allow(email) {
		return invalidInputf("Too many password reset requests, try again later")
	}
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if database.IsNotFound(err) {
			return notFoundf("User not found with email: %s", email)
		}
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generate OTP: %w", err)
	}
	if err := s.tokens.InvalidateForEmail(ctx, email); err != nil {
		return err
	}
	token := &models.PasswordResetToken{
		Email:     email,
		OTP:       otp,
		ExpiresAt: time.Now().UTC().Add(otpTTL),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return err
	}

	if err := s.sender.SendOTP(ctx, email, otp); err != nil {
		logging.Warn().Err(err).Str("email", email).Msg("Failed to send OTP mail")
		return fmt.Errorf("send OTP: %w", err)
	}
	logging.Info().Str("email", email).Msg("Password reset OTP sent")
	return nil
}

// Reset verifies the OTP and stores the new password. The code is single
// use: it is marked used before the password changes.
func (s *PasswordResetService) Reset(ctx context.Context, email, otp, newPassword string) error {
	token, err := s.tokens.FindValid(ctx, email, otp)
	if err != nil {
		if database.IsNotFound(err) {
			return invalidInputf("Invalid or expired OTP")
		}
		return err
	}
	if err := s.tokens.MarkUsed(ctx, token.ID); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordByEmail(ctx, email, hash); err != nil {
		if database.IsNotFound(err) {
			return notFoundf("User not found with email: %s", email)
		}
		return err
	}
	logging.Info().Str("email", email).Msg("Password reset completed")
	return nil
}

// allow enforces a 1-request-per-minute, burst-3 limit per email address.
func (s *PasswordResetService) allow(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[email]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute), 3)
		s.limiters[email] = l
	}
	return l.Allow()
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
