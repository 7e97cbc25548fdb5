// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

// Package mail delivers password-reset OTP messages. The default sender
// logs the OTP instead of sending it, which is the development-mode
// behavior; SMTP delivery is opt-in through configuration.
package mail

import (
	"context"

	"github.com/taskbuddy/taskbuddy/internal/config"
	"github.com/taskbuddy/taskbuddy/internal/logging"
)

// Sender sends a password-reset OTP to an email address.
type Sender interface {
	SendOTP(ctx context.Context, toEmail, otp string) error
}

// LogSender writes the OTP to the application log instead of sending
// email. Used when mail delivery is disabled.
type LogSender struct{}

func (LogSender) SendOTP(_ context.Context, toEmail, otp string) error {
	logging.Info().
		Str("email", toEmail).
		Str("otp", otp).
		Str("expires_in", "10 minutes").
		Msg("Password reset OTP issued (mail delivery disabled)")
	return nil
}

// NewSender builds the sender selected by configuration: SMTP when mail
// delivery is enabled, the log sender otherwise.
func NewSender(cfg config.MailConfig) Sender {
	if cfg.Enabled {
		return NewSMTPSender(cfg)
	}
	return LogSender{}
}
