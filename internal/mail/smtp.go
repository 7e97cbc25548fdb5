// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/taskbuddy/taskbuddy/internal/config"
	"github.com/taskbuddy/taskbuddy/internal/logging"
)

// SMTPSender sends OTP mail over SMTP. Sends go through a circuit breaker
// so a dead mail server fails fast instead of stalling password-reset
// requests.
type SMTPSender struct {
	addr    string
	from    string
	auth    smtp.Auth
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	settings := gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Mail circuit breaker state changed")
		},
	}
	return &SMTPSender{
		addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from:    cfg.From,
		auth:    auth,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

func (s *SMTPSender) SendOTP(_ context.Context, toEmail, otp string) error {
	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: TaskBuddy password reset\r\n\r\n"+
			"Your password reset code is %s. It expires in 10 minutes.\r\n",
		s.from, toEmail, otp)

	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, smtp.SendMail(s.addr, s.auth, s.from, []string{toEmail}, []byte(body))
	})
	if err != nil {
		return fmt.Errorf("send OTP mail: %w", err)
	}
	return nil
}
