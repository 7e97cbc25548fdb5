// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package config

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// minJWTSecretBytes is the minimum decoded length of the JWT signing key.
const minJWTSecretBytes = 32

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateMail(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server configuration.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

// validateDatabase validates database configuration.
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	return nil
}

// validateSecurity validates authentication configuration.
func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(SigningKey(c.Security.JWTSecret)) < minJWTSecretBytes {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes after decoding", minJWTSecretBytes)
	}
	if c.Security.TokenExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be positive, got %s", c.Security.TokenExpiry)
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.LoginRateLimitReqs < 1 {
		return fmt.Errorf("LOGIN_RATE_LIMIT_REQS must be at least 1, got %d", c.Security.LoginRateLimitReqs)
	}
	return nil
}

// validateMail validates outbound mail configuration (only if enabled).
func (c *Config) validateMail() error {
	if !c.Mail.Enabled {
		return nil
	}
	if c.Mail.Host == "" {
		return fmt.Errorf("MAIL_HOST is required when MAIL_ENABLED=true")
	}
	if c.Mail.Port < 1 || c.Mail.Port > 65535 {
		return fmt.Errorf("MAIL_PORT must be between 1 and 65535, got %d", c.Mail.Port)
	}
	if c.Mail.From == "" {
		return fmt.Errorf("MAIL_FROM is required when MAIL_ENABLED=true")
	}
	return nil
}

// validateLogging validates logging configuration.
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, got %q", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}

	return nil
}

// SigningKey decodes the configured JWT secret into key bytes.
// The secret is interpreted as standard base64 when it decodes cleanly;
// otherwise its raw UTF-8 bytes are used.
func SigningKey(secret string) []byte {
	if decoded, err := base64.StdEncoding.DecodeString(secret); err == nil {
		return decoded
	}
	return []byte(secret)
}
