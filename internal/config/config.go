// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

// Package config loads and validates application configuration.
//
// Configuration is layered with Koanf v2: built-in defaults first, then an
// optional YAML file, then environment variables. Later layers win, so any
// setting can be overridden with an environment variable.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Mail     MailConfig     `koanf:"mail"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"` // Read/write timeout for HTTP requests
}

// DatabaseConfig holds SQLite database configuration.
type DatabaseConfig struct {
	Path string `koanf:"path"` // Path to the SQLite database file
}

// SecurityConfig holds authentication and rate-limit configuration.
type SecurityConfig struct {
	// JWTSecret signs and verifies bearer tokens. The value is decoded as
	// standard base64 when possible, otherwise its raw bytes are used.
	// Must be at least 32 bytes once decoded.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenExpiry is the lifetime of issued access tokens.
	TokenExpiry time.Duration `koanf:"token_expiry"`

	// RateLimitReqs requests per RateLimitWindow, applied per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// LoginRateLimitReqs applies a stricter limit to credential endpoints.
	LoginRateLimitReqs int `koanf:"login_rate_limit_reqs"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// MailConfig holds outbound mail configuration for password reset OTPs.
// When Enabled is false, OTP codes are written to the application log
// instead of being sent, which is the development default.
type MailConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}
