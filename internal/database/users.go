// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/taskbuddy/taskbuddy/internal/models"
)

// UserStore persists user accounts.
type UserStore struct {
	db *DB
}

// NewUserStore creates a user store over the shared database handle.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user. Returns ErrDuplicate when the username or
// email is already taken. The ID and CreatedAt fields are populated on
// success.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	u.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, role, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	u.ID = id
	return nil
}

// GetByID fetches a user by primary key.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// GetByUsername fetches a user by exact username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE username = ?`, username)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// GetByEmail fetches a user by exact email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE email = ?`, email)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// GetByLogin resolves a login identifier to a user, trying username
// first and falling back to email.
func (s *UserStore) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	u, err := s.GetByUsername(ctx, login)
	if err == nil {
		return u, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	return s.GetByEmail(ctx, login)
}

// List returns all users ordered by username.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY username`)
	if err != nil {
		return nil, mapErr(err)
	}
	return users, nil
}

// Search returns users whose username or email contains the query,
// case-insensitively.
func (s *UserStore) Search(ctx context.Context, query string) ([]models.User, error) {
	pattern := "%" + query + "%"
	var users []models.User
	err := s.db.SelectContext(ctx, &users,
		`SELECT * FROM users
		 WHERE username LIKE ? COLLATE NOCASE OR email LIKE ? COLLATE NOCASE
		 ORDER BY username`,
		pattern, pattern)
	if err != nil {
		return nil, mapErr(err)
	}
	return users, nil
}

// Update rewrites the user's username and email. Returns ErrDuplicate
// when the new values collide with another account and ErrNotFound when
// the user does not exist.
func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ? WHERE id = ?`,
		u.Username, u.Email, u.ID)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// UpdateRole changes the user's global role.
func (s *UserStore) UpdateRole(ctx context.Context, id int64, role models.UserRole) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// UpdatePassword replaces the user's password hash.
func (s *UserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// UpdatePasswordByEmail replaces the password hash of the account with
// the given email. Used by the password reset flow.
func (s *UserStore) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE email = ?`, passwordHash, email)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// Delete removes the user.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}
