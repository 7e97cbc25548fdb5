// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package service

import (
	"context"
	"fmt"

	"github.com/taskbuddy/taskbuddy/internal/auth"
	"github.com/taskbuddy/taskbuddy/internal/database"
	"github.com/taskbuddy/taskbuddy/internal/logging"
	"github.com/taskbuddy/taskbuddy/internal/models"
)

// UserService handles registration, login, and account management.
type UserService struct {
	users  *database.UserStore
	tokens *auth.TokenManager
}

func NewUserService(users *database.UserStore, tokens *auth.TokenManager) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Register creates a new account with the USER role. Username and email
// must both be unused.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, invalidInputf("Username already exists!")
	} else if !database.IsNotFound(err) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, invalidInputf("Email already registered!")
	} else if !database.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.UserRoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if database.IsDuplicate(err) {
			return nil, invalidInputf("Username already exists!")
		}
		return nil, err
	}

	logging.Info().
		Int64("user_id", u.ID).
		Str("username", u.Username).
		Msg("User registered")
	return u, nil
}

// Authenticate verifies a username-or-email login and issues a JWT. The
// error is deliberately uniform so callers cannot probe which accounts
// exist.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (string, *models.User, error) {
	u, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if database.IsNotFound(err) {
			return "", nil, invalidInputf("Invalid username or password")
		}
		return "", nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, invalidInputf("Invalid username or password")
	}

	token, err := s.tokens.Generate(u.Username)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	logging.Info().
		Int64("user_id", u.ID).
		Str("username", u.Username).
		Msg("User authenticated")
	return token, u, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("User not found with ID: %d", id)
		}
		return nil, err
	}
	return u, nil
}

// GetByUsername returns a user by username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("User not found with username: %s", username)
		}
		return nil, err
	}
	return u, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Search returns users whose username or email contains the query,
// case-insensitively.
func (s *UserService) Search(ctx context.Context, query string) ([]models.User, error) {
	return s.users.Search(ctx, query)
}

// Update changes a user's username, email, and role. A username or email
// already held by a different account is rejected.
func (s *UserService) Update(ctx context.Context, id int64, username, email string, role models.UserRole) (*models.User, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if username != existing.Username {
		if _, err := s.users.GetByUsername(ctx, username); err == nil {
			return nil, invalidInputf("Username already exists!")
		} else if !database.IsNotFound(err) {
			return nil, err
		}
	}
	if email != existing.Email {
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			return nil, invalidInputf("Email already registered!")
		} else if !database.IsNotFound(err) {
			return nil, err
		}
	}

	existing.Username = username
	existing.Email = email
	existing.Role = role
	if err := s.users.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// ChangeRole sets a user's account-level role.
func (s *UserService) ChangeRole(ctx context.Context, id int64, role models.UserRole) (*models.User, error) {
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if database.IsNotFound(err) {
			return nil, notFoundf("User not found with ID: %d", id)
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, currentPassword) {
		return invalidInputf("Current password is incorrect!")
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if database.IsNotFound(err) {
			return notFoundf("User not found with ID: %d", id)
		}
		return err
	}
	logging.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}
