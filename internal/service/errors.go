// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

// Package service implements the business operations of TaskBuddy: user
// accounts, projects, memberships, tasks, comments, invitations,
// notifications, and password resets. Every mutating operation checks
// project membership through the authorization engine before touching the
// stores, and the operations that concern another user persist and push a
// notification after the mutation commits.
package service

import (
	"errors"
	"fmt"

	"github.com/taskbuddy/taskbuddy/internal/database"
)

// InvalidInputError rejects a request whose content is well-formed but
// violates a business rule. The message is returned to the client verbatim.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

func invalidInputf(format string, args ...any) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err is a business-rule rejection that
// should map to a 400 response.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}

// NotFoundError reports a missing entity with a client-facing message.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func notFoundf(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a missing-entity error, raised either
// by a store lookup or by a service-level check.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne) || database.IsNotFound(err)
}
