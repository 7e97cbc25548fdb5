// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// validate is the shared validator instance; validator caches struct
// metadata internally so a single instance is the intended usage.
var validate = validator.New()

// decodeAndValidate decodes a JSON request body into dst and runs the
// validator tags. The returned error message is safe to show the client.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &badRequestError{"Invalid request body"}
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &badRequestError{"Validation failed on field '" + verrs[0].Field() + "'"}
		}
		return &badRequestError{"Validation failed"}
	}
	return nil
}

type badRequestError struct {
	message string
}

func (e *badRequestError) Error() string {
	return e.message
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginRequest is the body of POST /api/auth/login. UsernameOrEmail is
// resolved against usernames first, then emails.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required,min=1"`
	Password        string `json:"password" validate:"required,min=1"`
}

// ForgotPasswordRequest is the body of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body of POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=128"`
}

// ChangePasswordRequest is the body of POST /api/users/{id}/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required,min=1"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=128"`
}

// UpdateUserRequest is the body of PUT /api/users/{id}.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,oneof=USER MANAGER MEMBER"`
}

// ChangeUserRoleRequest is the body of PATCH /api/users/{id}/role.
type ChangeUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER MANAGER MEMBER"`
}

// CreateProjectRequest is the body of POST /api/projects.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateProjectRequest is the body of PUT /api/projects/{id}.
type UpdateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateProjectStatusRequest is the body of PATCH /api/projects/{id}/status.
type UpdateProjectStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED ON_HOLD"`
}

// AddMemberRequest is the body of POST /api/projects/{id}/members.
type AddMemberRequest struct {
	UserID int64 `json:"userId" validate:"required,min=1"`
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title          string `json:"title" validate:"required,min=1,max=200"`
	Description    string `json:"description" validate:"max=2000"`
	Priority       string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate        string `json:"dueDate" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	AssignedUserID *int64 `json:"assignedUserId" validate:"omitempty,min=1"`
	ProjectID      int64  `json:"projectId" validate:"required,min=1"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/{id}. Absent fields are
// left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *string `json:"dueDate" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// UpdateTaskStatusRequest is the body of PATCH /api/tasks/{id}/status.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
}

// ReassignTaskRequest is the body of PATCH /api/tasks/{id}/assignee.
type ReassignTaskRequest struct {
	AssignedUserID int64 `json:"assignedUserId" validate:"required,min=1"`
}

// CreateCommentRequest is the body of POST /api/comments. Exactly one of
// TaskID and ProjectID must be set; the handler enforces the exclusivity.
type CreateCommentRequest struct {
	Message   string `json:"message" validate:"required,min=1,max=2000"`
	TaskID    *int64 `json:"taskId" validate:"omitempty,min=1"`
	ProjectID *int64 `json:"projectId" validate:"omitempty,min=1"`
}

// UpdateCommentRequest is the body of PUT /api/comments/{id}.
type UpdateCommentRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// CreateNotificationRequest is the body of POST /api/notifications.
type CreateNotificationRequest struct {
	Message     string `json:"message" validate:"required,min=1,max=2000"`
	Type        string `json:"type" validate:"omitempty,oneof=TASK_ASSIGNED TASK_STATUS_CHANGED PROJECT_STATUS_CHANGED PROJECT_INVITATION INVITATION_ACCEPTED NEW_COMMENT GENERAL"`
	RecipientID int64  `json:"recipientId" validate:"required,min=1"`
}

// InviteUserRequest is the body of POST /api/project-invitations.
type InviteUserRequest struct {
	ProjectID     int64 `json:"projectId" validate:"required,min=1"`
	InvitedUserID int64 `json:"invitedUserId" validate:"required,min=1"`
}

// RespondInvitationRequest is the body of PATCH /api/project-invitations/{id}.
type RespondInvitationRequest struct {
	Status string `json:"status" validate:"required,oneof=ACCEPTED REJECTED"`
}
