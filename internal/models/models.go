// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

// Package models defines the domain entities shared by the persistence,
// service, and API layers.
package models

import "time"

// UserRole is the account-level role assigned at registration.
type UserRole string

const (
	UserRoleUser    UserRole = "USER"
	UserRoleManager UserRole = "MANAGER"
	UserRoleMember  UserRole = "MEMBER"
)

// User is a registered account. PasswordHash is a bcrypt hash and is never
// serialized to clients.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "PENDING"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusOnHold     ProjectStatus = "ON_HOLD"
)

// ParseProjectStatus converts a client-provided status string, returning
// false when the value is not a known status.
func ParseProjectStatus(s string) (ProjectStatus, bool) {
	switch ProjectStatus(s) {
	case ProjectStatusPending, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold:
		return ProjectStatus(s), true
	}
	return "", false
}

// Project is a container for tasks, comments, and memberships. ManagerID
// references the user who created the project and holds its sole MANAGER
// membership.
type Project struct {
	ID          int64         `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	Description string        `db:"description" json:"description"`
	Status      ProjectStatus `db:"status" json:"status"`
	ManagerID   int64         `db:"manager_id" json:"managerId"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// ParseTaskStatus converts a client-provided status string, returning false
// when the value is not a known status.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(s), true
	}
	return "", false
}

// TaskPriority orders tasks within a project.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// Task belongs to exactly one project and is optionally assigned to a single
// project member.
type Task struct {
	ID             int64        `db:"id" json:"id"`
	Title          string       `db:"title" json:"title"`
	Description    string       `db:"description" json:"description"`
	Status         TaskStatus   `db:"status" json:"status"`
	Priority       TaskPriority `db:"priority" json:"priority"`
	DueDate        *time.Time   `db:"due_date" json:"dueDate,omitempty"`
	AssignedUserID *int64       `db:"assigned_user_id" json:"assignedUserId,omitempty"`
	ProjectID      int64        `db:"project_id" json:"projectId"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
}

// IsAssignedTo reports whether the task is assigned to the given user.
func (t *Task) IsAssignedTo(userID int64) bool {
	return t.AssignedUserID != nil && *t.AssignedUserID == userID
}

// Comment is attached to either a task or a project, never both.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	Message   string    `db:"message" json:"message"`
	UserID    int64     `db:"user_id" json:"userId"`
	TaskID    *int64    `db:"task_id" json:"taskId,omitempty"`
	ProjectID *int64    `db:"project_id" json:"projectId,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ProjectRole is the per-project role recorded on a membership row.
type ProjectRole string

const (
	ProjectRoleManager ProjectRole = "MANAGER"
	ProjectRoleMember  ProjectRole = "MEMBER"
)

// ProjectMember is a (project, user, role) triple. A project has exactly one
// MANAGER membership, created atomically with the project itself.
type ProjectMember struct {
	ID        int64       `db:"id" json:"id"`
	ProjectID int64       `db:"project_id" json:"projectId"`
	UserID    int64       `db:"user_id" json:"userId"`
	Role      ProjectRole `db:"role" json:"role"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// InvitationStatus is the state of a project invitation.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "PENDING"
	InvitationStatusAccepted InvitationStatus = "ACCEPTED"
	InvitationStatusRejected InvitationStatus = "REJECTED"
)

// ProjectInvitation records a manager inviting a user into a project.
type ProjectInvitation struct {
	ID            int64            `db:"id" json:"id"`
	ProjectID     int64            `db:"project_id" json:"projectId"`
	InvitedUserID int64            `db:"invited_user_id" json:"invitedUserId"`
	InvitedByID   int64            `db:"invited_by_id" json:"invitedById"`
	Status        InvitationStatus `db:"status" json:"status"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
}

// PasswordResetToken is a single-use OTP issued by the forgot-password flow.
type PasswordResetToken struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	OTP       string    `db:"otp"`
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
	CreatedAt time.Time `db:"created_at"`
}
