// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/taskbuddy/taskbuddy/internal/models"
)

var errMissing = errors.New("missing")

type membershipKey struct {
	projectID int64
	userID    int64
}

// fakeMembers is an in-memory MembershipSource.
type fakeMembers struct {
	roles map[membershipKey]models.ProjectRole
	err   error
}

func (f *fakeMembers) FindRole(_ context.Context, projectID, userID int64) (models.ProjectRole, error) {
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[membershipKey{projectID, userID}]
	if !ok {
		return "", errMissing
	}
	return role, nil
}

// fakeTasks is an in-memory TaskSource.
type fakeTasks struct {
	projects map[int64]int64
	err      error
}

func (f *fakeTasks) FindTaskProjectID(_ context.Context, taskID int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	projectID, ok := f.projects[taskID]
	if !ok {
		return 0, errMissing
	}
	return projectID, nil
}

func isMissing(err error) bool {
	return errors.Is(err, errMissing)
}

func newTestEngine() *Engine {
	members := &fakeMembers{roles: map[membershipKey]models.ProjectRole{
		{projectID: 1, userID: 10}: models.ProjectRoleManager,
		{projectID: 1, userID: 11}: models.ProjectRoleMember,
	}}
	tasks := &fakeTasks{projects: map[int64]int64{100: 1, 101: 2}}
	return NewEngine(members, tasks, isMissing)
}

func TestCheckProjectAccess(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	tests := []struct {
		name      string
		projectID int64
		userID    int64
		wantErr   error
	}{
		{name: "manager has access", projectID: 1, userID: 10, wantErr: nil},
		{name: "member has access", projectID: 1, userID: 11, wantErr: nil},
		{name: "non-member denied", projectID: 1, userID: 99, wantErr: ErrAccessDenied},
		{name: "unknown project denied", projectID: 42, userID: 10, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.CheckProjectAccess(ctx, tt.projectID, tt.userID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckProjectAccess() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckTaskAccess(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	tests := []struct {
		name    string
		taskID  int64
		userID  int64
		wantErr error
	}{
		{name: "member of owning project", taskID: 100, userID: 11, wantErr: nil},
		{name: "non-member denied", taskID: 100, userID: 99, wantErr: ErrAccessDenied},
		{name: "task in foreign project", taskID: 101, userID: 10, wantErr: ErrAccessDenied},
		{name: "missing task", taskID: 999, userID: 10, wantErr: ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.CheckTaskAccess(ctx, tt.taskID, tt.userID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckTaskAccess() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckTaskAccessMissingTaskSkipsMembership(t *testing.T) {
	// The membership source fails hard; a missing task must still report
	// ErrTaskNotFound without consulting memberships.
	members := &fakeMembers{err: errors.New("membership source must not be called")}
	tasks := &fakeTasks{projects: map[int64]int64{}}
	engine := NewEngine(members, tasks, isMissing)

	err := engine.CheckTaskAccess(context.Background(), 999, 10)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("CheckTaskAccess() error = %v, want ErrTaskNotFound", err)
	}
}

func TestIsManager(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	tests := []struct {
		name      string
		projectID int64
		userID    int64
		want      bool
	}{
		{name: "manager", projectID: 1, userID: 10, want: true},
		{name: "plain member", projectID: 1, userID: 11, want: false},
		{name: "non-member", projectID: 1, userID: 99, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.IsManager(ctx, tt.projectID, tt.userID)
			if err != nil {
				t.Fatalf("IsManager() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsManager() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnginePropagatesSourceErrors(t *testing.T) {
	boom := errors.New("boom")
	engine := NewEngine(&fakeMembers{err: boom}, &fakeTasks{err: boom}, isMissing)
	ctx := context.Background()

	if err := engine.CheckProjectAccess(ctx, 1, 10); !errors.Is(err, boom) {
		t.Errorf("CheckProjectAccess() error = %v, want wrapped boom", err)
	}
	if err := engine.CheckTaskAccess(ctx, 100, 10); !errors.Is(err, boom) {
		t.Errorf("CheckTaskAccess() error = %v, want wrapped boom", err)
	}
	if _, err := engine.IsManager(ctx, 1, 10); !errors.Is(err, boom) {
		t.Errorf("IsManager() error = %v, want wrapped boom", err)
	}
}
