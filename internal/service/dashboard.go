// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package service

import (
	"context"

	"github.com/taskbuddy/taskbuddy/internal/database"
	"github.com/taskbuddy/taskbuddy/internal/models"
)

// DashboardSummary is the per-user overview shown on the landing page.
type DashboardSummary struct {
	ProjectsCount   int64 `json:"projectsCount"`
	MyTasksCount    int64 `json:"myTasksCount"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

// DashboardService aggregates per-user counts.
type DashboardService struct {
	projects *ProjectService
	tasks    *database.TaskStore
}

func NewDashboardService(projects *ProjectService, tasks *database.TaskStore) *DashboardService {
	return &DashboardService{projects: projects, tasks: tasks}
}

// Summary returns the user's project count and assigned-task counts broken
// down by status.
func (s *DashboardService) Summary(ctx context.Context, userID int64) (*DashboardSummary, error) {
	projects, err := s.projects.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{ProjectsCount: int64(len(projects))}
	for _, status := range []models.TaskStatus{
		models.TaskStatusPending,
		models.TaskStatusInProgress,
		models.TaskStatusCompleted,
	} {
		n, err := s.tasks.CountForUser(ctx, userID, status)
		if err != nil {
			return nil, err
		}
		switch status {
		case models.TaskStatusPending:
			summary.PendingTasks = n
		case models.TaskStatusInProgress:
			summary.InProgressTasks = n
		case models.TaskStatusCompleted:
			summary.CompletedTasks = n
		}
		summary.MyTasksCount += n
	}
	return summary, nil
}
