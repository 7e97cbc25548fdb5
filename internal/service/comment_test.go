// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package service

import (
	"context"
	"testing"

	"github.com/taskbuddy/taskbuddy/internal/models"
)

func TestAddTaskComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	p := f.project(t, alice, bob, carol)
	task := f.task(t, p, alice, bob)

	t.Run("third party notifies assignee and manager", func(t *testing.T) {
		if _, err := f.comments.AddTaskComment(ctx, task.ID, carol.ID, "looks good"); err != nil {
			t.Fatalf("AddTaskComment() error = %v", err)
		}
		wantDelivered(t, f.deliverer, bob.ID, models.NotificationNewComment, "carol commented on 'deploy'")
		wantDelivered(t, f.deliverer, alice.ID, models.NotificationNewComment, "carol commented on 'deploy'")
		f.deliverer.reset()
	})

	t.Run("assignee comment notifies only the manager", func(t *testing.T) {
		if _, err := f.comments.AddTaskComment(ctx, task.ID, bob.ID, "done"); err != nil {
			t.Fatalf("AddTaskComment() error = %v", err)
		}
		deliveries := f.deliverer.all()
		if len(deliveries) != 1 || deliveries[0].RecipientID != alice.ID {
			t.Errorf("deliveries = %+v, want one to the manager", deliveries)
		}
		f.deliverer.reset()
	})

	t.Run("manager comment notifies only the assignee", func(t *testing.T) {
		if _, err := f.comments.AddTaskComment(ctx, task.ID, alice.ID, "ship it"); err != nil {
			t.Fatalf("AddTaskComment() error = %v", err)
		}
		deliveries := f.deliverer.all()
		if len(deliveries) != 1 || deliveries[0].RecipientID != bob.ID {
			t.Errorf("deliveries = %+v, want one to the assignee", deliveries)
		}
		f.deliverer.reset()
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := f.comments.AddTaskComment(ctx, 999, alice.ID, "x")
		wantNotFound(t, err)
	})
}

func TestAddTaskCommentManagerAssignedToSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	p := f.project(t, alice, bob)
	task := f.task(t, p, alice, alice) // manager is also the assignee

	if _, err := f.comments.AddTaskComment(ctx, task.ID, bob.ID, "question"); err != nil {
		t.Fatalf("AddTaskComment() error = %v", err)
	}
	// The manager must not be notified twice for the same comment.
	deliveries := f.deliverer.all()
	if len(deliveries) != 1 || deliveries[0].RecipientID != alice.ID {
		t.Errorf("deliveries = %+v, want exactly one to the manager", deliveries)
	}
}

func TestAddProjectComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	p := f.project(t, alice, bob)

	if _, err := f.comments.AddProjectComment(ctx, p.ID, bob.ID, "kickoff?"); err != nil {
		t.Fatalf("AddProjectComment() error = %v", err)
	}
	wantDelivered(t, f.deliverer, alice.ID, models.NotificationNewComment, "bob commented on 'project-alice'")
	f.deliverer.reset()

	// The manager commenting on their own project notifies nobody.
	if _, err := f.comments.AddProjectComment(ctx, p.ID, alice.ID, "yes"); err != nil {
		t.Fatalf("AddProjectComment() error = %v", err)
	}
	if got := len(f.deliverer.all()); got != 0 {
		t.Errorf("deliveries = %d, want 0", got)
	}

	comments, err := f.comments.ListByProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListByProject() error = %v", err)
	}
	if len(comments) != 2 {
		t.Errorf("ListByProject() = %d comments, want 2", len(comments))
	}
}

func TestCommentAuthorOnlyEdits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	p := f.project(t, alice, bob)

	c, err := f.comments.AddProjectComment(ctx, p.ID, bob.ID, "original")
	if err != nil {
		t.Fatalf("AddProjectComment() error = %v", err)
	}

	_, err = f.comments.Update(ctx, c.ID, alice.ID, "edited")
	wantInvalidInput(t, err, "You can only edit your own comments!")

	err = f.comments.Delete(ctx, c.ID, alice.ID)
	wantInvalidInput(t, err, "You can only delete your own comments!")

	updated, err := f.comments.Update(ctx, c.ID, bob.ID, "edited")
	if err != nil {
		t.Fatalf("Update() as author error = %v", err)
	}
	if updated.Message != "edited" {
		t.Errorf("Update() message = %q, want edited", updated.Message)
	}

	if err := f.comments.Delete(ctx, c.ID, bob.ID); err != nil {
		t.Fatalf("Delete() as author error = %v", err)
	}
	wantNotFound(t, f.comments.Delete(ctx, c.ID, bob.ID))
}
