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

func TestInvite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	p := f.project(t, alice, bob)

	t.Run("member cannot invite", func(t *testing.T) {
		_, err := f.invitations.Invite(ctx, p.ID, carol.ID, bob.ID)
		wantInvalidInput(t, err, "Only project manager can invite users!")
	})

	t.Run("existing member cannot be invited", func(t *testing.T) {
		_, err := f.invitations.Invite(ctx, p.ID, bob.ID, alice.ID)
		wantInvalidInput(t, err, "User is already a member of this project!")
	})

	t.Run("manager invites and invitee is notified", func(t *testing.T) {
		inv, err := f.invitations.Invite(ctx, p.ID, carol.ID, alice.ID)
		if err != nil {
			t.Fatalf("Invite() error = %v", err)
		}
		if inv.Status != models.InvitationStatusPending {
			t.Errorf("Invite() status = %s, want PENDING", inv.Status)
		}
		wantDelivered(t, f.deliverer, carol.ID, models.NotificationProjectInvitation,
			"alice invited you to join project 'project-alice'")
	})

	t.Run("pending invitation blocks a second", func(t *testing.T) {
		_, err := f.invitations.Invite(ctx, p.ID, carol.ID, alice.ID)
		wantInvalidInput(t, err, "Invitation already sent and pending!")
	})
}

func TestRespond(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	carol := f.user(t, "carol")
	p := f.project(t, alice)

	inv, err := f.invitations.Invite(ctx, p.ID, carol.ID, alice.ID)
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	f.deliverer.reset()

	t.Run("status must be a response", func(t *testing.T) {
		_, err := f.invitations.Respond(ctx, inv.ID, carol.ID, models.InvitationStatusPending)
		wantInvalidInput(t, err, "Response must be ACCEPTED or REJECTED!")
	})

	t.Run("only the invited user may respond", func(t *testing.T) {
		_, err := f.invitations.Respond(ctx, inv.ID, alice.ID, models.InvitationStatusAccepted)
		wantInvalidInput(t, err, "Only the invited user can respond to this invitation!")
	})

	t.Run("acceptance grants membership and notifies the inviter", func(t *testing.T) {
		got, err := f.invitations.Respond(ctx, inv.ID, carol.ID, models.InvitationStatusAccepted)
		if err != nil {
			t.Fatalf("Respond() error = %v", err)
		}
		if got.Status != models.InvitationStatusAccepted {
			t.Errorf("Respond() status = %s, want ACCEPTED", got.Status)
		}

		role, err := f.projects.RoleInProject(ctx, p.ID, carol.ID)
		if err != nil {
			t.Fatalf("RoleInProject() after accept error = %v", err)
		}
		if role != models.ProjectRoleMember {
			t.Errorf("RoleInProject() = %s, want MEMBER", role)
		}
		wantDelivered(t, f.deliverer, alice.ID, models.NotificationInvitationAccepted,
			"carol accepted your invitation to join project 'project-alice'")
	})

	t.Run("responding twice is rejected", func(t *testing.T) {
		_, err := f.invitations.Respond(ctx, inv.ID, carol.ID, models.InvitationStatusRejected)
		wantInvalidInput(t, err, "Invitation has already been responded to!")
	})
}

func TestRespondRejection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	carol := f.user(t, "carol")
	p := f.project(t, alice)

	inv, err := f.invitations.Invite(ctx, p.ID, carol.ID, alice.ID)
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	f.deliverer.reset()

	got, err := f.invitations.Respond(ctx, inv.ID, carol.ID, models.InvitationStatusRejected)
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got.Status != models.InvitationStatusRejected {
		t.Errorf("Respond() status = %s, want REJECTED", got.Status)
	}
	if _, err := f.projects.RoleInProject(ctx, p.ID, carol.ID); err == nil {
		t.Error("rejection still granted a membership")
	}
	if got := len(f.deliverer.all()); got != 0 {
		t.Errorf("rejection delivered %d notifications, want 0", got)
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	p := f.project(t, alice, bob)

	inv, err := f.invitations.Invite(ctx, p.ID, carol.ID, alice.ID)
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}

	err = f.invitations.Cancel(ctx, inv.ID, bob.ID)
	wantInvalidInput(t, err, "Only the inviter or project manager can cancel invitations!")

	if err := f.invitations.Cancel(ctx, inv.ID, alice.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	// The invitation is hard-deleted, so it no longer appears anywhere.
	pending, err := f.invitations.PendingForUser(ctx, carol.ID)
	if err != nil {
		t.Fatalf("PendingForUser() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("PendingForUser() after cancel = %d invitations, want 0", len(pending))
	}
	wantNotFound(t, f.invitations.Cancel(ctx, inv.ID, alice.ID))
}

func TestCancelRespondedInvitation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	carol := f.user(t, "carol")
	p := f.project(t, alice)

	inv, err := f.invitations.Invite(ctx, p.ID, carol.ID, alice.ID)
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	if _, err := f.invitations.Respond(ctx, inv.ID, carol.ID, models.InvitationStatusRejected); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	err = f.invitations.Cancel(ctx, inv.ID, alice.ID)
	wantInvalidInput(t, err, "Can only cancel pending invitations!")
}
