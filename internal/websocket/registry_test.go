// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package websocket

import (
	"context"
	"sync"
	"testing"
)

func newTestChannel(r *Registry, userID int64) *Channel {
	return NewChannel(r, nil, userID)
}

func TestRegistryRegisterAndUnregister(t *testing.T) {
	r := NewRegistry()
	ch1 := newTestChannel(r, 1)
	ch2 := newTestChannel(r, 1)

	r.Register(1, ch1)
	r.Register(1, ch2)
	r.Register(1, ch1) // duplicate, must be a no-op

	if got := r.NumChannels(); got != 2 {
		t.Errorf("NumChannels() = %d, want 2", got)
	}
	if got := r.NumUsers(); got != 1 {
		t.Errorf("NumUsers() = %d, want 1", got)
	}

	r.Unregister(1, ch1)
	if got := r.NumChannels(); got != 1 {
		t.Errorf("NumChannels() after unregister = %d, want 1", got)
	}

	// Removing the last channel must delete the user's entry entirely.
	r.Unregister(1, ch2)
	if got := r.NumUsers(); got != 0 {
		t.Errorf("NumUsers() after last unregister = %d, want 0", got)
	}
	if got := r.ChannelsFor(1); got != nil {
		t.Errorf("ChannelsFor() after last unregister = %v, want nil", got)
	}

	// Unregistering a channel that is already gone is a safe no-op.
	r.Unregister(1, ch1)
}

func TestRegistryChannelsForReturnsSnapshot(t *testing.T) {
	r := NewRegistry()
	ch1 := newTestChannel(r, 7)
	ch2 := newTestChannel(r, 7)
	r.Register(7, ch1)
	r.Register(7, ch2)

	snapshot := r.ChannelsFor(7)
	if len(snapshot) != 2 {
		t.Fatalf("ChannelsFor() = %d channels, want 2", len(snapshot))
	}

	r.Unregister(7, ch1)
	r.Unregister(7, ch2)
	if len(snapshot) != 2 {
		t.Error("snapshot changed after unregister, want an independent copy")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			ch := newTestChannel(r, userID)
			r.Register(userID, ch)
			r.ChannelsFor(userID)
			r.Unregister(userID, ch)
		}(int64(i % 4))
	}
	wg.Wait()

	if got := r.NumChannels(); got != 0 {
		t.Errorf("NumChannels() after concurrent churn = %d, want 0", got)
	}
}

func TestRegistryRunWithContextClosesChannels(t *testing.T) {
	r := NewRegistry()
	ch1 := newTestChannel(r, 1)
	ch2 := newTestChannel(r, 2)
	r.Register(1, ch1)
	r.Register(2, ch2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.RunWithContext(ctx)
	}()

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("RunWithContext() error = %v, want context.Canceled", err)
	}

	if ch1.Send([]byte("x")) || ch2.Send([]byte("x")) {
		t.Error("Send() on closed channel returned true, want false")
	}
	if got := r.NumChannels(); got != 0 {
		t.Errorf("NumChannels() after shutdown = %d, want 0", got)
	}
}

func TestChannelSendAfterCloseFails(t *testing.T) {
	ch := newTestChannel(NewRegistry(), 1)
	if !ch.Send([]byte("first")) {
		t.Fatal("Send() on open channel = false, want true")
	}

	ch.Close()
	ch.Close() // must be safe to call twice
	if ch.Send([]byte("second")) {
		t.Error("Send() after Close() = true, want false")
	}
}

func TestChannelSendFullQueueFails(t *testing.T) {
	ch := newTestChannel(NewRegistry(), 1)
	for i := 0; i < sendQueueSize; i++ {
		if !ch.Send([]byte("fill")) {
			t.Fatalf("Send() failed at %d with queue capacity %d", i, sendQueueSize)
		}
	}
	if ch.Send([]byte("overflow")) {
		t.Error("Send() on full queue = true, want false")
	}
}
