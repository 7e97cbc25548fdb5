// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

// Package websocket implements the real-time notification push path:
// the authenticated handshake, the per-user connection registry, and
// the dispatcher that fans a notification out to its recipient's open
// channels.
package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/taskbuddy/taskbuddy/internal/logging"
	"github.com/taskbuddy/taskbuddy/internal/metrics"
)

// Registry tracks open channels per user. A user may hold several
// channels at once (one per tab or device); a user with none simply
// has no entry in the map.
type Registry struct {
	mu       sync.RWMutex
	channels map[int64][]*Channel
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[int64][]*Channel),
	}
}

// Register adds a channel under the user's ID. Registering the same
// channel twice is a no-op.
func (r *Registry) Register(userID int64, ch *Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.channels[userID] {
		if existing == ch {
			return
		}
	}
	r.channels[userID] = append(r.channels[userID], ch)
	metrics.WebSocketChannelsActive.Inc()

	logging.Info().
		Int64("user_id", userID).
		Int("user_channels", len(r.channels[userID])).
		Msg("websocket channel registered")
}

// Unregister removes a channel from the user's entry and deletes the
// entry when it empties. Unregistering a channel that is already gone
// is a safe no-op.
func (r *Registry) Unregister(userID int64, ch *Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chans := r.channels[userID]
	for i, existing := range chans {
		if existing != ch {
			continue
		}
		chans = append(chans[:i], chans[i+1:]...)
		if len(chans) == 0 {
			delete(r.channels, userID)
		} else {
			r.channels[userID] = chans
		}
		metrics.WebSocketChannelsActive.Dec()

		logging.Info().
			Int64("user_id", userID).
			Int("user_channels", len(chans)).
			Msg("websocket channel unregistered")
		return
	}
}

// ChannelsFor returns a snapshot of the user's open channels. The
// returned slice is a copy; callers may iterate it without holding
// the registry lock.
func (r *Registry) ChannelsFor(userID int64) []*Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chans := r.channels[userID]
	if len(chans) == 0 {
		return nil
	}
	snapshot := make([]*Channel, len(chans))
	copy(snapshot, chans)
	return snapshot
}

// NumUsers returns the number of users with at least one open channel.
func (r *Registry) NumUsers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// NumChannels returns the total number of open channels.
func (r *Registry) NumChannels() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, chans := range r.channels {
		n += len(chans)
	}
	return n
}

// RunWithContext blocks until the context is canceled, then closes
// every channel. This makes the registry a supervisable service: the
// supervisor owns its lifetime and restart policy.
func (r *Registry) RunWithContext(ctx context.Context) error {
	<-ctx.Done()
	closed := r.closeAll()
	logging.Info().
		Str("component", "websocket-registry").
		Int("channels_closed", closed).
		Msg("websocket registry stopped")
	return ctx.Err()
}

// closeAll closes every channel and empties the map. Channels are
// closed in ID order for consistent shutdown behavior.
func (r *Registry) closeAll() int {
	r.mu.Lock()
	var all []*Channel
	for _, chans := range r.channels {
		all = append(all, chans...)
	}
	r.channels = make(map[int64][]*Channel)
	metrics.WebSocketChannelsActive.Sub(float64(len(all)))
	r.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].id < all[j].id
	})
	for _, ch := range all {
		ch.Close()
	}
	return len(all)
}
