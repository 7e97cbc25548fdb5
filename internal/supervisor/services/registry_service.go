// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package services

import (
	"context"
)

// ChannelRegistry matches the WebSocket registry's lifecycle method.
// Satisfied by *websocket.Registry.
type ChannelRegistry interface {
	// RunWithContext blocks until ctx is canceled, then closes every
	// registered channel.
	RunWithContext(ctx context.Context) error
}

// RegistryService supervises the WebSocket channel registry so that a
// supervisor-driven shutdown closes all open notification channels.
type RegistryService struct {
	registry ChannelRegistry
}

func NewRegistryService(registry ChannelRegistry) *RegistryService {
	return &RegistryService{registry: registry}
}

// Serve implements suture.Service.
func (s *RegistryService) Serve(ctx context.Context) error {
	return s.registry.RunWithContext(ctx)
}

func (s *RegistryService) String() string {
	return "channel-registry"
}
