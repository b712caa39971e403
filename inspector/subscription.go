// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"github.com/glasspane/glasspane/bridge"
)

// SubscriptionManager keeps at most one live subscription per stream
// kind. Rebinding a kind tears the old subscription down before the
// new one is established, so the agent never sees two live streams of
// the same kind and the panel never receives updates for a target it
// has moved away from.
//
// SubscriptionManager does no locking. The owning Client serializes
// access.
type SubscriptionManager struct {
	bridge bridge.Bridge
	active map[bridge.StreamKind]func()
}

// NewSubscriptionManager returns a manager with no live subscriptions.
func NewSubscriptionManager(b bridge.Bridge) *SubscriptionManager {
	return &SubscriptionManager{
		bridge: b,
		active: make(map[bridge.StreamKind]func()),
	}
}

// Rebind points the stream of the given kind at a new target. The
// previous subscription, if any, is cancelled first — synchronously,
// before the new subscribe message is sent.
func (m *SubscriptionManager) Rebind(kind bridge.StreamKind, targetID string) error {
	m.Release(kind)
	cancel, err := bridge.Subscribe(m.bridge, kind, targetID)
	if err != nil {
		return err
	}
	m.active[kind] = cancel
	return nil
}

// Release cancels the stream of the given kind, if live.
func (m *SubscriptionManager) Release(kind bridge.StreamKind) {
	if cancel := m.active[kind]; cancel != nil {
		delete(m.active, kind)
		cancel()
	}
}

// ReleaseAll cancels every live stream.
func (m *SubscriptionManager) ReleaseAll() {
	for kind, cancel := range m.active {
		delete(m.active, kind)
		cancel()
	}
}

// Active reports whether a stream of the given kind is live.
func (m *SubscriptionManager) Active(kind bridge.StreamKind) bool {
	_, live := m.active[kind]
	return live
}
