// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package inspector is the panel-side synchronization layer. It keeps
// a local mirror of a remote application's component tree, tracks the
// selected component and its detail data, and manages the live-update
// subscriptions that keep both fresh.
//
// The mirror is never authoritative: every structure in this package
// is a cache of agent-side state, rebuilt from updates arriving over a
// bridge.Bridge. Updates are partial by design — the agent reveals
// subtrees lazily, so the mirror grows as the user expands nodes.
//
// Client is the entry point. It owns a TreeStore (the mirror), an
// ExpansionController (which nodes the UI shows expanded), a
// SubscriptionManager (at most one live stream per kind), and the
// selection state machine. All mutation happens under one internal
// lock; cross-goroutine consumers read snapshots or drain the Events
// channel.
package inspector
