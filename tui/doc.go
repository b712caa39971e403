// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui renders the inspector panel in the terminal: the
// component tree on the left, the selected component's state on the
// right, a name filter along the top.
//
// The bubbletea model here is a pure view over an inspector.Client.
// It owns no protocol state: key presses translate into client calls
// (Select, ToggleExpansion, SetFilter), and the client's event channel
// flows back into the update loop as messages. The tree pane is
// rebuilt from the client's mirror whenever the tree version moves.
package tui
