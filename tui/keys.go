// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the panel's key bindings.
type KeyMap struct {
	// Tree navigation.
	Up   key.Binding
	Down key.Binding
	// Left collapses the node under the cursor (or jumps to its
	// parent when already collapsed); Right expands it, loading the
	// subtree on demand.
	Left  key.Binding
	Right key.Binding

	// Select loads the detail view for the node under the cursor.
	Select key.Binding

	// FocusToggle moves keyboard focus between the tree and the
	// detail viewport.
	FocusToggle key.Binding

	// FilterActivate enters filter mode; FilterClear clears the
	// filter and returns focus to the tree.
	FilterActivate key.Binding
	FilterClear    key.Binding

	// Refresh re-requests the root instances.
	Refresh key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set: vim movement alongside
// the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "inspect"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch pane"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear filter"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
