// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

import "testing"

func TestExpansionTriState(t *testing.T) {
	t.Parallel()
	c := NewExpansionController()

	if _, known := c.State("n"); known {
		t.Error("untouched node reports a recorded state")
	}
	if !c.IsExpanded("n", true) || c.IsExpanded("n", false) {
		t.Error("unrecorded node does not follow the fallback")
	}

	c.SetExpanded("n", false)
	if expanded, known := c.State("n"); !known || expanded {
		t.Error("explicit collapse is not the same as unrecorded")
	}
	// An explicit record wins over any fallback.
	if c.IsExpanded("n", true) {
		t.Error("explicitly collapsed node reported expanded")
	}
}

func TestExpansionToggleAndPath(t *testing.T) {
	t.Parallel()
	c := NewExpansionController()

	if got := c.Toggle("n", false); !got {
		t.Error("first toggle from collapsed fallback: got collapsed")
	}
	if got := c.Toggle("n", false); got {
		t.Error("second toggle: got expanded")
	}

	c.ExpandPath([]string{"r", "a"})
	if !c.IsExpanded("r", false) || !c.IsExpanded("a", false) {
		t.Error("ExpandPath left an ancestor collapsed")
	}
}

func TestExpansionSnapshotRestore(t *testing.T) {
	t.Parallel()
	c := NewExpansionController()
	c.SetExpanded("r", true)
	c.SetExpanded("a", false)

	snapshot := c.Snapshot()
	snapshot["r"] = false // mutating the copy must not touch the source
	if !c.IsExpanded("r", false) {
		t.Error("Snapshot returned a live reference")
	}

	restored := NewExpansionController()
	restored.Restore(c.Snapshot())
	if !restored.IsExpanded("r", false) {
		t.Error("restored state lost r")
	}
	if expanded, known := restored.State("a"); !known || expanded {
		t.Error("restored state lost explicit collapse of a")
	}
}
