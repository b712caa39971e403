// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

// ExpansionController tracks which tree nodes the user has expanded or
// collapsed. The map is tri-state: an identifier that is absent has no
// recorded preference, which is different from explicitly collapsed —
// the UI applies its own default (roots open, everything else closed)
// to unrecorded nodes.
//
// Expansion state deliberately survives a store reset. The tree that
// comes back after a reset is usually the same shape, and reopening
// every node by hand after each hot reload would make the panel
// useless.
//
// ExpansionController does no locking. The owning Client serializes
// access.
type ExpansionController struct {
	states map[string]bool
}

// NewExpansionController returns a controller with no recorded state.
func NewExpansionController() *ExpansionController {
	return &ExpansionController{states: make(map[string]bool)}
}

// State returns the recorded preference for a node. known is false
// when the user has never toggled it.
func (c *ExpansionController) State(id string) (expanded, known bool) {
	expanded, known = c.states[id]
	return expanded, known
}

// IsExpanded returns the recorded preference, or fallback when none is
// recorded.
func (c *ExpansionController) IsExpanded(id string, fallback bool) bool {
	if expanded, known := c.states[id]; known {
		return expanded
	}
	return fallback
}

// SetExpanded records an explicit preference.
func (c *ExpansionController) SetExpanded(id string, expanded bool) {
	c.states[id] = expanded
}

// Toggle flips the node's state, treating an unrecorded node as being
// in the fallback state, and returns the new state.
func (c *ExpansionController) Toggle(id string, fallback bool) bool {
	next := !c.IsExpanded(id, fallback)
	c.states[id] = next
	return next
}

// ExpandPath marks every identifier in the path expanded. Used to
// reveal the ancestors of a deep-linked selection.
func (c *ExpansionController) ExpandPath(ids []string) {
	for _, id := range ids {
		c.states[id] = true
	}
}

// Expanded calls fn for every node recorded as expanded, in no
// particular order.
func (c *ExpansionController) Expanded(fn func(id string)) {
	for id, expanded := range c.states {
		if expanded {
			fn(id)
		}
	}
}

// Snapshot returns a copy of the recorded states, for persistence.
func (c *ExpansionController) Snapshot() map[string]bool {
	snapshot := make(map[string]bool, len(c.states))
	for id, expanded := range c.states {
		snapshot[id] = expanded
	}
	return snapshot
}

// Restore merges previously persisted states over the current ones.
func (c *ExpansionController) Restore(states map[string]bool) {
	for id, expanded := range states {
		c.states[id] = expanded
	}
}
