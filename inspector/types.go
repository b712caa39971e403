// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

// RootTarget is the sentinel target identifier meaning "the whole
// tree". A tree request for RootTarget asks for the root instances; a
// tree update for RootTarget replaces the roots wholesale.
const RootTarget = "_root"

// Node is one component in the mirrored tree. Nodes are owned by the
// TreeStore that indexed them; callers treat them as read-only.
type Node struct {
	ID       string
	Name     string
	Inactive bool

	// HasChildren reports whether the component has children on the
	// agent side, whether or not they have been revealed yet. A node
	// with HasChildren true and no Children is a lazily-revealed
	// subtree the panel has not loaded.
	HasChildren bool

	Children []*Node

	// Attributes carries display metadata the agent attached to the
	// node (render count, tags, source location). Opaque to the store.
	Attributes map[string]any
}

// Placeholder reports whether the node's children exist remotely but
// have not been loaded into the mirror yet.
func (n *Node) Placeholder() bool {
	return n.HasChildren && len(n.Children) == 0
}

// SerializedNode is the wire form of a Node.
type SerializedNode struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Inactive    bool             `json:"inactive,omitempty"`
	HasChildren bool             `json:"hasChildren,omitempty"`
	Children    []SerializedNode `json:"children,omitempty"`
	Attributes  map[string]any   `json:"attributes,omitempty"`
}

// TreeRequest asks the agent for a (sub)tree. TargetID is RootTarget
// for the root instances or a component identifier for one subtree.
type TreeRequest struct {
	TargetID string `json:"targetId"`

	// Depth limits how many levels the agent serializes below the
	// target. Zero means the agent's default depth.
	Depth int `json:"depth,omitempty"`

	// Filter restricts the returned tree to components whose name
	// matches. Empty means no filtering.
	Filter string `json:"filter,omitempty"`
}

// TreeUpdate is the agent's answer to a TreeRequest, and also the
// payload of pushed subtree updates. Exactly one of Roots and Node is
// set; an update with neither means the target does not support
// inspection.
type TreeUpdate struct {
	TargetID string `json:"targetId"`

	// Roots must not carry omitempty: an empty-but-present list (a
	// filter that matched nothing) is a valid tree, while a nil one
	// marks the update unsupported.
	Roots []SerializedNode `json:"roots"`
	Node  *SerializedNode  `json:"node,omitempty"`
}

// Unsupported reports whether the update carries no tree data at all,
// the agent's way of declining a target it cannot serialize.
func (u TreeUpdate) Unsupported() bool {
	return u.Roots == nil && u.Node == nil
}

// StateEntry is one key/value row of a component's inspected state.
type StateEntry struct {
	// Section groups entries in the detail view ("props", "state",
	// "computed", and whatever else the agent reports).
	Section  string `json:"section"`
	Key      string `json:"key"`
	Value    any    `json:"value"`
	Editable bool   `json:"editable,omitempty"`
}

// DetailData is the full inspected state of one component.
type DetailData struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	State []StateEntry `json:"state,omitempty"`
}

// TargetChanged announces that the agent switched to inspecting a
// different application target. The panel discards its mirror and
// starts over.
type TargetChanged struct {
	TargetID string `json:"targetId"`
	Name     string `json:"name,omitempty"`

	// LastSelectedChildID names the component that was selected the
	// last time this target was inspected. The panel re-selects it,
	// except on the first announcement it observes, which merely names
	// the target it already started against.
	LastSelectedChildID string `json:"lastSelectedChildId,omitempty"`
}

func toNode(s SerializedNode) *Node {
	node := &Node{
		ID:          s.ID,
		Name:        s.Name,
		Inactive:    s.Inactive,
		HasChildren: s.HasChildren || len(s.Children) > 0,
		Attributes:  s.Attributes,
	}
	if len(s.Children) > 0 {
		node.Children = make([]*Node, 0, len(s.Children))
		for _, child := range s.Children {
			node.Children = append(node.Children, toNode(child))
		}
	}
	return node
}
