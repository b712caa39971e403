// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

// TreeStore is the panel's mirror of the remote component tree. It
// holds the root instances plus two derived indexes: node identifier
// to node, and child identifier to parent identifier. The indexes are
// rebuilt from the roots after every structural change, so they can
// never drift from the tree they describe.
//
// TreeStore does no locking. The owning Client serializes access.
type TreeStore struct {
	roots   []*Node
	nodes   map[string]*Node
	parents map[string]string

	// resetQueued defers the actual clearing of the mirror until the
	// next update arrives. Clearing eagerly on a reset signal would
	// blank the UI while the replacement tree is still in flight.
	resetQueued bool
}

// NewTreeStore returns an empty store.
func NewTreeStore() *TreeStore {
	return &TreeStore{
		nodes:   make(map[string]*Node),
		parents: make(map[string]string),
	}
}

// Roots returns the root instances in display order.
func (s *TreeStore) Roots() []*Node {
	return s.roots
}

// Node returns the node with the given identifier, or nil when the
// mirror has not seen it.
func (s *TreeStore) Node(id string) *Node {
	return s.nodes[id]
}

// Parent returns the identifier of the node's parent. ok is false for
// roots and for identifiers the mirror has not seen.
func (s *TreeStore) Parent(id string) (parent string, ok bool) {
	parent, ok = s.parents[id]
	return parent, ok
}

// Len returns the number of indexed nodes.
func (s *TreeStore) Len() int {
	return len(s.nodes)
}

// QueueReset marks the mirror stale. The data stays readable until the
// next Apply, which clears everything before applying its update.
func (s *TreeStore) QueueReset() {
	s.resetQueued = true
}

// ResetQueued reports whether a reset is pending.
func (s *TreeStore) ResetQueued() bool {
	return s.resetQueued
}

// Reset clears the mirror immediately.
func (s *TreeStore) Reset() {
	s.roots = nil
	s.nodes = make(map[string]*Node)
	s.parents = make(map[string]string)
	s.resetQueued = false
}

// Apply folds one tree update into the mirror.
//
// An unsupported update (no roots, no node) is an error only for the
// root target; for any other target it is a no-op, since the panel may
// have requested a subtree that was pruned agent-side in the meantime.
//
// A root-target update replaces the root instances wholesale, merging
// by identifier so subtrees the panel already loaded survive a pushed
// shallow update. Root updates the panel itself requested arrive with
// a reset queued and rebuild the mirror from scratch instead: the
// request is the statement that the old structure is stale.
// A subtree update for a known node merges into that node in
// place. A subtree update for an unknown node is dropped: after a
// reset, responses for the previous generation's nodes can still be in
// flight, and folding them into the fresh mirror would resurrect
// stale structure.
func (s *TreeStore) Apply(update TreeUpdate) error {
	if update.Unsupported() {
		if update.TargetID == RootTarget {
			return ErrUnsupportedTarget
		}
		return nil
	}

	if s.resetQueued {
		s.Reset()
	}

	if update.TargetID == RootTarget {
		incoming := update.Roots
		if incoming == nil {
			incoming = []SerializedNode{*update.Node}
		}
		roots := make([]*Node, 0, len(incoming))
		for _, serialized := range incoming {
			if existing := s.nodes[serialized.ID]; existing != nil {
				s.merge(existing, serialized)
				roots = append(roots, existing)
			} else {
				roots = append(roots, toNode(serialized))
			}
		}
		s.roots = roots
		s.reindex()
		return nil
	}

	existing := s.nodes[update.TargetID]
	if existing == nil {
		return nil
	}
	serialized := update.Node
	if serialized == nil {
		if len(update.Roots) == 0 {
			// Present-but-empty roots are meaningful for the root
			// target (a filter that matched nothing) but carry nothing
			// to merge into a subtree.
			return nil
		}
		serialized = &update.Roots[0]
	}
	s.merge(existing, *serialized)
	s.reindex()
	return nil
}

// merge folds a serialized node into an existing one, recursing into
// children by identifier. An incoming placeholder (HasChildren with no
// children serialized) does not discard children already loaded.
func (s *TreeStore) merge(existing *Node, incoming SerializedNode) {
	existing.Name = incoming.Name
	existing.Inactive = incoming.Inactive
	existing.HasChildren = incoming.HasChildren || len(incoming.Children) > 0
	if incoming.Attributes != nil {
		existing.Attributes = incoming.Attributes
	}

	if len(incoming.Children) == 0 {
		if !incoming.HasChildren {
			existing.Children = nil
		}
		return
	}

	children := make([]*Node, 0, len(incoming.Children))
	for _, child := range incoming.Children {
		if prior := s.nodes[child.ID]; prior != nil {
			s.merge(prior, child)
			children = append(children, prior)
		} else {
			children = append(children, toNode(child))
		}
	}
	existing.Children = children
}

// reindex rebuilds both indexes from the roots. Rebuilding is
// idempotent: the indexes are a pure function of the tree.
func (s *TreeStore) reindex() {
	s.nodes = make(map[string]*Node)
	s.parents = make(map[string]string)
	for _, root := range s.roots {
		s.indexSubtree(root, "")
	}
}

// indexSubtree walks one subtree. A node already present in the index
// is skipped, which both deduplicates identifiers and terminates the
// walk if the agent ever sends a cyclic structure.
func (s *TreeStore) indexSubtree(node *Node, parentID string) {
	if _, seen := s.nodes[node.ID]; seen {
		return
	}
	s.nodes[node.ID] = node
	if parentID != "" {
		s.parents[node.ID] = parentID
	}
	for _, child := range node.Children {
		s.indexSubtree(child, node.ID)
	}
}
