// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/glasspane/glasspane/bridge"
	"github.com/glasspane/glasspane/inspector"
	"github.com/glasspane/glasspane/lib/codec"
)

// DefaultDepth is how many levels of children a tree response carries
// when the request does not say otherwise. Deeper levels come back as
// placeholders the panel loads on demand.
const DefaultDepth = 2

// Agent serves the inspector protocol over a bridge.
type Agent struct {
	bridge bridge.Bridge
	source Source
	logger *slog.Logger
	depth  int

	mu sync.Mutex
	// subscriptions maps stream kind to the subscribed target. The
	// protocol allows at most one live stream per kind; a new
	// subscribe replaces the old target outright.
	subscriptions map[bridge.StreamKind]string
	// filter is the name filter from the panel's last root request,
	// reapplied to pushed updates so live data matches what the panel
	// asked to see.
	filter  string
	removes []func()
	closed  bool
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// WithDepth overrides DefaultDepth.
func WithDepth(depth int) Option {
	return func(a *Agent) { a.depth = depth }
}

// New builds an Agent over the given bridge and registers its
// handlers. The agent starts answering immediately.
func New(b bridge.Bridge, source Source, options ...Option) *Agent {
	a := &Agent{
		bridge:        b,
		source:        source,
		logger:        slog.Default(),
		depth:         DefaultDepth,
		subscriptions: make(map[bridge.StreamKind]string),
	}
	for _, option := range options {
		option(a)
	}

	a.removes = append(a.removes,
		b.Handle(bridge.ChannelTreeRequest, a.onTreeRequest),
		b.Handle(bridge.ChannelDetailRequest, a.onDetailRequest),
		b.Handle(bridge.ChannelSubscribe, a.onSubscribe),
		b.Handle(bridge.ChannelUnsubscribe, a.onUnsubscribe),
	)
	return a
}

// Close deregisters the agent's handlers.
func (a *Agent) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	removes := a.removes
	a.removes = nil
	a.mu.Unlock()

	for _, remove := range removes {
		remove()
	}
}

// AnnounceTarget tells the panel the agent now inspects a different
// application target. All subscriptions are dropped; the panel
// re-establishes what it still wants.
func (a *Agent) AnnounceTarget(target inspector.TargetChanged) error {
	a.mu.Lock()
	a.subscriptions = make(map[bridge.StreamKind]string)
	a.mu.Unlock()
	return a.bridge.Send(bridge.ChannelTargetChanged, target)
}

// Reset tells the panel its mirror is invalid wholesale. The panel
// responds with a fresh root request.
func (a *Agent) Reset() error {
	return a.bridge.Send(bridge.ChannelReset, nil)
}

// NotifyTreeChanged pushes a fresh tree to the live subtree stream, if
// one is subscribed. The host calls this after mutating the tree the
// Source exposes.
func (a *Agent) NotifyTreeChanged() error {
	a.mu.Lock()
	target, live := a.subscriptions[bridge.StreamSubtree]
	filter := a.filter
	a.mu.Unlock()
	if !live {
		return nil
	}
	return a.sendTree(inspector.TreeRequest{TargetID: target, Filter: filter})
}

// NotifyDetailChanged pushes fresh detail data for id if the live
// detail stream points at it.
func (a *Agent) NotifyDetailChanged(id string) error {
	a.mu.Lock()
	target, live := a.subscriptions[bridge.StreamDetail]
	a.mu.Unlock()
	if !live || target != id {
		return nil
	}
	data, ok := a.source.Detail(id)
	if !ok {
		return nil
	}
	return a.bridge.Send(bridge.ChannelDetailData, data)
}

func (a *Agent) onTreeRequest(payload codec.RawMessage) {
	var request inspector.TreeRequest
	if err := codec.Unmarshal(payload, &request); err != nil {
		a.logger.Warn("agent: undecodable tree request dropped", "error", err)
		return
	}
	if request.TargetID == inspector.RootTarget {
		a.mu.Lock()
		a.filter = request.Filter
		a.mu.Unlock()
	}
	if err := a.sendTree(request); err != nil {
		a.logger.Warn("agent: tree response failed", "target", request.TargetID, "error", err)
	}
}

// sendTree serializes and sends the tree a request describes. An
// unknown target gets an empty update, which the panel treats as a
// no-op away from the root.
func (a *Agent) sendTree(request inspector.TreeRequest) error {
	depth := request.Depth
	if depth <= 0 {
		depth = a.depth
	}

	update := inspector.TreeUpdate{TargetID: request.TargetID}
	roots := a.source.Roots()
	if request.TargetID == inspector.RootTarget {
		serialized := make([]inspector.SerializedNode, 0, len(roots))
		for _, root := range roots {
			if pruned, keep := serializeTree(root, depth, request.Filter); keep {
				serialized = append(serialized, pruned)
			}
		}
		// An empty-but-present list is distinct from nil: it means "no
		// roots (or none matching)", not "unsupported".
		if serialized == nil {
			serialized = []inspector.SerializedNode{}
		}
		update.Roots = serialized
	} else if found, ok := findNode(roots, request.TargetID); ok {
		if pruned, keep := serializeTree(found, depth, request.Filter); keep {
			update.Node = &pruned
		}
	}
	return a.bridge.Send(bridge.ChannelTreeUpdate, update)
}

func (a *Agent) onDetailRequest(payload codec.RawMessage) {
	var id string
	if err := codec.Unmarshal(payload, &id); err != nil {
		a.logger.Warn("agent: undecodable detail request dropped", "error", err)
		return
	}
	data, ok := a.source.Detail(id)
	if !ok {
		a.logger.Debug("agent: detail requested for unknown component", "component", id)
		return
	}
	if err := a.bridge.Send(bridge.ChannelDetailData, data); err != nil {
		a.logger.Warn("agent: detail response failed", "component", id, "error", err)
	}
}

func (a *Agent) onSubscribe(payload codec.RawMessage) {
	var request bridge.SubscribeRequest
	if err := codec.Unmarshal(payload, &request); err != nil {
		a.logger.Warn("agent: undecodable subscribe dropped", "error", err)
		return
	}
	a.mu.Lock()
	a.subscriptions[request.Kind] = request.TargetID
	a.mu.Unlock()
	a.logger.Debug("agent: stream subscribed", "kind", request.Kind, "target", request.TargetID)
}

func (a *Agent) onUnsubscribe(payload codec.RawMessage) {
	var request bridge.SubscribeRequest
	if err := codec.Unmarshal(payload, &request); err != nil {
		a.logger.Warn("agent: undecodable unsubscribe dropped", "error", err)
		return
	}
	a.mu.Lock()
	// Only the current subscriber may tear the stream down. An
	// unsubscribe for a target that was already replaced is stale and
	// must not kill the replacement stream.
	if current, live := a.subscriptions[request.Kind]; live && current == request.TargetID {
		delete(a.subscriptions, request.Kind)
	}
	a.mu.Unlock()
	a.logger.Debug("agent: stream unsubscribed", "kind", request.Kind, "target", request.TargetID)
}

// serializeTree prunes a tree to the given depth and filter. keep is
// false when the filter matches nothing in the subtree. Nodes cut off
// by the depth limit become placeholders (HasChildren without
// children).
func serializeTree(node inspector.SerializedNode, depth int, filter string) (pruned inspector.SerializedNode, keep bool) {
	children := node.Children
	node.Children = nil
	node.HasChildren = len(children) > 0

	if filter != "" {
		matched := matchesFilter(node.Name, filter)
		var kept []inspector.SerializedNode
		for _, child := range children {
			// Filtering ignores the depth limit: a match buried deep in
			// the tree must surface, so matching subtrees serialize in
			// full.
			if prunedChild, keepChild := serializeTree(child, depth, filter); keepChild {
				kept = append(kept, prunedChild)
			}
		}
		if !matched && len(kept) == 0 {
			return node, false
		}
		node.Children = kept
		node.HasChildren = len(kept) > 0
		return node, true
	}

	if depth <= 1 {
		return node, true
	}
	if len(children) > 0 {
		node.Children = make([]inspector.SerializedNode, 0, len(children))
		for _, child := range children {
			prunedChild, _ := serializeTree(child, depth-1, "")
			node.Children = append(node.Children, prunedChild)
		}
	}
	return node, true
}

func matchesFilter(name, filter string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}

func findNode(roots []inspector.SerializedNode, id string) (inspector.SerializedNode, bool) {
	for _, root := range roots {
		if root.ID == id {
			return root, true
		}
		if found, ok := findNode(root.Children, id); ok {
			return found, true
		}
	}
	return inspector.SerializedNode{}, false
}
