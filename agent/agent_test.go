// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package agent_test

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/glasspane/glasspane/agent"
	"github.com/glasspane/glasspane/bridge"
	"github.com/glasspane/glasspane/inspector"
	"github.com/glasspane/glasspane/lib/codec"
	"github.com/glasspane/glasspane/router"
)

const settleTimeout = 5 * time.Second

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// demoSource builds the tree the agent tests serve:
//
//	shell
//	├── sidebar
//	│   └── nav-item
//	└── editor
//	    └── buffer
//	        └── gutter
func demoSource() *agent.StaticSource {
	source := agent.NewStaticSource()
	source.SetRoots([]inspector.SerializedNode{{
		ID:   "shell",
		Name: "Shell",
		Children: []inspector.SerializedNode{
			{
				ID:       "sidebar",
				Name:     "Sidebar",
				Children: []inspector.SerializedNode{{ID: "nav-item", Name: "NavItem"}},
			},
			{
				ID:   "editor",
				Name: "Editor",
				Children: []inspector.SerializedNode{{
					ID:       "buffer",
					Name:     "Buffer",
					Children: []inspector.SerializedNode{{ID: "gutter", Name: "Gutter"}},
				}},
			},
		},
	}})
	for _, id := range []string{"shell", "sidebar", "nav-item", "editor", "buffer", "gutter"} {
		source.SetDetail(inspector.DetailData{
			ID:    id,
			Name:  id,
			State: []inspector.StateEntry{{Section: "props", Key: "id", Value: id}},
		})
	}
	return source
}

// treeCollector records updates arriving on the panel side.
type treeCollector struct {
	mu      sync.Mutex
	updates []inspector.TreeUpdate
}

func collectTrees(t *testing.T, endpoint *bridge.MemoryEndpoint) *treeCollector {
	c := &treeCollector{}
	endpoint.Handle(bridge.ChannelTreeUpdate, func(payload codec.RawMessage) {
		var update inspector.TreeUpdate
		if err := codec.Unmarshal(payload, &update); err != nil {
			t.Errorf("decode tree update: %v", err)
			return
		}
		c.mu.Lock()
		c.updates = append(c.updates, update)
		c.mu.Unlock()
	})
	return c
}

func (c *treeCollector) all() []inspector.TreeUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]inspector.TreeUpdate{}, c.updates...)
}

func (c *treeCollector) last(t *testing.T) inspector.TreeUpdate {
	t.Helper()
	updates := c.all()
	if len(updates) == 0 {
		t.Fatal("no tree update received")
	}
	return updates[len(updates)-1]
}

func TestRootRequestPrunedToDepth(t *testing.T) {
	t.Parallel()
	pair := bridge.NewPair()
	t.Cleanup(pair.Close)
	a := agent.New(pair.Agent, demoSource(), agent.WithLogger(quietLogger()))
	t.Cleanup(a.Close)
	trees := collectTrees(t, pair.Panel)

	request := inspector.TreeRequest{TargetID: inspector.RootTarget}
	if err := pair.Panel.Send(bridge.ChannelTreeRequest, request); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}

	update := trees.last(t)
	if len(update.Roots) != 1 || update.Roots[0].ID != "shell" {
		t.Fatalf("roots: got %+v, want [shell]", update.Roots)
	}
	// Default depth is 2: shell and its direct children arrive, the
	// grandchildren come back as placeholders.
	sidebar := update.Roots[0].Children[0]
	if sidebar.ID != "sidebar" || !sidebar.HasChildren || len(sidebar.Children) != 0 {
		t.Errorf("sidebar: got %+v, want placeholder", sidebar)
	}
}

func TestSubtreeRequestServesOneNode(t *testing.T) {
	t.Parallel()
	pair := bridge.NewPair()
	t.Cleanup(pair.Close)
	a := agent.New(pair.Agent, demoSource(), agent.WithLogger(quietLogger()))
	t.Cleanup(a.Close)
	trees := collectTrees(t, pair.Panel)

	request := inspector.TreeRequest{TargetID: "buffer"}
	if err := pair.Panel.Send(bridge.ChannelTreeRequest, request); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}

	update := trees.last(t)
	if update.TargetID != "buffer" || update.Node == nil {
		t.Fatalf("update: got %+v, want buffer node", update)
	}
	if len(update.Node.Children) != 1 || update.Node.Children[0].ID != "gutter" {
		t.Errorf("buffer children: got %+v, want [gutter]", update.Node.Children)
	}
}

func TestUnknownSubtreeAnsweredEmpty(t *testing.T) {
	t.Parallel()
	pair := bridge.NewPair()
	t.Cleanup(pair.Close)
	a := agent.New(pair.Agent, demoSource(), agent.WithLogger(quietLogger()))
	t.Cleanup(a.Close)
	trees := collectTrees(t, pair.Panel)

	request := inspector.TreeRequest{TargetID: "ghost"}
	if err := pair.Panel.Send(bridge.ChannelTreeRequest, request); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}

	update := trees.last(t)
	if update.TargetID != "ghost" || !update.Unsupported() {
		t.Errorf("unknown target: got %+v, want empty update", update)
	}
}

func TestFilterSurfacesDeepMatches(t *testing.T) {
	t.Parallel()
	pair := bridge.NewPair()
	t.Cleanup(pair.Close)
	a := agent.New(pair.Agent, demoSource(), agent.WithLogger(quietLogger()))
	t.Cleanup(a.Close)
	trees := collectTrees(t, pair.Panel)

	// "gutter" sits three levels down, past the default depth. The
	// filter must surface it anyway, with only its ancestor chain kept.
	request := inspector.TreeRequest{TargetID: inspector.RootTarget, Filter: "gut"}
	if err := pair.Panel.Send(bridge.ChannelTreeRequest, request); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}

	update := trees.last(t)
	if len(update.Roots) != 1 {
		t.Fatalf("filtered roots: got %+v, want the shell chain", update.Roots)
	}
	shell := update.Roots[0]
	if len(shell.Children) != 1 || shell.Children[0].ID != "editor" {
		t.Fatalf("filtered shell children: got %+v, want [editor]", shell.Children)
	}
	buffer := shell.Children[0].Children[0]
	if buffer.ID != "buffer" || len(buffer.Children) != 1 || buffer.Children[0].ID != "gutter" {
		t.Errorf("filtered chain below editor: got %+v, want buffer/gutter", buffer)
	}
}

func TestFilterMatchingNothingIsNotUnsupported(t *testing.T) {
	t.Parallel()
	pair := bridge.NewPair()
	t.Cleanup(pair.Close)
	a := agent.New(pair.Agent, demoSource(), agent.WithLogger(quietLogger()))
	t.Cleanup(a.Close)
	trees := collectTrees(t, pair.Panel)

	request := inspector.TreeRequest{TargetID: inspector.RootTarget, Filter: "zzz"}
	if err := pair.Panel.Send(bridge.ChannelTreeRequest, request); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}

	update := trees.last(t)
	if update.Unsupported() {
		t.Error("empty filter result reported as unsupported target")
	}
	if len(update.Roots) != 0 {
		t.Errorf("filtered roots: got %+v, want none", update.Roots)
	}
}

func TestNotifyPushesOnlyToSubscribers(t *testing.T) {
	t.Parallel()
	pair := bridge.NewPair()
	t.Cleanup(pair.Close)
	source := demoSource()
	a := agent.New(pair.Agent, source, agent.WithLogger(quietLogger()))
	t.Cleanup(a.Close)
	trees := collectTrees(t, pair.Panel)

	// Without a subscription, notify is a no-op.
	if err := a.NotifyTreeChanged(); err != nil {
		t.Fatalf("NotifyTreeChanged: %v", err)
	}
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}
	if got := trees.all(); len(got) != 0 {
		t.Fatalf("updates without subscription: got %d, want 0", len(got))
	}

	cancel, err := bridge.Subscribe(pair.Panel, bridge.StreamSubtree, inspector.RootTarget)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}
	if err := a.NotifyTreeChanged(); err != nil {
		t.Fatalf("NotifyTreeChanged: %v", err)
	}
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}
	if got := trees.all(); len(got) != 1 {
		t.Fatalf("updates with subscription: got %d, want 1", len(got))
	}

	// After unsubscribing, pushes stop again.
	cancel()
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}
	if err := a.NotifyTreeChanged(); err != nil {
		t.Fatalf("NotifyTreeChanged: %v", err)
	}
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}
	if got := trees.all(); len(got) != 1 {
		t.Errorf("updates after unsubscribe: got %d, want still 1", len(got))
	}
}

func TestStaleUnsubscribeKeepsReplacementStream(t *testing.T) {
	t.Parallel()
	pair := bridge.NewPair()
	t.Cleanup(pair.Close)
	source := demoSource()
	a := agent.New(pair.Agent, source, agent.WithLogger(quietLogger()))
	t.Cleanup(a.Close)

	details := make(chan inspector.DetailData, 4)
	pair.Panel.Handle(bridge.ChannelDetailData, func(payload codec.RawMessage) {
		var data inspector.DetailData
		if err := codec.Unmarshal(payload, &data); err != nil {
			t.Errorf("decode detail: %v", err)
			return
		}
		details <- data
	})

	// Subscribe to sidebar, then replace with editor, then deliver the
	// stale unsubscribe for sidebar. The editor stream must survive.
	cancelSidebar, err := bridge.Subscribe(pair.Panel, bridge.StreamDetail, "sidebar")
	if err != nil {
		t.Fatalf("Subscribe sidebar: %v", err)
	}
	if _, err := bridge.Subscribe(pair.Panel, bridge.StreamDetail, "editor"); err != nil {
		t.Fatalf("Subscribe editor: %v", err)
	}
	cancelSidebar()
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}

	if err := a.NotifyDetailChanged("editor"); err != nil {
		t.Fatalf("NotifyDetailChanged: %v", err)
	}
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}

	select {
	case data := <-details:
		if data.ID != "editor" {
			t.Errorf("pushed detail: got %q, want editor", data.ID)
		}
	default:
		t.Error("stale unsubscribe killed the replacement stream")
	}
}

// TestEndToEndWithClient pairs the real panel client with the real
// agent and exercises the protocol without any stubs.
func TestEndToEndWithClient(t *testing.T) {
	t.Parallel()
	pair := bridge.NewPair()
	t.Cleanup(pair.Close)
	source := demoSource()
	a := agent.New(pair.Agent, source, agent.WithLogger(quietLogger()))
	t.Cleanup(a.Close)

	nav := router.NewMemory()
	client := inspector.New(pair.Panel, nav, inspector.WithLogger(quietLogger()))
	t.Cleanup(client.Close)

	if err := client.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}

	// Expand the placeholder under sidebar and select the revealed
	// node.
	client.ToggleExpansion("sidebar")
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}
	client.Select("nav-item")
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}

	id, data, state := client.Selection()
	if id != "nav-item" || state != inspector.SelectionLoaded {
		t.Fatalf("selection: got %q/%v, want nav-item/loaded", id, state)
	}
	if data == nil || data.ID != "nav-item" {
		t.Fatalf("detail: got %+v", data)
	}

	// Mutate the detail on the agent side; the live stream pushes it.
	source.SetDetail(inspector.DetailData{
		ID:    "nav-item",
		Name:  "nav-item",
		State: []inspector.StateEntry{{Section: "props", Key: "id", Value: "updated"}},
	})
	if err := a.NotifyDetailChanged("nav-item"); err != nil {
		t.Fatalf("NotifyDetailChanged: %v", err)
	}
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}

	_, data, _ = client.Selection()
	if data == nil || len(data.State) != 1 || data.State[0].Value != "updated" {
		t.Errorf("pushed detail not applied: got %+v", data)
	}
}
