// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glasspane/glasspane/agent"
	"github.com/glasspane/glasspane/bridge"
	"github.com/glasspane/glasspane/inspector"
	"github.com/glasspane/glasspane/router"
)

const settleTimeout = 5 * time.Second

type harness struct {
	model  Model
	client *inspector.Client
	pair   *bridge.Pair
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	pair := bridge.NewPair()
	t.Cleanup(pair.Close)

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
			{ID: "editor", Name: "Editor"},
		},
	}})
	source.SetDetail(inspector.DetailData{
		ID:   "sidebar",
		Name: "Sidebar",
		State: []inspector.StateEntry{
			{Section: "props", Key: "width", Value: int64(240)},
			{Section: "state", Key: "collapsed", Value: false},
		},
	})

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := agent.New(pair.Agent, source, agent.WithLogger(quiet))
	t.Cleanup(a.Close)

	client := inspector.New(pair.Panel, router.NewMemory(), inspector.WithLogger(quiet))
	t.Cleanup(client.Close)
	if err := client.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}

	model := NewModel(client)
	resized, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return &harness{model: resized.(Model), client: client, pair: pair}
}

func (h *harness) press(t *testing.T, msg tea.KeyMsg) {
	t.Helper()
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
}

func (h *harness) settleAndRefresh(t *testing.T) {
	t.Helper()
	if !h.pair.Settle(settleTimeout) {
		t.Fatal("bridge did not settle")
	}
	// Feed pending client events through the update loop the way the
	// bubbletea runtime would.
	for {
		select {
		case event := <-h.client.Events():
			updated, _ := h.model.Update(clientEventMsg{event: event})
			h.model = updated.(Model)
		default:
			return
		}
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func rowIDs(rows []treeRow) []string {
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.id
	}
	return ids
}

func TestRowsFlattenedWithRootsExpanded(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	// The root is expanded by default, deeper nodes are not: shell and
	// its direct children are visible, nav-item is hidden behind the
	// collapsed sidebar.
	want := []string{"shell", "sidebar", "editor"}
	got := rowIDs(h.model.rows)
	if len(got) != len(want) {
		t.Fatalf("rows: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rows[%d]: got %s, want %s (full %v)", i, got[i], want[i], got)
		}
	}
	if h.model.rows[1].depth != 1 {
		t.Errorf("sidebar depth: got %d, want 1", h.model.rows[1].depth)
	}
	if !h.model.rows[1].placeholder {
		t.Error("sidebar should render as a placeholder before expansion")
	}
}

func TestExpandKeyRevealsChildren(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.press(t, keyRune('j')) // cursor onto sidebar
	h.press(t, keyRune('l')) // expand: requests the subtree
	h.settleAndRefresh(t)

	got := rowIDs(h.model.rows)
	want := []string{"shell", "sidebar", "nav-item", "editor"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("rows after expand: got %v, want %v", got, want)
	}

	// Collapse hides the subtree again without dropping it from the
	// mirror.
	h.press(t, keyRune('h'))
	h.settleAndRefresh(t)
	if got := rowIDs(h.model.rows); strings.Join(got, ",") != "shell,sidebar,editor" {
		t.Errorf("rows after collapse: got %v", got)
	}
}

func TestCollapseOnLeafJumpsToParent(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.press(t, keyRune('j'))
	h.press(t, keyRune('j')) // cursor onto editor, a leaf
	h.press(t, keyRune('h'))
	if row, _ := h.model.cursorRow(); row.id != "shell" {
		t.Errorf("cursor after collapse on leaf: got %s, want shell", row.id)
	}
}

func TestSelectKeyLoadsDetail(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.press(t, keyRune('j')) // sidebar
	h.press(t, tea.KeyMsg{Type: tea.KeyEnter})
	h.settleAndRefresh(t)

	id, data, state := h.client.Selection()
	if id != "sidebar" || state != inspector.SelectionLoaded || data == nil {
		t.Fatalf("selection: got %q/%v/%v, want sidebar loaded", id, state, data)
	}

	view := h.model.View()
	for _, want := range []string{"Sidebar", "props", "width", "240"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFilterFocusRoutesKeystrokes(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.press(t, keyRune('/'))
	if h.model.focus != FocusFilter {
		t.Fatalf("focus after /: got %v, want filter", h.model.focus)
	}
	h.press(t, keyRune('e'))
	h.press(t, keyRune('d'))
	if got := h.model.filter.Value(); got != "ed" {
		t.Errorf("filter input: got %q, want ed", got)
	}
	if got := h.model.client.Filter().Get(); got != "ed" {
		t.Errorf("client filter: got %q, want ed", got)
	}

	// Escape clears and returns focus to the tree.
	h.press(t, tea.KeyMsg{Type: tea.KeyEscape})
	if h.model.focus != FocusTree || h.model.filter.Value() != "" {
		t.Errorf("after escape: focus %v, filter %q", h.model.focus, h.model.filter.Value())
	}
}

func TestQuitKey(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	updated, cmd := h.model.Update(keyRune('q'))
	h.model = updated.(Model)
	if cmd == nil {
		t.Fatal("quit produced no command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("quit command: got %v, want tea.Quit", msg)
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()
	cases := []struct {
		value any
		want  string
	}{
		{nil, "null"},
		{"text", "text"},
		{true, "true"},
		{int64(42), "42"},
		{map[string]any{"k": "v"}, `{"k":"v"}`},
		{[]any{int64(1), int64(2)}, `[1,2]`},
	}
	for _, c := range cases {
		if got := formatValue(c.value); got != c.want {
			t.Errorf("formatValue(%v): got %q, want %q", c.value, got, c.want)
		}
	}
}
