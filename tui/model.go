// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glasspane/glasspane/inspector"
)

// FocusRegion identifies which pane has keyboard focus.
type FocusRegion int

const (
	// FocusTree means movement keys drive the tree cursor.
	FocusTree FocusRegion = iota
	// FocusDetail means movement keys scroll the detail viewport.
	FocusDetail
	// FocusFilter means keystrokes go to the filter input.
	FocusFilter
)

// treeRow is one visible line of the flattened tree pane.
type treeRow struct {
	id          string
	name        string
	depth       int
	hasChildren bool
	expanded    bool
	placeholder bool
	inactive    bool
}

// clientEventMsg wraps an inspector event for delivery through the
// bubbletea message loop.
type clientEventMsg struct {
	event inspector.Event
}

// Model is the bubbletea model for the panel.
type Model struct {
	client *inspector.Client
	keys   KeyMap
	theme  Theme

	width  int
	height int

	focus  FocusRegion
	rows   []treeRow
	cursor int

	filter textinput.Model
	detail viewport.Model

	lastError error
	quitting  bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithKeyMap overrides DefaultKeyMap.
func WithKeyMap(keys KeyMap) ModelOption {
	return func(m *Model) { m.keys = keys }
}

// WithTheme overrides DefaultTheme.
func WithTheme(theme Theme) ModelOption {
	return func(m *Model) { m.theme = theme }
}

// NewModel builds the panel view over a started client.
func NewModel(client *inspector.Client, options ...ModelOption) Model {
	filter := textinput.New()
	filter.Placeholder = "filter components"
	filter.Prompt = "/ "
	filter.CharLimit = 64

	m := Model{
		client: client,
		keys:   DefaultKeyMap,
		theme:  DefaultTheme,
		filter: filter,
		detail: viewport.New(0, 0),
	}
	for _, option := range options {
		option(&m)
	}
	m.rebuildRows()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.client.Events())
}

// waitForEvent blocks on the client's event channel and redelivers the
// event as a bubbletea message.
func waitForEvent(events <-chan inspector.Event) tea.Cmd {
	return func() tea.Msg {
		return clientEventMsg{event: <-events}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail.Width = m.detailWidth()
		m.detail.Height = m.paneHeight()
		m.renderDetail()
		return m, nil

	case clientEventMsg:
		m.applyEvent(msg.event)
		return m, waitForEvent(m.client.Events())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) applyEvent(event inspector.Event) {
	switch event.Kind {
	case inspector.EventTreeChanged, inspector.EventReset, inspector.EventTargetChanged:
		m.rebuildRows()
		m.renderDetail()
	case inspector.EventSelectionChanged:
		m.rebuildRows()
		m.moveCursorTo(event.ComponentID)
		m.renderDetail()
	case inspector.EventDetailLoaded:
		m.renderDetail()
	case inspector.EventError:
		m.lastError = event.Err
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit works from any focus except the filter input, where q is a
	// legitimate character.
	if m.focus != FocusFilter && key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.focus {
	case FocusFilter:
		return m.handleFilterKey(msg)
	case FocusDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleTreeKey(msg)
	}
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.FilterClear):
		m.filter.SetValue("")
		m.filter.Blur()
		m.focus = FocusTree
		m.client.SetFilter("")
		return m, nil
	case msg.Type == tea.KeyEnter:
		m.filter.Blur()
		m.focus = FocusTree
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.client.SetFilter(m.filter.Value())
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.FocusToggle):
		m.focus = FocusTree
		return m, nil
	case key.Matches(msg, m.keys.FilterActivate):
		return m.activateFilter()
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m Model) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Right):
		if row, ok := m.cursorRow(); ok && row.hasChildren && !row.expanded {
			m.client.ToggleExpansion(row.id)
			m.rebuildRows()
		}
	case key.Matches(msg, m.keys.Left):
		if row, ok := m.cursorRow(); ok {
			if row.expanded {
				m.client.ToggleExpansion(row.id)
				m.rebuildRows()
			} else {
				m.moveCursorToParent(row.id)
			}
		}
	case key.Matches(msg, m.keys.Select):
		if row, ok := m.cursorRow(); ok {
			m.client.Select(row.id)
		}
	case key.Matches(msg, m.keys.FocusToggle):
		m.focus = FocusDetail
	case key.Matches(msg, m.keys.FilterActivate):
		return m.activateFilter()
	case key.Matches(msg, m.keys.Refresh):
		if err := m.client.Refresh(); err != nil {
			m.lastError = err
		}
	}
	return m, nil
}

func (m Model) activateFilter() (tea.Model, tea.Cmd) {
	m.focus = FocusFilter
	return m, m.filter.Focus()
}

func (m *Model) cursorRow() (treeRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return treeRow{}, false
	}
	return m.rows[m.cursor], true
}

// rebuildRows flattens the client's mirror into visible lines,
// honoring expansion state. Roots default to expanded, deeper nodes to
// collapsed.
func (m *Model) rebuildRows() {
	var rows []treeRow
	m.client.Visit(func(store *inspector.TreeStore, expansion *inspector.ExpansionController) {
		var walk func(node *inspector.Node, depth int)
		walk = func(node *inspector.Node, depth int) {
			expanded := expansion.IsExpanded(node.ID, depth == 0)
			rows = append(rows, treeRow{
				id:          node.ID,
				name:        node.Name,
				depth:       depth,
				hasChildren: node.HasChildren,
				expanded:    expanded && node.HasChildren,
				placeholder: node.Placeholder(),
				inactive:    node.Inactive,
			})
			if !expanded {
				return
			}
			for _, child := range node.Children {
				walk(child, depth+1)
			}
		}
		for _, root := range store.Roots() {
			walk(root, 0)
		}
	})
	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) moveCursorTo(id string) {
	for i, row := range m.rows {
		if row.id == id {
			m.cursor = i
			return
		}
	}
}

func (m *Model) moveCursorToParent(id string) {
	var parent string
	m.client.Visit(func(store *inspector.TreeStore, _ *inspector.ExpansionController) {
		parent, _ = store.Parent(id)
	})
	if parent != "" {
		m.moveCursorTo(parent)
	}
}
