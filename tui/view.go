// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"

	"github.com/glasspane/glasspane/inspector"
)

// Pane layout: the tree takes a fixed share of the width, the detail
// viewport the rest.
const treeWidthRatio = 0.4

func (m Model) treeWidth() int {
	width := int(float64(m.width) * treeWidthRatio)
	if width < 24 {
		width = 24
	}
	return width
}

func (m Model) detailWidth() int {
	width := m.width - m.treeWidth() - 3
	if width < 20 {
		width = 20
	}
	return width
}

// paneHeight leaves room for the filter line and the status bar.
func (m Model) paneHeight() int {
	height := m.height - 4
	if height < 5 {
		height = 5
	}
	return height
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.BorderColor)

	tree := borderStyle.Width(m.treeWidth()).Height(m.paneHeight()).
		Render(m.renderTree())
	detail := borderStyle.Width(m.detailWidth()).Height(m.paneHeight()).
		Render(m.detail.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.filter.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, tree, detail),
		m.statusBar(),
	)
}

func (m Model) renderTree() string {
	if len(m.rows) == 0 {
		return lipgloss.NewStyle().Foreground(m.theme.FaintText).
			Render("(no components)")
	}

	selectedID, _, _ := m.client.Selection()

	height := m.paneHeight()
	first := 0
	if m.cursor >= height {
		first = m.cursor - height + 1
	}

	var lines []string
	for i := first; i < len(m.rows) && i < first+height; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor, m.rows[i].id == selectedID))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(row treeRow, underCursor, selected bool) string {
	marker := "  "
	switch {
	case row.expanded:
		marker = "▾ "
	case row.hasChildren:
		marker = "▸ "
	}

	name := row.name
	if row.placeholder {
		name += " …"
	}
	line := strings.Repeat("  ", row.depth) + marker + name

	style := lipgloss.NewStyle().Foreground(m.theme.NormalText)
	switch {
	case row.inactive:
		style = style.Foreground(m.theme.InactiveText)
	case row.placeholder:
		style = style.Foreground(m.theme.PlaceholderText)
	}
	if selected {
		style = style.Bold(true)
	}
	if underCursor {
		style = style.
			Background(m.theme.SelectedBackground).
			Foreground(m.theme.SelectedForeground)
	}
	return style.MaxWidth(m.treeWidth()).Render(line)
}

// renderDetail rebuilds the detail viewport's content from the current
// selection.
func (m *Model) renderDetail() {
	id, data, state := m.client.Selection()

	header := lipgloss.NewStyle().Foreground(m.theme.HeaderForeground).Bold(true)
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	section := lipgloss.NewStyle().Foreground(m.theme.SectionHeader).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(m.theme.NormalText)

	var b strings.Builder
	switch {
	case id == "":
		b.WriteString(faint.Render("select a component to inspect"))
	case state == inspector.SelectionRequesting || data == nil:
		b.WriteString(header.Render(id) + "\n\n")
		b.WriteString(faint.Render("loading…"))
	default:
		b.WriteString(header.Render(data.Name) + "  " + faint.Render(data.ID) + "\n")
		grouped := inspector.GroupedState(data, nil)
		for _, name := range inspector.Sections(grouped) {
			b.WriteString("\n" + section.Render(name) + "\n")
			for _, entry := range grouped[name] {
				b.WriteString(fmt.Sprintf("  %s: %s\n",
					keyStyle.Render(entry.Key),
					formatValue(entry.Value),
				))
			}
		}
	}
	m.detail.SetContent(b.String())
}

// formatValue renders one state value for display. Scalars print
// directly; everything structured goes through JSON so maps and lists
// stay readable.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool, int, int64, uint64, float64:
		return fmt.Sprintf("%v", v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

func (m Model) statusBar() string {
	help := lipgloss.NewStyle().Foreground(m.theme.HelpText)
	if m.lastError != nil {
		return lipgloss.NewStyle().Foreground(m.theme.ErrorText).
			MaxWidth(m.width).
			Render("error: " + m.lastError.Error())
	}
	return help.Render("enter inspect · l expand · h collapse · / filter · tab pane · r refresh · q quit")
}
