// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette. ANSI 256-color codes for broad terminal
// compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// PlaceholderText marks nodes whose children exist remotely but
	// are not loaded; InactiveText marks deactivated components.
	PlaceholderText lipgloss.Color
	InactiveText    lipgloss.Color

	HeaderForeground lipgloss.Color
	SectionHeader    lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	ErrorText        lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal palette.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("24"),
	SelectedForeground: lipgloss.Color("231"),
	PlaceholderText:    lipgloss.Color("245"),
	InactiveText:       lipgloss.Color("240"),
	HeaderForeground:   lipgloss.Color("75"),
	SectionHeader:      lipgloss.Color("114"),
	BorderColor:        lipgloss.Color("238"),
	HelpText:           lipgloss.Color("243"),
	ErrorText:          lipgloss.Color("203"),
}
