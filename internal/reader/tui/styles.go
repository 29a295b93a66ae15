// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/taibuivan/flute/internal/core/term"
)

var (
	primaryColor = lipgloss.Color("#2563EB")
	mutedColor   = lipgloss.Color("#6B7280")
	errorColor   = lipgloss.Color("#EF4444")
	knownColor   = lipgloss.Color("#10B981")
	learnColor   = lipgloss.Color("#F59E0B")

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#D1D5DB")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(lipgloss.Color("#FFFFFF"))

	cursorStyle = lipgloss.NewStyle().Reverse(true)

	mutedTextStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)

// termStyles colors highlighted terms by status. Ignored terms render plain.
var termStyles = map[term.Status]lipgloss.Style{
	term.StatusLearning: lipgloss.NewStyle().Foreground(learnColor).Underline(true),
	term.StatusKnown:    lipgloss.NewStyle().Foreground(knownColor),
}
