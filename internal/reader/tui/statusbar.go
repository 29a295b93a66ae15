// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tui

import "github.com/charmbracelet/lipgloss"

type statusBar struct {
	message  string
	location string
	width    int
	isError  bool
	reading  bool
	failed   bool
}

func newStatusBar() statusBar {
	return statusBar{message: "Ready"}
}

func (s *statusBar) setMessage(msg string) {
	s.message = msg
	s.isError = false
}

func (s *statusBar) setError(msg string) {
	s.message = msg
	s.isError = true
}

func (s statusBar) View() string {
	msgStyle := statusBarStyle
	if s.isError {
		msgStyle = msgStyle.Foreground(errorColor)
	}

	left := s.message
	if s.location != "" && s.reading {
		left = s.location + "  " + left
	}
	shortcuts := s.shortcuts()

	gap := max(s.width-lipgloss.Width(left)-lipgloss.Width(shortcuts)-2, 0)
	content := left + lipgloss.NewStyle().Width(gap).Render("") + mutedTextStyle.Render(shortcuts)
	return msgStyle.Width(s.width).Render(content)
}

func (s statusBar) shortcuts() string {
	switch {
	case s.reading && s.failed:
		return "r:retry  x:dismiss  esc:library  q:quit"
	case s.reading:
		return "←/→:chapter  +/-:size  w:word  1/2/3:mark  esc:library"
	default:
		return "j/k:nav  enter:read  s:sort  o:order  L:language  q:quit"
	}
}
