// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	// Library
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Sort     key.Binding
	Order    key.Binding
	Language key.Binding
	Reload   key.Binding

	// Reader
	PrevChapter key.Binding
	NextChapter key.Binding
	FontUp      key.Binding
	FontDown    key.Binding
	SpacingUp   key.Binding
	SpacingDown key.Binding
	NextWord    key.Binding
	PrevWord    key.Binding
	MarkLearn   key.Binding
	MarkKnown   key.Binding
	MarkIgnore  key.Binding
	Retry       key.Binding
	Dismiss     key.Binding
	Back        key.Binding

	Quit key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
	Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by")),
	Order:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "order")),
	Language: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "language")),
	Reload:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),

	PrevChapter: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev chapter")),
	NextChapter: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next chapter")),
	FontUp:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "larger")),
	FontDown:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "smaller")),
	SpacingUp:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "more spacing")),
	SpacingDown: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "less spacing")),
	NextWord:    key.NewBinding(key.WithKeys("w", "tab"), key.WithHelp("w", "next word")),
	PrevWord:    key.NewBinding(key.WithKeys("W", "shift+tab"), key.WithHelp("W", "prev word")),
	MarkLearn:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "learning")),
	MarkKnown:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "known")),
	MarkIgnore:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "ignore")),
	Retry:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
	Dismiss:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "library")),

	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
