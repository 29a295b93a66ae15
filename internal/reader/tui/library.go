// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/taibuivan/flute/internal/core/language"
	"github.com/taibuivan/flute/internal/reader/catalog"
	"github.com/taibuivan/flute/internal/reader/state"
)

var sortLabels = map[state.SortField]string{
	state.SortLastRead:      "last read",
	state.SortAlphabetical:  "title",
	state.SortUnknownWords:  "unknown words",
	state.SortLearningWords: "learning words",
}

// libraryModel lists the books of one language.
type libraryModel struct {
	store     *state.Store
	pager     *catalog.Pager
	languages []language.Summary
	langIndex int
	cursor    int
	offset    int
	width     int
	height    int
}

func newLibrary(store *state.Store) libraryModel {
	return libraryModel{store: store}
}

// language returns the selected language.
func (m libraryModel) language() (language.Summary, bool) {
	if m.langIndex < 0 || m.langIndex >= len(m.languages) {
		return language.Summary{}, false
	}
	return m.languages[m.langIndex], true
}

func (m libraryModel) books() []catalog.Book {
	if m.pager == nil {
		return nil
	}
	return m.pager.Books()
}

// selected returns the book under the cursor.
func (m libraryModel) selected() (catalog.Book, bool) {
	books := m.books()
	if m.cursor < 0 || m.cursor >= len(books) {
		return catalog.Book{}, false
	}
	return books[m.cursor], true
}

func (m *libraryModel) move(delta int) {
	count := len(m.books())
	if count == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), count-1)
	m.adjustScroll()
}

func (m *libraryModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.adjustScroll()
}

func (m libraryModel) visibleRows() int {
	// Header and a blank line, plus one line for the list footer.
	return max(m.height-3, 1)
}

func (m *libraryModel) adjustScroll() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *libraryModel) clampCursor() {
	count := len(m.books())
	if count == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	m.cursor = min(m.cursor, count-1)
	m.adjustScroll()
}

func (m libraryModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	lang, ok := m.language()
	if !ok {
		b.WriteString(mutedTextStyle.Render("No books yet. Add some with flute-admin seed-db."))
		return b.String()
	}

	books := m.books()
	if len(books) == 0 && !m.pager.Loading() && m.pager.Err() == nil {
		b.WriteString(mutedTextStyle.Render(fmt.Sprintf("No %s books.", lang.Name)))
		return b.String()
	}

	end := min(m.offset+m.visibleRows(), len(books))
	for i := m.offset; i < end; i++ {
		line := m.renderRow(books[i])
		if i == m.cursor {
			line = selectedStyle.Width(m.width).Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	switch {
	case m.pager.Err() != nil:
		b.WriteString(errorTextStyle.Render("Could not load books. ctrl+r to retry."))
	case m.pager.Loading():
		b.WriteString(mutedTextStyle.Render("Loading…"))
	case m.pager.HasMore():
		b.WriteString(mutedTextStyle.Render("↓ more"))
	}
	return b.String()
}

func (m libraryModel) header() string {
	title := titleStyle.Render("Library")
	lang, ok := m.language()
	if !ok {
		return title
	}

	sort := m.store.Sort()
	arrow := "↓"
	if sort.Order == state.OrderAsc {
		arrow = "↑"
	}
	return title + mutedTextStyle.Render(fmt.Sprintf("  %s · by %s %s", lang.Name, sortLabels[sort.Field], arrow))
}

/*
renderRow shows a book as

	Title                      ch.3  42%   61% known   12 learning   140 unknown

The place column prefers the locally saved progress over the server's last
visited chapter.
*/
func (m libraryModel) renderRow(book catalog.Book) string {
	place := "new"
	if progress, ok := m.store.Progress(book.ID); ok {
		place = fmt.Sprintf("ch.%d %3d%%", progress.LastChapter, percent(progress.ReadProgressRatio))
	} else if book.LastVisitedChapter > 0 {
		place = fmt.Sprintf("ch.%d", book.LastVisitedChapter)
	}

	stats := fmt.Sprintf("%-10s %3d%% known %4d learning %5d unknown",
		place, percent(book.ProgressRatio), book.LearningTerms, book.UnknownTerms)

	titleWidth := max(m.width-lipgloss.Width(stats)-2, 8)
	return fmt.Sprintf("%-*s  %s", titleWidth, truncate(book.Title, titleWidth), stats)
}

func percent(ratio float64) int {
	return int(math.Round(ratio * 100))
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
