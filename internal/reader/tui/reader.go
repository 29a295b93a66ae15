// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/taibuivan/flute/internal/reader/session"
	"github.com/taibuivan/flute/internal/reader/state"
)

// readerModel shows one chapter in a scrollable viewport.
type readerModel struct {
	viewport viewport.Model

	// bookID and chapter identify what the viewport holds.
	bookID  int64
	chapter int

	words  []word
	cursor int
	// restore is the book ratio to scroll to on the first chapter shown, or -1.
	restore float64

	width  int
	height int
}

func newReader() readerModel {
	return readerModel{viewport: viewport.New(0, 0), cursor: -1, restore: -1}
}

// reset clears the reader for a new book.
func (r *readerModel) reset(restore float64) {
	r.bookID = 0
	r.chapter = 0
	r.words = nil
	r.cursor = -1
	r.restore = restore
	r.viewport.SetContent("")
	r.viewport.GotoTop()
}

func (r *readerModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.viewport.Width = w
	// Title line and a blank line.
	r.viewport.Height = max(h-2, 1)
}

/*
show puts the view's chapter into the viewport. A new chapter starts at the
top, except the first one after opening a book, which scrolls to where the
saved progress left off. Showing the same chapter again keeps the scroll
position and the word cursor. show reports whether the chapter changed.
*/
func (r *readerModel) show(view session.View, settings state.Settings) bool {
	if view.Content == nil {
		return false
	}

	same := view.BookID == r.bookID && view.Chapter == r.chapter
	if !same {
		r.bookID = view.BookID
		r.chapter = view.Chapter
		r.words = splitWords([]rune(view.Content.Chapter.Content))
		r.cursor = -1
	}
	r.render(view, settings)
	if same {
		return false
	}

	r.viewport.GotoTop()
	if r.restore >= 0 && view.TotalChapters > 0 {
		r.scrollTo(r.restore*float64(view.TotalChapters) - float64(view.Chapter-1))
	}
	r.restore = -1
	return true
}

func (r *readerModel) render(view session.View, settings state.Settings) {
	if view.Content == nil {
		return
	}
	var cursor *word
	if r.cursor >= 0 && r.cursor < len(r.words) {
		cursor = &r.words[r.cursor]
	}
	text := renderChapter(view.Content.Chapter.Content, view.Content.TermHighlights, cursor, layoutFor(settings, r.width))
	r.viewport.SetContent(lipgloss.PlaceHorizontal(r.width, lipgloss.Center, text))
}

// moveCursor steps the word cursor, wrapping around the chapter.
func (r *readerModel) moveCursor(delta int) bool {
	count := len(r.words)
	if count == 0 {
		return false
	}
	switch {
	case r.cursor < 0 && delta > 0:
		r.cursor = 0
	case r.cursor < 0:
		r.cursor = count - 1
	default:
		r.cursor = ((r.cursor+delta)%count + count) % count
	}
	return true
}

// selectedWord returns the word under the cursor.
func (r readerModel) selectedWord() (word, bool) {
	if r.cursor < 0 || r.cursor >= len(r.words) {
		return word{}, false
	}
	return r.words[r.cursor], true
}

// scrollTo moves to fraction of the chapter, in [0,1].
func (r *readerModel) scrollTo(fraction float64) {
	fraction = min(max(fraction, 0), 1)
	maxOffset := max(r.viewport.TotalLineCount()-r.viewport.Height, 0)
	r.viewport.SetYOffset(int(math.Round(fraction * float64(maxOffset))))
}

func (r readerModel) scrollFraction() float64 {
	return r.viewport.ScrollPercent()
}

func (r readerModel) View(view session.View) string {
	header := titleStyle.Render(view.Title)
	if view.TotalChapters > 0 {
		header += mutedTextStyle.Render(fmt.Sprintf("  chapter %d of %d  %3.0f%%", view.Chapter, view.TotalChapters, r.scrollFraction()*100))
	}

	var body string
	switch {
	case view.Content != nil:
		body = r.viewport.View()
	case view.Phase == session.PhaseError:
		body = errorTextStyle.Render(describeError(view)) + "\n\n" + mutedTextStyle.Render("r: retry  esc: back to the library")
	default:
		body = mutedTextStyle.Render("Loading chapter…")
	}
	return header + "\n\n" + body
}
