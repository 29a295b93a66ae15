// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tui

import (
	"math"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/taibuivan/flute/internal/core/term"
	"github.com/taibuivan/flute/internal/reader/state"
	"github.com/taibuivan/flute/internal/text/highlight"
)

const minTextWidth = 20

// # Layout

// layout is how reader settings map onto a terminal: a larger font gives a
// narrower column and more line spacing gives blank lines between lines.
type layout struct {
	width int
	gap   int
}

func layoutFor(settings state.Settings, available int) layout {
	available = max(available, 1)
	width := available
	if settings.FontSize > 0 {
		width = int(float64(available) * state.DefaultFontSize / settings.FontSize)
	}
	width = min(max(width, minTextWidth), available)
	gap := max(int(math.Round((settings.LineSpacing-1)*2)), 0)
	return layout{width: width, gap: gap}
}

// # Words

// word is a run of letters and digits, in rune offsets. An apostrophe
// between two letters stays inside the word.
type word struct {
	start, end int
	text       string
}

func splitWords(content []rune) []word {
	var words []word
	start := -1
	for i, r := range content {
		inner := (r == '\'' || r == '’') && start >= 0 && i+1 < len(content) && isWordRune(content[i+1])
		switch {
		case isWordRune(r) || inner:
			if start < 0 {
				start = i
			}
		case start >= 0:
			words = append(words, word{start: start, end: i, text: string(content[start:i])})
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, word{start: start, end: len(content), text: string(content[start:])})
	}
	return words
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// highlightAt returns the highlight covering rune offset pos.
func highlightAt(highlights []highlight.Highlight, pos int) (highlight.Highlight, bool) {
	for _, h := range highlights {
		if pos >= h.StartPos && pos < h.EndPos {
			return h, true
		}
	}
	return highlight.Highlight{}, false
}

// # Segments

// segment is a run of content rendered with one style.
type segment struct {
	text   string
	status term.Status
	cursor bool
}

/*
segments cuts content at highlight and cursor boundaries. Highlights that
fall outside the content or overlap an earlier one are ignored. A nil cursor
marks nothing.
*/
func segments(content []rune, highlights []highlight.Highlight, cursor *word) []segment {
	if len(content) == 0 {
		return nil
	}

	status := make([]term.Status, len(content))
	covered := 0
	for _, h := range highlights {
		if h.StartPos < covered || h.EndPos > len(content) || h.StartPos >= h.EndPos {
			continue
		}
		for i := h.StartPos; i < h.EndPos; i++ {
			status[i] = h.Status
		}
		covered = h.EndPos
	}

	inCursor := func(i int) bool {
		return cursor != nil && i >= cursor.start && i < cursor.end
	}

	var out []segment
	from := 0
	for i := 1; i <= len(content); i++ {
		if i < len(content) && status[i] == status[from] && inCursor(i) == inCursor(from) {
			continue
		}
		out = append(out, segment{text: string(content[from:i]), status: status[from], cursor: inCursor(from)})
		from = i
	}
	return out
}

// # Rendering

// renderChapter styles and wraps chapter content for the reader viewport.
func renderChapter(content string, highlights []highlight.Highlight, cursor *word, l layout) string {
	var b strings.Builder
	for _, seg := range segments([]rune(content), highlights, cursor) {
		style, styled := termStyles[seg.status]
		if !styled {
			style = lipgloss.NewStyle()
		}
		if seg.cursor {
			style = style.Inherit(cursorStyle)
			styled = true
		}
		if !styled {
			b.WriteString(seg.text)
			continue
		}
		b.WriteString(style.Render(seg.text))
	}

	wrapped := lipgloss.NewStyle().Width(l.width).Render(b.String())
	if l.gap == 0 {
		return wrapped
	}
	return strings.Join(strings.Split(wrapped, "\n"), "\n"+strings.Repeat("\n", l.gap))
}
