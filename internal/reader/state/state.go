// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package state holds the reader's client-side state: display settings,
per-book progress, the library sort selection and the live reading session.

Everything but the session is persisted through [kvstore]. Values are
validated on load, so a corrupt or out-of-range entry never reaches the UI.
*/
package state

import (
	"math"
	"time"
)

// # Settings

// Display setting bounds.
const (
	MinFontSize    = 12
	MaxFontSize    = 24
	MinLineSpacing = 1.0
	MaxLineSpacing = 2.5

	DefaultFontSize    = 16
	DefaultLineSpacing = 1.5
)

// Settings are the reader's display preferences.
type Settings struct {
	FontSize    float64 `json:"fontSize"`
	LineSpacing float64 `json:"lineSpacing"`
}

// DefaultSettings returns the settings used when nothing valid is stored.
func DefaultSettings() Settings {
	return Settings{FontSize: DefaultFontSize, LineSpacing: DefaultLineSpacing}
}

// Valid reports whether both fields are within bounds.
func (s Settings) Valid() bool {
	return inRange(s.FontSize, MinFontSize, MaxFontSize) && inRange(s.LineSpacing, MinLineSpacing, MaxLineSpacing)
}

// Clamp pulls both fields into bounds.
func (s Settings) Clamp() Settings {
	return Settings{
		FontSize:    clamp(s.FontSize, MinFontSize, MaxFontSize),
		LineSpacing: clamp(s.LineSpacing, MinLineSpacing, MaxLineSpacing),
	}
}

// # Progress

// BookProgress is the last reading position of one book.
type BookProgress struct {
	BookID            string    `json:"bookId"`
	LastChapter       int       `json:"lastChapter"`
	LastReadDate      time.Time `json:"lastReadDate"`
	ReadProgressRatio float64   `json:"readProgressRatio"`
}

// Valid reports whether p could have been written by this package.
func (p BookProgress) Valid() bool {
	return p.BookID != "" && p.LastChapter >= 1 && inRange(p.ReadProgressRatio, 0, 1)
}

// # Session

// ReadingSession is the book and chapter currently open. It is never persisted.
type ReadingSession struct {
	CurrentBookID  *string
	CurrentChapter *int
	StartTime      *time.Time
}

// Active reports whether a book is open.
func (s ReadingSession) Active() bool {
	return s.CurrentBookID != nil
}

// # Sorting

// SortField is the library ordering chosen in the UI.
type SortField string

const (
	SortLastRead      SortField = "lastRead"
	SortAlphabetical  SortField = "alphabetical"
	SortUnknownWords  SortField = "unknownWords"
	SortLearningWords SortField = "learningWords"
)

// SortFields lists the fields in the order the UI cycles through them.
var SortFields = []SortField{SortLastRead, SortAlphabetical, SortUnknownWords, SortLearningWords}

// SortOrder is a sort direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// SortOptions is the library sort selection.
type SortOptions struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// DefaultSortOptions shows the most recently read books first.
func DefaultSortOptions() SortOptions {
	return SortOptions{Field: SortLastRead, Order: OrderDesc}
}

// Valid reports whether both fields are known values.
func (o SortOptions) Valid() bool {
	known := false
	for _, field := range SortFields {
		if o.Field == field {
			known = true
			break
		}
	}
	return known && (o.Order == OrderAsc || o.Order == OrderDesc)
}

// Toggle returns o with the opposite order.
func (o SortOptions) Toggle() SortOptions {
	if o.Order == OrderAsc {
		o.Order = OrderDesc
	} else {
		o.Order = OrderAsc
	}
	return o
}

// NextField returns o sorted by the field after the current one.
func (o SortOptions) NextField() SortOptions {
	for i, field := range SortFields {
		if field == o.Field {
			o.Field = SortFields[(i+1)%len(SortFields)]
			return o
		}
	}
	o.Field = SortFields[0]
	return o
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
