// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package state

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/taibuivan/flute/internal/reader/kvstore"
	"github.com/taibuivan/flute/pkg/pointer"
)

// Storage keys.
const (
	KeySettings = "reader-settings"
	KeyProgress = "book-progress"
	KeySort     = "sort-options"
)

// Store is the reader's state container.
//
// Selectors return copies. Mutations update memory first and then persist,
// so a failed write never loses the change for the current session.
type Store struct {
	kv     *kvstore.Store
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	settings Settings
	progress map[string]BookProgress
	sort     SortOptions
	session  ReadingSession

	// sessionShown is set once the live session has shown a chapter.
	sessionShown bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(store *Store) { store.now = now }
}

/*
Load reads every persisted value, falling back to defaults for anything
missing or invalid. Individual invalid progress entries are dropped.
*/
func Load(ctx context.Context, kv *kvstore.Store, logger *slog.Logger, opts ...Option) *Store {
	store := &Store{kv: kv, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}

	store.settings = kvstore.Get(ctx, kv, KeySettings, DefaultSettings(), Settings.Valid)
	store.sort = kvstore.Get(ctx, kv, KeySort, DefaultSortOptions(), SortOptions.Valid)

	progress := kvstore.Get[map[string]BookProgress](ctx, kv, KeyProgress, nil, nil)
	store.progress = make(map[string]BookProgress, len(progress))
	for id, entry := range progress {
		if !entry.Valid() || entry.BookID != id {
			logger.WarnContext(ctx, "book_progress_dropped", slog.String("book_id", id))
			continue
		}
		store.progress[id] = entry
	}
	return store
}

// # Selectors

// Settings returns the display settings.
func (store *Store) Settings() Settings {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.settings
}

// Sort returns the library sort selection.
func (store *Store) Sort() SortOptions {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.sort
}

// Progress returns the progress of one book.
func (store *Store) Progress(bookID string) (BookProgress, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	p, ok := store.progress[bookID]
	return p, ok
}

// AllProgress returns a copy of every book's progress.
func (store *Store) AllProgress() map[string]BookProgress {
	store.mu.Lock()
	defer store.mu.Unlock()
	return maps.Clone(store.progress)
}

// Session returns the live reading session.
func (store *Store) Session() ReadingSession {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.session
}

// # Mutations

// SetSettings stores s after clamping it into bounds.
func (store *Store) SetSettings(ctx context.Context, s Settings) Settings {
	store.mu.Lock()
	store.settings = s.Clamp()
	s = store.settings
	store.mu.Unlock()

	kvstore.Set(ctx, store.kv, KeySettings, s)
	return s
}

// AdjustFontSize changes the font size by delta, within bounds, without persisting.
func (store *Store) AdjustFontSize(delta float64) Settings {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.settings = Settings{FontSize: store.settings.FontSize + delta, LineSpacing: store.settings.LineSpacing}.Clamp()
	return store.settings
}

// AdjustLineSpacing changes the line spacing by delta, within bounds, without persisting.
func (store *Store) AdjustLineSpacing(delta float64) Settings {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.settings = Settings{FontSize: store.settings.FontSize, LineSpacing: store.settings.LineSpacing + delta}.Clamp()
	return store.settings
}

// SaveSettings persists the current settings.
func (store *Store) SaveSettings(ctx context.Context) {
	kvstore.Set(ctx, store.kv, KeySettings, store.Settings())
}

// SetSort stores a new sort selection. Invalid selections are ignored.
func (store *Store) SetSort(ctx context.Context, o SortOptions) SortOptions {
	if !o.Valid() {
		return store.Sort()
	}
	store.mu.Lock()
	store.sort = o
	store.mu.Unlock()

	kvstore.Set(ctx, store.kv, KeySort, o)
	return o
}

// ToggleSortOrder flips the sort direction.
func (store *Store) ToggleSortOrder(ctx context.Context) SortOptions {
	return store.SetSort(ctx, store.Sort().Toggle())
}

// CycleSortField moves to the next sort field.
func (store *Store) CycleSortField(ctx context.Context) SortOptions {
	return store.SetSort(ctx, store.Sort().NextField())
}

/*
UpdateBookProgress records chapter as the book's last chapter, read now.

A negative ratio keeps the previously stored ratio. Chapters below 1 are
ignored.
*/
func (store *Store) UpdateBookProgress(ctx context.Context, bookID string, chapter int, ratio float64) {
	if bookID == "" || chapter < 1 {
		return
	}

	store.mu.Lock()
	entry := store.progress[bookID]
	entry.BookID = bookID
	entry.LastChapter = chapter
	entry.LastReadDate = store.now().UTC()
	if ratio >= 0 {
		entry.ReadProgressRatio = clamp(ratio, 0, 1)
	}
	store.progress[bookID] = entry
	snapshot := maps.Clone(store.progress)
	store.mu.Unlock()

	kvstore.Set(ctx, store.kv, KeyProgress, snapshot)
}

// StartSession opens a reading session, replacing any live one. The
// session counts as read only once a chapter has been shown.
func (store *Store) StartSession(bookID string, chapter int) ReadingSession {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.session = ReadingSession{
		CurrentBookID:  pointer.To(bookID),
		CurrentChapter: pointer.To(chapter),
		StartTime:      pointer.To(store.now().UTC()),
	}
	store.sessionShown = false
	return store.session
}

// MoveSession repositions the live session without marking it read.
func (store *Store) MoveSession(chapter int) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.session.Active() {
		store.session.CurrentChapter = pointer.To(chapter)
	}
}

// SetSessionChapter moves the live session to a chapter that was shown.
func (store *Store) SetSessionChapter(chapter int) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.session.Active() {
		store.session.CurrentChapter = pointer.To(chapter)
		store.sessionShown = true
	}
}

// EndSession clears the live session. A session that showed a chapter is
// folded into the book's progress; one that never did leaves no trace.
func (store *Store) EndSession(ctx context.Context) ReadingSession {
	store.mu.Lock()
	ended, shown := store.session, store.sessionShown
	store.session = ReadingSession{}
	store.sessionShown = false
	store.mu.Unlock()

	if shown && ended.Active() && ended.CurrentChapter != nil {
		store.UpdateBookProgress(ctx, *ended.CurrentBookID, *ended.CurrentChapter, -1)
	}
	return ended
}
