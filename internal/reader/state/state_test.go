// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package state_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/flute/internal/reader/kvstore"
	"github.com/taibuivan/flute/internal/reader/state"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func fixedClock(at time.Time) state.Option {
	return state.WithClock(func() time.Time { return at })
}

func load(t *testing.T, backend kvstore.Backend, opts ...state.Option) *state.Store {
	t.Helper()
	return state.Load(context.Background(), kvstore.New(backend, discard), discard, opts...)
}

// # Settings

/*
TestSettings_RoundTrip writes settings and reads them through a fresh store.
*/
func TestSettings_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := kvstore.NewMemoryBackend()

	load(t, backend).SetSettings(ctx, state.Settings{FontSize: 20, LineSpacing: 2.25})

	assert.Equal(t, state.Settings{FontSize: 20, LineSpacing: 2.25}, load(t, backend).Settings())
}

/*
TestSettings_InvalidFallsBack verifies every corrupt or out-of-range value
loads as exactly the defaults.
*/
func TestSettings_InvalidFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"font size too large", `{"fontSize": 100}`},
		{"font size too small with spacing", `{"fontSize": 4, "lineSpacing": 1.5}`},
		{"spacing too large", `{"fontSize": 16, "lineSpacing": 3}`},
		{"malformed json", `{"fontSize": `},
		{"wrong type", `{"fontSize": "big", "lineSpacing": 1.5}`},
		{"not an object", `"16"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backend := kvstore.NewMemoryBackend()
			require.NoError(t, backend.Save(context.Background(), state.KeySettings, tc.stored))

			assert.Equal(t, state.Settings{FontSize: 16, LineSpacing: 1.5}, load(t, backend).Settings())
		})
	}
}

func TestSettings_Clamp(t *testing.T) {
	assert.Equal(t, state.Settings{FontSize: 24, LineSpacing: 1.0}, state.Settings{FontSize: 100, LineSpacing: 0}.Clamp())
	assert.Equal(t, state.Settings{FontSize: 12, LineSpacing: 2.5}, state.Settings{FontSize: math.NaN(), LineSpacing: 9}.Clamp())

	store := load(t, kvstore.NewMemoryBackend())
	for range 20 {
		store.AdjustFontSize(1)
	}
	assert.Equal(t, float64(state.MaxFontSize), store.Settings().FontSize)
	assert.Equal(t, state.DefaultLineSpacing, store.Settings().LineSpacing)
}

// # Progress

/*
TestUpdateBookProgress_KeepsLatest records two chapters for one book and
checks another book is untouched.
*/
func TestUpdateBookProgress_KeepsLatest(t *testing.T) {
	ctx := context.Background()
	backend := kvstore.NewMemoryBackend()
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	store := load(t, backend, fixedClock(day))
	store.UpdateBookProgress(ctx, "7", 2, 0.25)
	store.UpdateBookProgress(ctx, "8", 4, 0.5)
	store.UpdateBookProgress(ctx, "7", 5, -1)

	fresh := load(t, backend)
	seven, ok := fresh.Progress("7")
	require.True(t, ok)
	assert.Equal(t, state.BookProgress{BookID: "7", LastChapter: 5, LastReadDate: day, ReadProgressRatio: 0.25}, seven)

	eight, ok := fresh.Progress("8")
	require.True(t, ok)
	assert.Equal(t, 4, eight.LastChapter)
	assert.Len(t, fresh.AllProgress(), 2)
}

func TestUpdateBookProgress_IgnoresInvalid(t *testing.T) {
	store := load(t, kvstore.NewMemoryBackend())
	store.UpdateBookProgress(context.Background(), "", 1, 0)
	store.UpdateBookProgress(context.Background(), "3", 0, 0)
	assert.Empty(t, store.AllProgress())
}

func TestProgress_DropsInvalidEntries(t *testing.T) {
	backend := kvstore.NewMemoryBackend()
	require.NoError(t, backend.Save(context.Background(), state.KeyProgress, `{
		"1": {"bookId": "1", "lastChapter": 3, "lastReadDate": "2026-01-02T03:04:05Z", "readProgressRatio": 0.5},
		"2": {"bookId": "2", "lastChapter": 0, "lastReadDate": "2026-01-02T03:04:05Z", "readProgressRatio": 0.5},
		"3": {"bookId": "3", "lastChapter": 1, "lastReadDate": "2026-01-02T03:04:05Z", "readProgressRatio": 1.5},
		"4": {"bookId": "5", "lastChapter": 1, "lastReadDate": "2026-01-02T03:04:05Z", "readProgressRatio": 0}
	}`))

	progress := load(t, backend).AllProgress()
	assert.Len(t, progress, 1)
	assert.Contains(t, progress, "1")
}

func TestProgress_CorruptMapIsEmpty(t *testing.T) {
	backend := kvstore.NewMemoryBackend()
	require.NoError(t, backend.Save(context.Background(), state.KeyProgress, `[1, 2, 3]`))
	assert.Empty(t, load(t, backend).AllProgress())
}

// # Session

/*
TestSession_FoldsIntoProgress starts a session, moves through it and ends it.
*/
func TestSession_FoldsIntoProgress(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 5, 4, 20, 0, 0, 0, time.UTC)
	store := load(t, kvstore.NewMemoryBackend(), fixedClock(start))

	assert.False(t, store.Session().Active())

	session := store.StartSession("12", 1)
	require.True(t, session.Active())
	assert.Equal(t, start, *session.StartTime)

	store.SetSessionChapter(3)
	assert.Equal(t, 3, *store.Session().CurrentChapter)

	ended := store.EndSession(ctx)
	assert.Equal(t, "12", *ended.CurrentBookID)
	assert.False(t, store.Session().Active())

	progress, ok := store.Progress("12")
	require.True(t, ok)
	assert.Equal(t, 3, progress.LastChapter)
}

func TestEndSession_NothingShown(t *testing.T) {
	store := load(t, kvstore.NewMemoryBackend())
	store.StartSession("12", 40)
	store.MoveSession(5)
	assert.Equal(t, 5, *store.Session().CurrentChapter)

	ended := store.EndSession(context.Background())
	assert.True(t, ended.Active())
	assert.Empty(t, store.AllProgress())
}

func TestEndSession_WithoutSession(t *testing.T) {
	store := load(t, kvstore.NewMemoryBackend())
	ended := store.EndSession(context.Background())
	assert.False(t, ended.Active())
	assert.Empty(t, store.AllProgress())
}

// # Sorting

func TestSort_ToggleTwiceRestores(t *testing.T) {
	for _, field := range state.SortFields {
		for _, order := range []state.SortOrder{state.OrderAsc, state.OrderDesc} {
			o := state.SortOptions{Field: field, Order: order}
			assert.NotEqual(t, o, o.Toggle())
			assert.Equal(t, o, o.Toggle().Toggle())
		}
	}
}

func TestSort_PersistedAndValidated(t *testing.T) {
	ctx := context.Background()
	backend := kvstore.NewMemoryBackend()

	store := load(t, backend)
	assert.Equal(t, state.DefaultSortOptions(), store.Sort())

	store.CycleSortField(ctx)
	store.ToggleSortOrder(ctx)
	want := state.SortOptions{Field: state.SortAlphabetical, Order: state.OrderAsc}
	assert.Equal(t, want, load(t, backend).Sort())

	// Unknown values are ignored on write and on load.
	assert.Equal(t, want, store.SetSort(ctx, state.SortOptions{Field: "rating", Order: state.OrderAsc}))
	require.NoError(t, backend.Save(ctx, state.KeySort, `{"field": "rating", "order": "asc"}`))
	assert.Equal(t, state.DefaultSortOptions(), load(t, backend).Sort())
}

func TestSort_CycleVisitsEveryField(t *testing.T) {
	o := state.DefaultSortOptions()
	seen := map[state.SortField]bool{}
	for range state.SortFields {
		seen[o.Field] = true
		o = o.NextField()
	}
	assert.Len(t, seen, len(state.SortFields))
	assert.Equal(t, state.DefaultSortOptions(), o)
}
