// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session drives the reader view of one book.

The [Controller] is a state machine over (book, chapter):

	idle ──Open──▶ loading ──ok──▶ ready ──Step/GoTo──▶ loading
	                  │                                     │
	                  └──────────fail──▶ error ◀────────────┘

Every transition into loading issues a [Request] tagged with a generation.
Requests run off the UI goroutine through [Controller.Load]; [Controller.Apply]
drops any result whose generation is no longer current, so a slow response
from an earlier chapter never replaces a newer one.
*/
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/flute/internal/core/book"
	"github.com/taibuivan/flute/internal/reader/client"
	"github.com/taibuivan/flute/internal/reader/state"
)

// ErrNoChapters is reported for a book without chapters.
var ErrNoChapters = errors.New("this book has no chapters")

// Phase is the controller state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// Loader is the part of the API client a session uses.
type Loader interface {
	Book(ctx context.Context, id int64) (*book.Detail, error)
	Chapter(ctx context.Context, bookID int64, number int) (*book.ChapterView, error)
}

// Hooks are optional side effects of a successful chapter change.
type Hooks struct {
	// Navigate reflects the new position in the UI's location.
	Navigate func(bookID int64, chapter int)
	// Haptic gives tactile or audible feedback where supported.
	Haptic func()
}

// View is what the UI renders.
type View struct {
	Phase         Phase
	BookID        int64
	Title         string
	Chapter       int
	TotalChapters int
	Content       *book.ChapterView
	Err           error
	// NotFound marks errors for a missing book or chapter.
	NotFound bool
}

// Request is a pending load.
type Request struct {
	generation uint64
	BookID     int64
	Chapter    int
	// Total is the known chapter count, 0 when unknown.
	Total    int
	withMeta bool
	refresh  bool
}

// Result is the outcome of a Request.
type Result struct {
	Request Request
	Detail  *book.Detail
	Chapter int
	Total   int
	Content *book.ChapterView
	Err     error
}

// Controller runs the reader view. All methods except Load belong to the UI goroutine.
type Controller struct {
	loader Loader
	counts *ChapterCountCache
	store  *state.Store
	hooks  Hooks
	logger *slog.Logger

	generation uint64
	view       View
}

// NewController creates a new Controller.
func NewController(loader Loader, counts *ChapterCountCache, store *state.Store, hooks Hooks, logger *slog.Logger) *Controller {
	return &Controller{loader: loader, counts: counts, store: store, hooks: hooks, logger: logger}
}

// View returns the current view.
func (controller *Controller) View() View {
	return controller.view
}

// # Transitions

// Open starts a reading session at chapter (1 when below 1) and requests it.
func (controller *Controller) Open(bookID int64, chapter int) Request {
	chapter = max(chapter, 1)
	total, _ := controller.counts.Get(bookID)
	if total > 0 {
		chapter = min(chapter, total)
	}

	controller.store.StartSession(strconv.FormatInt(bookID, 10), chapter)
	controller.view = View{Phase: PhaseLoading, BookID: bookID, Chapter: chapter, TotalChapters: total}
	return controller.request(true)
}

// Step moves delta chapters, clamped to the book. It reports false when the
// position would not change or the book is not loaded yet.
func (controller *Controller) Step(delta int) (Request, bool) {
	return controller.GoTo(controller.view.Chapter + delta)
}

// GoTo moves to chapter, clamped to the book.
func (controller *Controller) GoTo(chapter int) (Request, bool) {
	view := &controller.view
	if view.Phase == PhaseIdle || view.TotalChapters == 0 {
		return Request{}, false
	}
	chapter = min(max(chapter, 1), view.TotalChapters)
	if chapter == view.Chapter && view.Phase != PhaseError {
		return Request{}, false
	}

	view.Chapter = chapter
	view.Phase = PhaseLoading
	view.Err = nil
	view.NotFound = false
	return controller.request(view.Title == ""), true
}

// Retry requests the current position again.
func (controller *Controller) Retry() (Request, bool) {
	if controller.view.Phase != PhaseError {
		return Request{}, false
	}
	controller.view.Phase = PhaseLoading
	controller.view.Err = nil
	controller.view.NotFound = false
	return controller.request(controller.view.Title == "" || controller.view.TotalChapters == 0), true
}

// Refresh requests the current chapter again, keeping the shown content
// until it arrives. Refreshes have no navigation side effects.
func (controller *Controller) Refresh() (Request, bool) {
	if controller.view.Phase != PhaseReady {
		return Request{}, false
	}
	controller.view.Phase = PhaseLoading
	req := controller.request(false)
	req.refresh = true
	return req, true
}

// DismissError clears the error. The last loaded chapter is shown again
// when there is one; otherwise the controller goes idle.
func (controller *Controller) DismissError() {
	view := &controller.view
	if view.Phase != PhaseError {
		return
	}
	view.Err = nil
	view.NotFound = false
	if view.Content == nil {
		view.Phase = PhaseIdle
		return
	}
	view.Phase = PhaseReady
	view.Chapter = view.Content.Chapter.ChapterNumber
}

// Close ends the session, folding it into the book's progress when a
// chapter was shown. In-flight requests are invalidated.
func (controller *Controller) Close(ctx context.Context) {
	controller.generation++
	controller.store.EndSession(ctx)
	controller.view = View{}
}

// RecordScroll saves how far into the current chapter the reader is, as a
// fraction in [0,1].
func (controller *Controller) RecordScroll(ctx context.Context, fraction float64) {
	view := controller.view
	if view.Phase != PhaseReady {
		return
	}
	controller.store.UpdateBookProgress(ctx, strconv.FormatInt(view.BookID, 10), view.Chapter, ratio(view.Chapter, view.TotalChapters, fraction))
}

func (controller *Controller) request(withMeta bool) Request {
	controller.generation++
	return Request{
		generation: controller.generation,
		BookID:     controller.view.BookID,
		Chapter:    controller.view.Chapter,
		Total:      controller.view.TotalChapters,
		withMeta:   withMeta,
	}
}

// # Loading

/*
Load fetches what req needs. It touches no controller state and may run on
any goroutine.

With a known chapter count the book metadata and the chapter are fetched
together. Otherwise the metadata comes first so the chapter can be clamped
to the book before it is requested.
*/
func (controller *Controller) Load(ctx context.Context, req Request) Result {
	result := Result{Request: req, Chapter: req.Chapter, Total: req.Total}
	if result.Total == 0 {
		if cached, ok := controller.counts.Get(req.BookID); ok {
			result.Total = cached
		}
	}

	if result.Total == 0 {
		detail, err := controller.loader.Book(ctx, req.BookID)
		if err != nil {
			result.Err = err
			return result
		}
		controller.counts.Set(req.BookID, detail.ChapterCount)
		result.Detail = detail
		result.Total = detail.ChapterCount
		if result.Total == 0 {
			result.Err = ErrNoChapters
			return result
		}
		result.Chapter = min(result.Chapter, result.Total)
		result.Content, result.Err = controller.loader.Chapter(ctx, req.BookID, result.Chapter)
		return result
	}

	group, groupCtx := errgroup.WithContext(ctx)
	if req.withMeta {
		group.Go(func() error {
			detail, err := controller.loader.Book(groupCtx, req.BookID)
			result.Detail = detail
			return err
		})
	}
	group.Go(func() error {
		content, err := controller.loader.Chapter(groupCtx, req.BookID, result.Chapter)
		result.Content = content
		return err
	})
	result.Err = group.Wait()
	return result
}

// Apply merges a finished load and reports whether it was current.
func (controller *Controller) Apply(ctx context.Context, result Result) bool {
	if result.Request.generation != controller.generation {
		controller.logger.DebugContext(ctx, "session_stale_result_dropped",
			slog.Int64("book_id", result.Request.BookID),
			slog.Int("chapter", result.Request.Chapter),
		)
		return false
	}

	view := &controller.view
	if result.Detail != nil {
		view.Title = result.Detail.Title
	}
	if result.Total > 0 {
		view.TotalChapters = result.Total
	}
	view.Chapter = result.Chapter

	if result.Err != nil {
		if result.Total > 0 {
			controller.store.MoveSession(view.Chapter)
		}
		view.Phase = PhaseError
		view.Err = result.Err
		view.NotFound = client.IsNotFound(result.Err)
		controller.logger.WarnContext(ctx, "session_load_failed",
			slog.Int64("book_id", result.Request.BookID),
			slog.Int("chapter", result.Chapter),
			slog.Any("error", result.Err),
		)
		return true
	}

	view.Phase = PhaseReady
	view.Content = result.Content
	if result.Request.refresh {
		return true
	}

	bookID := strconv.FormatInt(view.BookID, 10)
	controller.store.SetSessionChapter(view.Chapter)
	controller.store.UpdateBookProgress(ctx, bookID, view.Chapter, ratio(view.Chapter, view.TotalChapters, 0))
	if controller.hooks.Navigate != nil {
		controller.hooks.Navigate(view.BookID, view.Chapter)
	}
	if controller.hooks.Haptic != nil {
		controller.hooks.Haptic()
	}
	return true
}

// Location is the path of a chapter, as the web client shows it.
func Location(bookID int64, chapter int) string {
	return fmt.Sprintf("/books/%d/chapters/%d", bookID, chapter)
}

// ratio is the share of the book read at fraction of chapter.
func ratio(chapter, total int, fraction float64) float64 {
	if total <= 0 {
		return 0
	}
	fraction = min(max(fraction, 0), 1)
	return min((float64(chapter-1)+fraction)/float64(total), 1)
}
