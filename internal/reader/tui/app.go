// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tui is the terminal front end of the reader: a library list and a
chapter view on top of the catalog pager and the session controller.

Network calls run as Bubble Tea commands. Debounced events (chapter steps,
scroll saves) fire on timer goroutines and come back into the program as
messages, so the pager and the controller are only touched by Update.
*/
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taibuivan/flute/internal/core/language"
	"github.com/taibuivan/flute/internal/core/term"
	"github.com/taibuivan/flute/internal/reader/catalog"
	"github.com/taibuivan/flute/internal/reader/client"
	"github.com/taibuivan/flute/internal/reader/session"
	"github.com/taibuivan/flute/internal/reader/state"
)

// Debounce delays.
const (
	DefaultStepDelay = 150 * time.Millisecond
	DefaultSaveDelay = 500 * time.Millisecond
)

const (
	fontSizeStep    = 1
	lineSpacingStep = 0.25
)

// API is the part of the client the terminal reader uses.
type API interface {
	catalog.Source
	session.Loader
	Languages(ctx context.Context, withBooks bool) ([]language.Summary, error)
	CreateTerm(ctx context.Context, input term.CreateInput) (int64, error)
	UpdateTerm(ctx context.Context, id int64, input term.UpdateInput) error
}

// Options configures the program. Zero values select defaults.
type Options struct {
	API      API
	Store    *state.Store
	Counts   *session.ChapterCountCache
	Logger   *slog.Logger
	PageSize int

	StepDelay time.Duration
	SaveDelay time.Duration
}

type screen int

const (
	screenLibrary screen = iota
	screenReader
)

// # Messages

type languagesLoadedMsg struct {
	languages []language.Summary
}

type pageLoadedMsg struct {
	pager  *catalog.Pager
	result catalog.Result
}

type chapterLoadedMsg struct {
	result session.Result
}

// stepMsg is a debounced chapter change.
type stepMsg struct {
	delta int
}

// scrollMsg is a debounced scroll position save for the chapter it was
// measured in.
type scrollMsg struct {
	bookID   int64
	chapter  int
	fraction float64
}

type termSavedMsg struct {
	display string
	status  term.Status
}

type errMsg struct {
	err error
}

// sender forwards messages from timer goroutines into the running program.
type sender struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (s *sender) set(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

func (s *sender) Send(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// location is the current reader path, kept up to date by the session hook.
type location struct {
	mu   sync.Mutex
	path string
}

func (l *location) set(bookID int64, chapter int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.path = session.Location(bookID, chapter)
}

func (l *location) get() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// # Root model

type model struct {
	ctx        context.Context
	api        API
	store      *state.Store
	counts     *session.ChapterCountCache
	controller *session.Controller
	logger     *slog.Logger
	pageSize   int

	sender   *sender
	location *location
	stepper  *session.Debouncer
	settings *session.Debouncer
	scroll   *session.Debouncer
	swipe    *session.SwipeDetector

	screen    screen
	library   libraryModel
	reader    readerModel
	statusBar statusBar

	width  int
	height int
}

func newModel(ctx context.Context, opts Options) model {
	if opts.Counts == nil {
		opts.Counts = session.NewChapterCountCache()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = catalog.DefaultPageSize
	}
	if opts.StepDelay <= 0 {
		opts.StepDelay = DefaultStepDelay
	}
	if opts.SaveDelay <= 0 {
		opts.SaveDelay = DefaultSaveDelay
	}

	loc := &location{}
	hooks := session.Hooks{Navigate: loc.set}

	return model{
		ctx:        ctx,
		api:        opts.API,
		store:      opts.Store,
		counts:     opts.Counts,
		controller: session.NewController(opts.API, opts.Counts, opts.Store, hooks, opts.Logger),
		logger:     opts.Logger,
		pageSize:   opts.PageSize,
		sender:     &sender{},
		location:   loc,
		stepper:    session.NewDebouncer(opts.StepDelay),
		settings:   session.NewDebouncer(opts.SaveDelay),
		scroll:     session.NewDebouncer(opts.SaveDelay),
		swipe:      session.NewSwipeDetector(),
		library:    newLibrary(opts.Store),
		reader:     newReader(),
		statusBar:  newStatusBar(),
	}
}

func (m model) Init() tea.Cmd {
	return m.loadLanguagesCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.width = msg.Width
		m.resize()
		return m, nil

	// # Async results

	case languagesLoadedMsg:
		m.library.languages = msg.languages
		if len(msg.languages) == 0 {
			m.statusBar.setMessage("No books yet")
			return m, nil
		}
		cmd := m.selectLanguage(0)
		return m, cmd

	case pageLoadedMsg:
		if msg.pager != m.library.pager || !m.library.pager.Apply(msg.result) {
			return m, nil
		}
		if err := msg.result.Err; err != nil {
			m.statusBar.setError("Could not load books: " + userMessage(err))
			return m, nil
		}
		m.library.clampCursor()
		m.statusBar.setMessage(fmt.Sprintf("%d books", len(m.library.books())))
		cmd := m.loadMoreCmd()
		return m, cmd

	case chapterLoadedMsg:
		if !m.controller.Apply(m.ctx, msg.result) {
			return m, nil
		}
		m.showChapter()
		return m, nil

	case stepMsg:
		if m.screen != screenReader {
			return m, nil
		}
		req, ok := m.controller.Step(msg.delta)
		if !ok {
			return m, nil
		}
		m.statusBar.failed = false
		m.statusBar.setMessage(fmt.Sprintf("Loading chapter %d…", req.Chapter))
		return m, m.loadChapterCmd(req)

	case scrollMsg:
		view := m.controller.View()
		if view.BookID != msg.bookID || view.Chapter != msg.chapter {
			return m, nil
		}
		m.controller.RecordScroll(m.ctx, msg.fraction)
		return m, nil

	case termSavedMsg:
		m.statusBar.setMessage(fmt.Sprintf("%s marked %s", msg.display, msg.status))
		if req, ok := m.controller.Refresh(); ok {
			return m, m.loadChapterCmd(req)
		}
		return m, nil

	case errMsg:
		m.logger.WarnContext(m.ctx, "reader_request_failed", slog.Any("error", msg.err))
		m.statusBar.setError("Error: " + userMessage(msg.err))
		return m, nil

	// # Input

	case tea.MouseMsg:
		if m.screen == screenReader {
			return m.updateReaderMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.shutdown()
			return m, tea.Quit
		}
		if m.screen == screenReader {
			return m.updateReader(msg)
		}
		return m.updateLibrary(msg)
	}

	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	if m.screen == screenReader {
		content = m.reader.View(m.controller.View())
	} else {
		content = m.library.View()
	}

	frame := frameStyle.
		Width(m.width - 2).
		Height(m.height - 3).
		Render(content)

	bar := m.statusBar
	bar.location = m.location.get()
	return frame + "\n" + bar.View()
}

// Inner size of the frame: border and padding take 4 columns and 2 rows,
// and the status bar one more row.
func (m *model) resize() {
	w := max(m.width-4, 1)
	h := max(m.height-3, 1)
	m.library.setSize(w, h)
	m.reader.setSize(w, h)
	if m.screen == screenReader {
		m.reader.render(m.controller.View(), m.store.Settings())
	}
}

// # Library

func (m model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		m.library.move(-1)

	case key.Matches(msg, keys.Down):
		m.library.move(1)
		cmd := m.loadMoreCmd()
		return m, cmd

	case key.Matches(msg, keys.Open):
		if selected, ok := m.library.selected(); ok {
			return m.openBook(selected)
		}

	case key.Matches(msg, keys.Sort):
		sort := m.store.CycleSortField(m.ctx)
		m.statusBar.setMessage("Sorted by " + sortLabels[sort.Field])
		cmd := m.resetLibrary()
		return m, cmd

	case key.Matches(msg, keys.Order):
		sort := m.store.ToggleSortOrder(m.ctx)
		m.statusBar.setMessage("Order " + string(sort.Order))
		cmd := m.resetLibrary()
		return m, cmd

	case key.Matches(msg, keys.Language):
		if len(m.library.languages) > 1 {
			cmd := m.selectLanguage((m.library.langIndex + 1) % len(m.library.languages))
			return m, cmd
		}

	case key.Matches(msg, keys.Reload):
		m.counts.ClearAll()
		if m.library.pager == nil {
			return m, m.loadLanguagesCmd()
		}
		m.statusBar.setMessage("Reloading…")
		cmd := m.resetLibrary()
		return m, cmd
	}
	return m, nil
}

// selectLanguage switches the library to the i-th language.
func (m *model) selectLanguage(i int) tea.Cmd {
	m.library.langIndex = i
	lang, _ := m.library.language()
	m.library.pager = catalog.NewPager(catalog.NewFetcher(m.api, lang.ID), m.pageSize, catalog.DefaultScrollThreshold)
	m.statusBar.setMessage("Loading " + lang.Name + "…")
	return m.resetLibrary()
}

func (m *model) resetLibrary() tea.Cmd {
	if m.library.pager == nil {
		return nil
	}
	m.library.cursor = 0
	m.library.offset = 0
	return m.loadPageCmd(m.library.pager.Reset(m.store.Sort()))
}

// loadMoreCmd asks for the next page when the cursor nears the end.
func (m *model) loadMoreCmd() tea.Cmd {
	pager := m.library.pager
	if pager == nil || !pager.NearEnd(m.library.cursor) {
		return nil
	}
	req, ok := pager.More()
	if !ok {
		return nil
	}
	return m.loadPageCmd(req)
}

// openBook starts a session at the saved chapter, falling back to the
// server's last visited chapter.
func (m model) openBook(selected catalog.Book) (tea.Model, tea.Cmd) {
	bookID, err := strconv.ParseInt(selected.ID, 10, 64)
	if err != nil {
		m.statusBar.setError("Invalid book id " + selected.ID)
		return m, nil
	}

	chapter, restore := selected.LastVisitedChapter, -1.0
	if progress, ok := m.store.Progress(selected.ID); ok {
		chapter, restore = progress.LastChapter, progress.ReadProgressRatio
	}

	m.screen = screenReader
	m.statusBar.reading = true
	m.statusBar.failed = false
	m.statusBar.setMessage("Opening " + selected.Title + "…")
	m.reader.reset(restore)
	return m, m.loadChapterCmd(m.controller.Open(bookID, chapter))
}

// # Reader

func (m model) updateReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.closeReader()
		return m, nil

	case key.Matches(msg, keys.Retry):
		req, ok := m.controller.Retry()
		if !ok {
			return m, nil
		}
		m.statusBar.failed = false
		m.statusBar.setMessage("Retrying…")
		return m, m.loadChapterCmd(req)

	case key.Matches(msg, keys.Dismiss):
		m.controller.DismissError()
		m.statusBar.failed = false
		if m.controller.View().Phase == session.PhaseIdle {
			m.closeReader()
			return m, nil
		}
		m.statusBar.setMessage("Ready")
		return m, nil

	case key.Matches(msg, keys.PrevChapter):
		m.step(-1)
		return m, nil

	case key.Matches(msg, keys.NextChapter):
		m.step(1)
		return m, nil

	case key.Matches(msg, keys.FontUp):
		m.adjust(m.store.AdjustFontSize(fontSizeStep))
		return m, nil

	case key.Matches(msg, keys.FontDown):
		m.adjust(m.store.AdjustFontSize(-fontSizeStep))
		return m, nil

	case key.Matches(msg, keys.SpacingUp):
		m.adjust(m.store.AdjustLineSpacing(lineSpacingStep))
		return m, nil

	case key.Matches(msg, keys.SpacingDown):
		m.adjust(m.store.AdjustLineSpacing(-lineSpacingStep))
		return m, nil

	case key.Matches(msg, keys.NextWord):
		if m.reader.moveCursor(1) {
			m.reader.render(m.controller.View(), m.store.Settings())
		}
		return m, nil

	case key.Matches(msg, keys.PrevWord):
		if m.reader.moveCursor(-1) {
			m.reader.render(m.controller.View(), m.store.Settings())
		}
		return m, nil

	case key.Matches(msg, keys.MarkLearn):
		cmd := m.markCmd(term.StatusLearning)
		return m, cmd

	case key.Matches(msg, keys.MarkKnown):
		cmd := m.markCmd(term.StatusKnown)
		return m, cmd

	case key.Matches(msg, keys.MarkIgnore):
		cmd := m.markCmd(term.StatusIgnore)
		return m, cmd
	}

	return m.scrollReader(msg)
}

func (m model) updateReaderMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	point := session.Point{X: msg.X, Y: msg.Y}
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.swipe.Begin(point, time.Now())
		return m, nil
	case msg.Action == tea.MouseActionRelease:
		if delta, ok := m.swipe.End(point, time.Now()); ok {
			m.step(delta)
		}
		return m, nil
	}
	return m.scrollReader(msg)
}

// scrollReader hands msg to the viewport and schedules a progress save
// when the position moved.
func (m model) scrollReader(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.reader.viewport.YOffset
	var cmd tea.Cmd
	m.reader.viewport, cmd = m.reader.viewport.Update(msg)
	if m.reader.viewport.YOffset != before {
		saved := scrollMsg{bookID: m.reader.bookID, chapter: m.reader.chapter, fraction: m.reader.scrollFraction()}
		send := m.sender
		m.scroll.Trigger(func() { send.Send(saved) })
	}
	return m, cmd
}

// step schedules a chapter change. A burst of steps collapses into the
// last one, so a repeated key or gesture moves a single chapter.
func (m *model) step(delta int) {
	send := m.sender
	m.stepper.Trigger(func() { send.Send(stepMsg{delta: delta}) })
}

// adjust re-renders with new settings and saves them once adjusting stops.
func (m *model) adjust(settings state.Settings) {
	m.reader.render(m.controller.View(), settings)
	m.statusBar.setMessage(fmt.Sprintf("Size %.0f · spacing %.2f", settings.FontSize, settings.LineSpacing))

	store, ctx := m.store, m.ctx
	m.settings.Trigger(func() { store.SaveSettings(ctx) })
}

func (m *model) showChapter() {
	view := m.controller.View()
	if view.Phase == session.PhaseError {
		m.statusBar.failed = true
		m.statusBar.setError(describeError(view))
		return
	}
	if view.Phase != session.PhaseReady {
		return
	}
	m.statusBar.failed = false
	if m.reader.show(view, m.store.Settings()) {
		m.statusBar.setMessage(fmt.Sprintf("Chapter %d of %d", view.Chapter, view.TotalChapters))
	}
}

// closeReader saves the scroll position, ends the session and returns to
// the library.
func (m *model) closeReader() {
	m.stepper.Stop()
	m.scroll.Stop()
	m.controller.RecordScroll(m.ctx, m.reader.scrollFraction())
	m.controller.Close(m.ctx)

	m.screen = screenLibrary
	m.statusBar.reading = false
	m.statusBar.failed = false
	m.statusBar.setMessage("Ready")
}

func (m *model) shutdown() {
	if m.screen == screenReader {
		m.closeReader()
	}
	m.stepper.Stop()
	m.scroll.Stop()
	m.settings.Flush()
}

// # Commands

func (m model) loadLanguagesCmd() tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		languages, err := api.Languages(ctx, true)
		if err != nil {
			return errMsg{err: fmt.Errorf("load languages: %w", err)}
		}
		return languagesLoadedMsg{languages: languages}
	}
}

func (m model) loadPageCmd(req catalog.Request) tea.Cmd {
	pager, ctx := m.library.pager, m.ctx
	return func() tea.Msg {
		return pageLoadedMsg{pager: pager, result: pager.Load(ctx, req)}
	}
}

func (m model) loadChapterCmd(req session.Request) tea.Cmd {
	controller, ctx := m.controller, m.ctx
	return func() tea.Msg {
		return chapterLoadedMsg{result: controller.Load(ctx, req)}
	}
}

/*
markCmd sets the status of the word under the cursor. A word inside a
highlight updates that term; any other word becomes a new term of the
library's language.
*/
func (m *model) markCmd(status term.Status) tea.Cmd {
	view := m.controller.View()
	selected, ok := m.reader.selectedWord()
	if view.Content == nil || !ok {
		m.statusBar.setMessage("Select a word with w first")
		return nil
	}
	lang, _ := m.library.language()
	api, ctx := m.api, m.ctx

	if found, ok := highlightAt(view.Content.TermHighlights, selected.start); ok {
		return func() tea.Msg {
			if err := api.UpdateTerm(ctx, found.TermID, term.UpdateInput{Status: status}); err != nil {
				return errMsg{err: fmt.Errorf("update term: %w", err)}
			}
			return termSavedMsg{display: found.Display, status: status}
		}
	}
	return func() tea.Msg {
		input := term.CreateInput{Term: selected.text, LanguageID: lang.ID, UpdateInput: term.UpdateInput{Status: status}}
		if _, err := api.CreateTerm(ctx, input); err != nil {
			return errMsg{err: fmt.Errorf("create term: %w", err)}
		}
		return termSavedMsg{display: selected.text, status: status}
	}
}

// # Errors

func describeError(view session.View) string {
	if view.Err == nil {
		return ""
	}
	if view.NotFound {
		return "Not found: " + userMessage(view.Err) + ". Press esc to go back to the library."
	}
	return "Could not load chapter: " + userMessage(view.Err)
}

// userMessage prefers the API's message over the full error text.
func userMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// # Program

// Run starts the terminal reader and blocks until it exits. Any open
// session is folded into progress and settings are saved on the way out.
func Run(ctx context.Context, opts Options) error {
	m := newModel(ctx, opts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	m.sender.set(program.Send)

	_, err := program.Run()

	cleanup := context.WithoutCancel(ctx)
	opts.Store.EndSession(cleanup)
	opts.Store.SaveSettings(cleanup)

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
