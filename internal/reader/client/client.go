// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package client is the reader's HTTP client for the Flute API.

Every non-2xx response is returned as an [*APIError] carrying the server's
{"error", "msg"} body. Transport failures are returned wrapped. Nothing is
retried: a failed call is reported once and left to the caller.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/flute/internal/core/book"
	"github.com/taibuivan/flute/internal/core/language"
	"github.com/taibuivan/flute/internal/core/term"
	"github.com/taibuivan/flute/internal/platform/constants"
	"github.com/taibuivan/flute/pkg/pointer"
	"github.com/taibuivan/flute/pkg/query"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// APIError is a non-2xx response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client calls the Flute API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	token   string
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) { client.http = httpClient }
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(client *Client) { client.token = token }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) { client.logger = logger }
}

// New creates a Client for the API rooted at baseURL, e.g. http://localhost:8080/api.
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: invalid base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: base url %q must be http or https", baseURL)
	}

	client := &Client{
		baseURL: parsed,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// # Endpoints

// Health checks GET /health.
func (client *Client) Health(ctx context.Context) error {
	return client.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// Languages lists languages, only those with books when withBooks is set.
func (client *Client) Languages(ctx context.Context, withBooks bool) ([]language.Summary, error) {
	var result language.ListResult
	q := query.New()
	if withBooks {
		q.Bool("with_books", pointer.To(true))
	}
	if err := client.do(ctx, http.MethodGet, "/languages", q.Values(), nil, &result); err != nil {
		return nil, err
	}
	return result.Languages, nil
}

// CreateBook uploads a book and returns its id.
func (client *Client) CreateBook(ctx context.Context, input book.CreateInput) (int64, error) {
	var result book.CreateResult
	if err := client.do(ctx, http.MethodPost, "/books", nil, input, &result); err != nil {
		return 0, err
	}
	return result.BookID, nil
}

// SummaryQuery selects a page of book summaries. Zero values are left out.
type SummaryQuery struct {
	LanguageID int64
	SortOption string
	SortOrder  string
	Page       int
	PerPage    int
}

// BookSummaries fetches a page of the library.
func (client *Client) BookSummaries(ctx context.Context, q SummaryQuery) ([]book.Summary, error) {
	params := query.New().
		Int64("language_id", q.LanguageID).
		String("sort_option", q.SortOption).
		String("sort_order", q.SortOrder).
		Int("page", q.Page).
		Int("per_page", q.PerPage)

	var result book.SummariesResult
	if err := client.do(ctx, http.MethodGet, "/books", params.Values(), nil, &result); err != nil {
		return nil, err
	}
	return result.Summaries, nil
}

// Book fetches a book's metadata and chapter count.
func (client *Client) Book(ctx context.Context, id int64) (*book.Detail, error) {
	var detail book.Detail
	if err := client.do(ctx, http.MethodGet, "/books/"+strconv.FormatInt(id, 10), nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ChapterCount returns the number of chapters of a book.
func (client *Client) ChapterCount(ctx context.Context, id int64) (int, error) {
	detail, err := client.Book(ctx, id)
	if err != nil {
		return 0, err
	}
	return detail.ChapterCount, nil
}

// Chapter fetches a chapter with its term highlights.
func (client *Client) Chapter(ctx context.Context, bookID int64, number int) (*book.ChapterView, error) {
	path := fmt.Sprintf("/books/%d/chapters/%d", bookID, number)
	var view book.ChapterView
	if err := client.do(ctx, http.MethodGet, path, nil, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// CreateTerm creates or updates a term with progress and returns its id.
func (client *Client) CreateTerm(ctx context.Context, input term.CreateInput) (int64, error) {
	var result term.CreateResult
	if err := client.do(ctx, http.MethodPost, "/terms", nil, input, &result); err != nil {
		return 0, err
	}
	return result.TermID, nil
}

// UpdateTerm records new progress for a term.
func (client *Client) UpdateTerm(ctx context.Context, id int64, input term.UpdateInput) error {
	return client.do(ctx, http.MethodPatch, "/terms/"+strconv.FormatInt(id, 10), nil, input, nil)
}

// # Transport

func (client *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	target := client.baseURL.JoinPath(path)
	target.RawQuery = params.Encode()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("client: build %s %s: %w", method, path, err)
	}
	request.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	if body != nil {
		request.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	if client.token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+client.token)
	}

	start := time.Now()
	response, err := client.http.Do(request)
	if err != nil {
		client.logger.WarnContext(ctx, "api_request_failed", slog.String("method", method), slog.String("path", path), slog.Any("error", err))
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	client.logger.DebugContext(ctx, "api_request_finished",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", response.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return decodeError(response)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError reads an error envelope, falling back to the status text.
func decodeError(response *http.Response) error {
	apiErr := &APIError{Status: response.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(response.Body, 64<<10))
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Code == "" {
		apiErr.Code = http.StatusText(response.StatusCode)
	}
	if apiErr.Message == "" {
		apiErr.Message = apiErr.Code
	}
	return apiErr
}
