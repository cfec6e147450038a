// Package notion is a minimal Notion API client covering the surface the
// sync needs: database queries, page create and update, and user listing.
// Calls are throttled to the API rate limit and transient failures are
// retried with a fixed delay.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com"
	apiVersion     = "2022-06-28"
)

// Config holds connection settings for the Notion API.
type Config struct {
	Token           string
	BaseURL         string
	Version         string
	MinCallInterval time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
}

// Client provides access to the Notion API operations used by the sync.
type Client interface {
	// QueryDatabase returns the pages of a database matching the filter.
	QueryDatabase(ctx context.Context, databaseID string, filter *Filter) ([]Page, error)

	// CreatePage creates a page in the given database.
	CreatePage(ctx context.Context, databaseID string, props Properties) (*Page, error)

	// UpdatePage patches the properties of an existing page.
	UpdatePage(ctx context.Context, pageID string, props Properties) (*Page, error)

	// ListUsers returns all workspace users.
	ListUsers(ctx context.Context) ([]User, error)
}

type httpClient struct {
	cfg      Config
	http     *http.Client
	limiter  *throttle
	observer Observer
}

// NewClient creates a Client that talks to the Notion REST API.
func NewClient(cfg Config, observer Observer) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Version == "" {
		cfg.Version = apiVersion
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:  newThrottle(cfg.MinCallInterval),
		observer: observer,
	}
}

type queryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

func (c *httpClient) QueryDatabase(ctx context.Context, databaseID string, filter *Filter) ([]Page, error) {
	path := "/v1/databases/" + databaseID + "/query"

	var pages []Page
	cursor := ""
	for {
		body := queryRequest{Filter: filter, StartCursor: cursor, PageSize: 100}
		var resp queryResponse
		if err := c.call(ctx, http.MethodPost, path, body, &resp); err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil {
			return pages, nil
		}
		cursor = *resp.NextCursor
	}
}

type createPageRequest struct {
	Parent     pageParent `json:"parent"`
	Properties Properties `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

func (c *httpClient) CreatePage(ctx context.Context, databaseID string, props Properties) (*Page, error) {
	body := createPageRequest{
		Parent:     pageParent{DatabaseID: databaseID},
		Properties: props,
	}
	var page Page
	if err := c.call(ctx, http.MethodPost, "/v1/pages", body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

type updatePageRequest struct {
	Properties Properties `json:"properties"`
}

func (c *httpClient) UpdatePage(ctx context.Context, pageID string, props Properties) (*Page, error) {
	body := updatePageRequest{Properties: props}
	var page Page
	if err := c.call(ctx, http.MethodPatch, "/v1/pages/"+pageID, body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

type usersResponse struct {
	Results    []User  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

func (c *httpClient) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	path := "/v1/users"
	for {
		var resp usersResponse
		if err := c.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}
		users = append(users, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil {
			return users, nil
		}
		path = "/v1/users?start_cursor=" + *resp.NextCursor
	}
}

// call performs one API operation with throttling and retries. Transient
// failures (429, 5xx, transport errors) are retried; structural failures
// surface immediately.
func (c *httpClient) call(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	attemptCount := 0
	lastStatus := 0

	err := Do(ctx, Policy{
		MaxAttempts: 1 + c.cfg.MaxRetries,
		Delay:       c.cfg.RetryDelay,
		Retryable: func(err error) bool {
			return IsTransient(err) || isTransportError(err)
		},
	}, func() error {
		attemptCount++
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		status, err := c.doRequest(ctx, method, path, body, out)
		lastStatus = status
		return err
	})

	c.observer.OnCallComplete(APICallEvent{
		Method:    method,
		Path:      path,
		Status:    lastStatus,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attemptCount,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *httpClient) doRequest(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Notion-Version", c.cfg.Version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, statusError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// apiError is the JSON error body the Notion API returns alongside non-200
// statuses.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func statusError(status int, body []byte) error {
	var detail apiError
	_ = json.Unmarshal(body, &detail)
	msg := detail.Message
	if msg == "" {
		msg = string(body)
	}

	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrObjectNotFound, msg)
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, msg)
	case status >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrServerError, status, msg)
	default:
		return fmt.Errorf("notion returned status %d: %s", status, msg)
	}
}

func isTransportError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Anything without a sentinel mapping came from the transport or the
	// decoder; the transport kind is worth another attempt.
	return !IsStructural(err) && !IsTransient(err) &&
		!errors.Is(err, ErrRetryExhausted)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrObjectNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidRequest):
		return "INVALID_REQUEST"
	case errors.Is(err, ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, ErrServerError):
		return "SERVER_ERROR"
	default:
		return "UNKNOWN"
	}
}
