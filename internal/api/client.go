// Package api talks to the remote task collection.
//
// The collection is scoped by a fixed user id:
//
//	GET    {base}/todos?userId={id}
//	POST   {base}/todos
//	PATCH  {base}/todos/{id}
//	DELETE {base}/todos/{id}
//
// Every call is single-shot: no retries, no timeout beyond the caller's context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"todos-cli/internal/logx"
	"todos-cli/internal/model"

	"github.com/google/uuid"
)

const contentType = "application/json; charset=UTF-8"

type Client struct {
	baseURL string
	userID  int
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient swaps the transport (tests use httptest servers' clients).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func NewClient(baseURL string, userID int, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api: missing base url")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("api: invalid base url: %w", err)
	}
	c := &Client{
		baseURL: baseURL,
		userID:  userID,
		http:    &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) UserID() int { return c.userID }

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	q := url.Values{}
	q.Set("userId", strconv.Itoa(c.userID))
	var out []model.Task
	if err := c.do(ctx, "list", http.MethodGet, "/todos?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Task{}
	}
	return out, nil
}

type createRequest struct {
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Create posts a new task. Callers reject blank titles before calling.
func (c *Client) Create(ctx context.Context, title string) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, "create", http.MethodPost, "/todos", createRequest{
		UserID: c.userID,
		Title:  title,
	}, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, id int, patch model.TaskPatch) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, "update", http.MethodPatch, "/todos/"+strconv.Itoa(id), patch, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, "delete", http.MethodDelete, "/todos/"+strconv.Itoa(id), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &RequestFailedError{Op: op, Err: err}
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return &RequestFailedError{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logx.L().Debug("api request failed", "op", op, "method", method, "path", path, "requestId", reqID, "err", err, "dur", time.Since(start))
		return &RequestFailedError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	logx.L().Debug("api request", "op", op, "method", method, "path", path, "requestId", reqID, "status", resp.StatusCode, "dur", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &RequestFailedError{Op: op, Status: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestFailedError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
