package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"todos-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method      string
	Path        string
	Query       string
	Body        string
	ContentType string
	RequestID   string
}

type recorder struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (r *recorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.reqs...)
}

func newRecordingServer(t *testing.T, status int, respBody string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.reqs = append(rec.reqs, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			Body:        string(b),
			ContentType: r.Header.Get("Content-Type"),
			RequestID:   r.Header.Get("X-Request-Id"),
		})
		rec.mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(srv.URL+"/", 42, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestClient_List(t *testing.T) {
	t.Parallel()
	srv, got := newRecordingServer(t, http.StatusOK, `[{"id":1,"userId":42,"title":"A","completed":false},{"id":2,"userId":42,"title":"B","completed":true}]`)
	c := newTestClient(t, srv)

	tasks, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Task{
		{ID: 1, UserID: 42, Title: "A"},
		{ID: 2, UserID: 42, Title: "B", Completed: true},
	}, tasks)

	reqs := got.all()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/todos", req.Path)
	assert.Equal(t, "userId=42", req.Query)
	assert.NotEmpty(t, req.RequestID)
}

func TestClient_ListNullBodyIsEmpty(t *testing.T) {
	t.Parallel()
	srv, _ := newRecordingServer(t, http.StatusOK, `null`)
	c := newTestClient(t, srv)

	tasks, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestClient_Create(t *testing.T) {
	t.Parallel()
	srv, got := newRecordingServer(t, http.StatusCreated, `{"id":7,"userId":42,"title":"Buy milk","completed":false}`)
	c := newTestClient(t, srv)

	task, err := c.Create(context.Background(), "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, 7, task.ID)

	req := got.all()[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/todos", req.Path)
	assert.JSONEq(t, `{"userId":42,"title":"Buy milk","completed":false}`, req.Body)
	assert.Equal(t, "application/json; charset=UTF-8", req.ContentType)
}

func TestClient_UpdateSendsSparsePatch(t *testing.T) {
	t.Parallel()
	srv, got := newRecordingServer(t, http.StatusOK, `{"id":1,"userId":42,"title":"B","completed":false}`)
	c := newTestClient(t, srv)

	task, err := c.Update(context.Background(), 1, model.TitlePatch("B"))
	require.NoError(t, err)
	assert.Equal(t, "B", task.Title)

	req := got.all()[0]
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "/todos/1", req.Path)
	assert.JSONEq(t, `{"title":"B"}`, req.Body)
}

func TestClient_Delete(t *testing.T) {
	t.Parallel()
	srv, got := newRecordingServer(t, http.StatusOK, `1`)
	c := newTestClient(t, srv)

	require.NoError(t, c.Delete(context.Background(), 5))
	req := got.all()[0]
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/todos/5", req.Path)
	assert.Empty(t, req.Body)
}

func TestClient_Non2xxIsRequestFailed(t *testing.T) {
	t.Parallel()
	srv, got := newRecordingServer(t, http.StatusInternalServerError, `{"error":"boom"}`)
	c := newTestClient(t, srv)

	_, err := c.Update(context.Background(), 1, model.CompletedPatch(true))
	var rf *RequestFailedError
	require.True(t, errors.As(err, &rf), "expected RequestFailedError, got %T", err)
	assert.Equal(t, "update", rf.Op)
	assert.Equal(t, http.StatusInternalServerError, rf.Status)
	assert.Len(t, got.all(), 1, "no retries")
}

func TestClient_TransportErrorIsRequestFailed(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := NewClient(srv.URL, 1)
	require.NoError(t, err)
	srv.Close()

	err = c.Delete(context.Background(), 1)
	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Zero(t, rf.Status)
	assert.Error(t, rf.Unwrap())
}

func TestClient_BadJSONIsRequestFailed(t *testing.T) {
	t.Parallel()
	srv, _ := newRecordingServer(t, http.StatusOK, `{not json`)
	c := newTestClient(t, srv)

	_, err := c.Create(context.Background(), "x")
	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	var syn *json.SyntaxError
	assert.ErrorAs(t, err, &syn)
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	t.Parallel()
	_, err := NewClient("  ", 1)
	assert.Error(t, err)
}
