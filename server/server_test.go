package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/poiesic/stemdex/core"
	"github.com/poiesic/stemdex/search"
	"github.com/poiesic/stemdex/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIndex is an in-memory Index for handler tests.
type fakeIndex struct {
	docs      map[core.ID]*core.Document
	nextID    core.ID
	failWith  error
	lastQuery string
	lastLimit int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: make(map[core.ID]*core.Document), nextID: 1}
}

func (f *fakeIndex) Ingest(ctx context.Context, contents []string) ([]*core.Document, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var docs []*core.Document
	for _, c := range contents {
		if strings.TrimSpace(c) == "" {
			return nil, fmt.Errorf("%w: %w", core.ErrInvalidDocument, core.ErrEmptyContent)
		}
		doc := &core.Document{
			Id:       f.nextID,
			Contents: c,
			Terms:    []core.TermCount{{Stem: "knight", Frequency: 1}},
			Length:   1,
		}
		f.docs[doc.Id] = doc
		f.nextID++
		docs = append(docs, doc)
	}
	return docs, nil
}

func (f *fakeIndex) Search(ctx context.Context, query string, limit int) ([]*core.SearchResult, error) {
	f.lastQuery, f.lastLimit = query, limit
	if f.failWith != nil {
		return nil, f.failWith
	}
	if strings.TrimSpace(query) == "" {
		return nil, search.ErrEmptyQuery
	}
	var results []*core.SearchResult
	for id := core.ID(1); id < f.nextID; id++ {
		results = append(results, &core.SearchResult{Document: f.docs[id], Score: 1.5, Matched: []string{"knight"}})
	}
	return results, nil
}

func (f *fakeIndex) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

func setupServer(t *testing.T) (*fakeIndex, http.Handler) {
	t.Helper()
	index := newFakeIndex()
	srv, err := New(index, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return index, srv.Handler()
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestNew_RequiresIndex(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func TestHealth(t *testing.T) {
	_, h := setupServer(t)

	w := doRequest(t, h, http.MethodGet, "/_health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestStem(t *testing.T) {
	_, h := setupServer(t)

	tests := []struct {
		path string
		want stemResponse
	}{
		{"/stem/consolidating", stemResponse{Word: "consolidating", Stem: "consolid"}},
		{"/stem/Kneeling", stemResponse{Word: "kneeling", Stem: "kneel"}},
		{"/stem/by", stemResponse{Word: "by", Stem: "by"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := doRequest(t, h, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, w.Code)

			var got stemResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIngest(t *testing.T) {
	index, h := setupServer(t)

	w := doRequest(t, h, http.MethodPost, "/documents", `{"contents":["The knights","A knight"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp ingestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []core.ID{1, 2}, resp.IDs)
	assert.Len(t, index.docs, 2)
}

func TestIngest_BadRequests(t *testing.T) {
	_, h := setupServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty body", "", "request body is empty"},
		{"invalid json", "{", "invalid JSON"},
		{"no contents", `{"contents":[]}`, "contents required"},
		{"blank content", `{"contents":["  "]}`, core.ErrEmptyContent.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, h, http.MethodPost, "/documents", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeError(t, w), tt.want)
		})
	}
}

func TestIngest_InternalError(t *testing.T) {
	index, h := setupServer(t)
	index.failWith = errors.New("disk on fire")

	w := doRequest(t, h, http.MethodPost, "/documents", `{"contents":["knights"]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "disk on fire", decodeError(t, w))
}

func TestGetDocument(t *testing.T) {
	_, h := setupServer(t)
	doRequest(t, h, http.MethodPost, "/documents", `{"contents":["The knights"]}`)

	w := doRequest(t, h, http.MethodGet, "/documents/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got documentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, core.ID(1), got.ID)
	assert.Equal(t, "The knights", got.Contents)
	assert.Equal(t, map[string]int{"knight": 1}, got.Terms)

	w = doRequest(t, h, http.MethodGet, "/documents/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "document not found: 99", decodeError(t, w))

	w = doRequest(t, h, http.MethodGet, "/documents/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch(t *testing.T) {
	index, h := setupServer(t)
	doRequest(t, h, http.MethodPost, "/documents", `{"contents":["The knights","A knight"]}`)

	w := doRequest(t, h, http.MethodGet, "/search?q=knight&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "knight", index.lastQuery)
	assert.Equal(t, 5, index.lastLimit)

	var got searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "knight", got.Query)
	require.Len(t, got.Results, 2)
	assert.Equal(t, core.ID(1), got.Results[0].ID)
	assert.Equal(t, "The knights", got.Results[0].Contents)
	assert.Equal(t, float32(1.5), got.Results[0].Score)
	assert.Equal(t, []string{"knight"}, got.Results[0].Matched)
}

func TestSearch_DefaultLimit(t *testing.T) {
	index, h := setupServer(t)

	w := doRequest(t, h, http.MethodGet, "/search?q=knight", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, index.lastLimit)
	assert.JSONEq(t, `{"query":"knight","results":[]}`, w.Body.String())
}

func TestSearch_BadRequests(t *testing.T) {
	_, h := setupServer(t)

	w := doRequest(t, h, http.MethodGet, "/search?q=", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, search.ErrEmptyQuery.Error(), decodeError(t, w))

	for _, limit := range []string{"abc", "0", "-3"} {
		w = doRequest(t, h, http.MethodGet, "/search?q=knight&limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit %q", limit)
	}
}

func TestSearch_InternalError(t *testing.T) {
	index, h := setupServer(t)
	index.failWith = errors.New("index corrupted")

	w := doRequest(t, h, http.MethodGet, "/search?q=knight", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestSizeLimit(t *testing.T) {
	index := newFakeIndex()
	srv, err := New(index, WithMaxRequestSize(16), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	w := doRequest(t, srv.Handler(), http.MethodPost, "/documents", `{"contents":["a much longer document body"]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "request body exceeds 16 bytes", decodeError(t, w))
	assert.Empty(t, index.docs)

	w = doRequest(t, srv.Handler(), http.MethodPost, "/documents", `{"contents":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "bodies within the limit are still validated")
}

func TestListenAndServe_Shutdown(t *testing.T) {
	srv, err := New(newFakeIndex(), WithAddr("127.0.0.1:0"), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
