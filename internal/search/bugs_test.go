package search

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bug_tracker/internal/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

func newFakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*BugIndex, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			_, _ = w.Write([]byte(`{"version":{"number":"9.0.0"}}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{URL: srv.URL}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return NewBugIndex(client, ""), &reqs
}

func TestBuildSearchQuery(t *testing.T) {
	q := buildSearchQuery("login crash", 20, 10)

	assert.Equal(t, 20, q["from"])
	assert.Equal(t, 10, q["size"])

	mm := q["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "login crash", mm["query"])
	assert.Equal(t, []string{"title^2", "description"}, mm["fields"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
}

func TestIndexBug(t *testing.T) {
	idx, reqs := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	bug := &models.Bug{
		ID:          7,
		Title:       "crash",
		Priority:    models.PriorityHigh,
		ProjectID:   3,
		CreatedDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, idx.IndexBug(context.Background(), bug))

	last := (*reqs)[len(*reqs)-1]
	assert.Equal(t, http.MethodPut, last.Method)
	assert.Equal(t, "/bugs/_doc/7", last.Path)

	var doc BugDocument
	require.NoError(t, json.Unmarshal([]byte(last.Body), &doc))
	assert.Equal(t, "crash", doc.Title)
	assert.Equal(t, "HIGH", doc.Priority)
	assert.Equal(t, "2025-02-01", doc.CreatedDate)
}

func TestDeleteBug_MissingIsOK(t *testing.T) {
	idx, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})

	assert.NoError(t, idx.DeleteBug(context.Background(), 9))
}

func TestDeleteBug_ServerError(t *testing.T) {
	idx, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad"}`))
	})

	assert.Error(t, idx.DeleteBug(context.Background(), 9))
}

func TestSearch_DecodesHits(t *testing.T) {
	idx, reqs := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[
			{"_source":{"bugId":1,"title":"login crash","priority":"HIGH","projectId":1}},
			{"_source":{"bugId":2,"title":"login slow","priority":"LOW","projectId":1}}
		]}}`))
	})

	total, docs, err := idx.Search(context.Background(), "login", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, docs, 2)
	assert.Equal(t, uint(1), docs[0].ID)
	assert.Equal(t, "login slow", docs[1].Title)

	last := (*reqs)[len(*reqs)-1]
	assert.True(t, strings.HasSuffix(last.Path, "/bugs/_search"))
	assert.Contains(t, last.Body, `"multi_match"`)
}
