package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func newCustomSearchServer(t *testing.T, handler http.HandlerFunc) (*CustomSearchBackend, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	backend, err := NewCustomSearchBackend(context.Background(), Config{
		APIKey:   "test-key",
		CX:       "engine-1",
		Endpoint: server.URL + "/",
	})
	require.NoError(t, err)
	return backend, server
}

func TestCustomSearchBackend_Search(t *testing.T) {
	var gotQuery, gotCX, gotNum string
	backend, _ := newCustomSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "customsearch/v1")
		gotQuery = r.URL.Query().Get("q")
		gotCX = r.URL.Query().Get("cx")
		gotNum = r.URL.Query().Get("num")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"link":"https://www.linkedin.com/in/jane-doe","title":"Jane Doe - Data Engineer - Acme | LinkedIn","snippet":"Jane Doe works at Acme."},
			{"link":"","title":"empty"},
			{"link":"https://www.linkedin.com/in/john-roe","title":"John Roe - Acme","snippet":""}
		]}`))
	})

	results, err := backend.Search(context.Background(), `site:linkedin.com/in "Acme"`, 5)
	require.NoError(t, err)
	assert.Equal(t, `site:linkedin.com/in "Acme"`, gotQuery)
	assert.Equal(t, "engine-1", gotCX)
	assert.Equal(t, "5", gotNum)
	require.Len(t, results, 2)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", results[0].URL)
	assert.Equal(t, "Jane Doe works at Acme.", results[0].Snippet)
	assert.Equal(t, "John Roe - Acme", results[1].Title)
}

func TestCustomSearchBackend_ClampsCount(t *testing.T) {
	var nums []string
	backend, _ := newCustomSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		nums = append(nums, r.URL.Query().Get("num"))
		_, _ = w.Write([]byte(`{}`))
	})

	for _, count := range []int{0, 25} {
		_, err := backend.Search(context.Background(), "q", count)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"1", "10"}, nums)
}

func TestCustomSearchBackend_RateLimited(t *testing.T) {
	backend, _ := newCustomSearchServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Quota exceeded","errors":[{"reason":"rateLimitExceeded","message":"Quota exceeded"}]}}`))
	})

	_, err := backend.Search(context.Background(), "q", 5)
	require.Error(t, err)
	assert.True(t, IsTransient(err))

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	var apiErr *googleapi.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Code)
}

func TestCustomSearchBackend_BadRequestIsPermanent(t *testing.T) {
	backend, _ := newCustomSearchServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"Invalid value","errors":[{"reason":"invalid"}]}}`))
	})

	_, err := backend.Search(context.Background(), "q", 5)
	require.Error(t, err)
	assert.False(t, IsTransient(err))
}

func TestNewCustomSearchBackend_MissingCredentials(t *testing.T) {
	_, err := NewCustomSearchBackend(context.Background(), Config{APIKey: "key"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
