package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/referral-scout/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body><div id="links">
<div class="result result--ad">
  <a class="result__a" href="https://ads.example.com/click">Sponsored</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.linkedin.com%2Fin%2Fjane-doe%3Ftrk%3Dabc&rut=x">Jane Doe - Data Engineer - Acme | LinkedIn</a></h2>
  <a class="result__snippet">Jane Doe.   Data Engineer at
  Acme.</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="https://www.linkedin.com/in/john-roe">John Roe - Engineering Manager - Acme</a></h2>
  <a class="result__snippet">Leads the data platform team.</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="https://www.linkedin.com/in/ann-lee">Ann Lee - Acme</a></h2>
</div>
</div></body></html>`

func TestWebBackend_Search(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	backend := NewWebBackend(Config{Endpoint: server.URL + "/html/"})
	results, err := backend.Search(context.Background(), `site:linkedin.com/in "Acme" engineer`, 2)
	require.NoError(t, err)

	assert.Equal(t, `site:linkedin.com/in "Acme" engineer`, gotQuery)
	require.Len(t, results, 2)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe?trk=abc", results[0].URL)
	assert.Equal(t, "Jane Doe - Data Engineer - Acme | LinkedIn", results[0].Title)
	assert.Equal(t, "Jane Doe. Data Engineer at Acme.", results[0].Snippet)
	assert.Equal(t, "https://www.linkedin.com/in/john-roe", results[1].URL)
}

func TestWebBackend_ChallengePageIsRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`<html><div class="anomaly-modal">Unusual traffic</div></html>`))
	}))
	defer server.Close()

	_, err := NewWebBackend(Config{Endpoint: server.URL}).Search(context.Background(), "q", 5)
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.True(t, IsTransient(err))
}

func TestWebBackend_RenderedPages(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		renderErr error
		check     func(t *testing.T, results []Result, err error)
	}{
		{
			name: "results page",
			html: resultsPage,
			check: func(t *testing.T, results []Result, err error) {
				require.NoError(t, err)
				assert.Len(t, results, 3)
			},
		},
		{
			name: "challenge page is rate limited",
			html: `<html><body><div class="anomaly-modal__modal">Select all squares</div></body></html>`,
			check: func(t *testing.T, results []Result, err error) {
				var rateErr *RateLimitError
				require.ErrorAs(t, err, &rateErr)
				assert.True(t, IsTransient(err))
				assert.Empty(t, results)
			},
		},
		{
			name:      "render failure",
			renderErr: errors.New("chrome not found"),
			check: func(t *testing.T, _ []Result, err error) {
				var queryErr *QueryError
				require.ErrorAs(t, err, &queryErr)
				assert.False(t, IsTransient(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewWebBackend(Config{UseBrowser: true})
			var gotOpts fetch.RenderOptions
			backend.render = func(_ context.Context, pageURL string, opts fetch.RenderOptions) (string, error) {
				gotOpts = opts
				assert.Contains(t, pageURL, DefaultWebEndpoint+"?q=")
				return tt.html, tt.renderErr
			}

			results, err := backend.Search(context.Background(), "acme engineer", 5)
			tt.check(t, results, err)
			assert.Equal(t, "#links, .anomaly-modal", gotOpts.WaitFor)
		})
	}
}

func TestWebBackend_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewWebBackend(Config{Endpoint: server.URL}).Search(context.Background(), "q", 5)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestWebBackend_NotFoundIsPermanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewWebBackend(Config{Endpoint: server.URL}).Search(context.Background(), "q", 5)
	require.Error(t, err)
	assert.False(t, IsTransient(err))
}

func TestDecodeResultURL(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fa", "https://example.com/a"},
		{"/l/?uddg=https%3A%2F%2Fexample.com%2Fb", "https://example.com/b"},
		{"https://example.com/c", "https://example.com/c"},
		{"javascript:void(0)", ""},
		{"/relative", ""},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeResultURL(tt.href))
		})
	}
}
