package search

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/referral-scout/internal/fetch"
)

// DefaultWebEndpoint is the no-script DuckDuckGo results page.
const DefaultWebEndpoint = "https://html.duckduckgo.com/html/"

// challengeMarker identifies the anomaly page served when the endpoint throttles.
const challengeMarker = "anomaly-modal"

// renderWaitSelector is ready on both a results page and a challenge page.
const renderWaitSelector = "#links, ." + challengeMarker

// renderFunc renders a page in a headless browser and returns its HTML.
type renderFunc func(ctx context.Context, pageURL string, opts fetch.RenderOptions) (string, error)

// WebBackend scrapes an HTML search results page.
type WebBackend struct {
	endpoint   string
	http       *fetch.Options
	useBrowser bool
	render     renderFunc
	cfg        Config
}

// NewWebBackend creates a scraping backend. cfg.Endpoint overrides DefaultWebEndpoint.
func NewWebBackend(cfg Config) *WebBackend {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultWebEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpOpts := fetch.DefaultOptions()
	httpOpts.Timeout = cfg.Timeout
	httpOpts.Headers = map[string]string{"Accept-Language": "en-US,en;q=0.8"}
	return &WebBackend{endpoint: endpoint, http: httpOpts, useBrowser: cfg.UseBrowser, render: fetch.Render, cfg: cfg}
}

// WithHTTPClient replaces the HTTP client used for plain fetches.
func (b *WebBackend) WithHTTPClient(client *http.Client) *WebBackend {
	b.http.Client = client
	return b
}

// Search fetches the results page for query and returns up to count hits.
func (b *WebBackend) Search(ctx context.Context, query string, count int) ([]Result, error) {
	pageURL := b.endpoint + "?q=" + url.QueryEscape(query)

	html, err := b.page(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	results, err := parseResults(html, clampCount(count))
	if err != nil {
		return nil, &QueryError{Backend: BackendWeb, Query: query, Cause: err}
	}
	if b.cfg.Verbose {
		log.Printf("[SEARCH] web %q -> %d results", query, len(results))
	}
	return results, nil
}

func (b *WebBackend) page(ctx context.Context, pageURL string) (string, error) {
	if b.useBrowser {
		html, err := b.render(ctx, pageURL, fetch.RenderOptions{
			Timeout: b.cfg.Timeout,
			WaitFor: renderWaitSelector,
			Verbose: b.cfg.Verbose,
		})
		if err != nil {
			return "", &QueryError{Backend: BackendWeb, Query: pageURL, Cause: err}
		}
		if isChallenge(http.StatusOK, html) {
			return "", challengeError(pageURL)
		}
		return html, nil
	}

	result, err := fetch.URL(ctx, pageURL, b.http)
	if result != nil && isChallenge(result.StatusCode, result.HTML) {
		return "", challengeError(pageURL)
	}
	if err != nil {
		return "", &QueryError{Backend: BackendWeb, Query: pageURL, Cause: err}
	}
	return result.HTML, nil
}

// isChallenge reports a throttling response: the HTML endpoint answers with a
// 202 and an anomaly challenge instead of results.
func isChallenge(status int, html string) bool {
	return status == http.StatusAccepted || strings.Contains(html, challengeMarker)
}

func challengeError(pageURL string) error {
	return &RateLimitError{Backend: BackendWeb, Cause: fmt.Errorf("challenge page returned for %s", pageURL)}
}

// parseResults reads organic hits from a DuckDuckGo HTML results page.
func parseResults(html string, count int) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		link := s.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		target := decodeResultURL(href)
		if target == "" {
			return true
		}
		results = append(results, Result{
			URL:     target,
			Title:   strings.TrimSpace(link.Text()),
			Snippet: strings.Join(strings.Fields(s.Find(".result__snippet").First().Text()), " "),
		})
		return len(results) < count
	})
	return results, nil
}

// decodeResultURL resolves the redirect wrapper around a result link.
func decodeResultURL(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.String()
}
