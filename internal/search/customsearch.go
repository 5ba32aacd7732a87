package search

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// CustomSearchBackend queries Google Programmable Search.
type CustomSearchBackend struct {
	svc     *customsearch.Service
	cx      string
	cfg     Config
	verbose bool
}

// NewCustomSearchBackend creates the service client. Extra client options are
// appended after the API key (tests pass an HTTP client here).
func NewCustomSearchBackend(ctx context.Context, cfg Config, opts ...option.ClientOption) (*CustomSearchBackend, error) {
	if cfg.APIKey == "" || cfg.CX == "" {
		return nil, fmt.Errorf("%w: GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_CX are required", ErrMissingCredentials)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &CustomSearchBackend{svc: svc, cx: cfg.CX, cfg: cfg, verbose: cfg.Verbose}, nil
}

// Search runs one query. count is clamped to 1..10, the API's page size limit.
func (b *CustomSearchBackend) Search(ctx context.Context, query string, count int) ([]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	resp, err := b.svc.Cse.List().Cx(b.cx).Q(query).Num(int64(clampCount(count))).Context(ctx).Do()
	if err != nil {
		return nil, &QueryError{Backend: BackendCustomSearch, Query: query, Cause: err}
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Link == "" {
			continue
		}
		results = append(results, Result{URL: item.Link, Title: item.Title, Snippet: item.Snippet})
	}
	if b.verbose {
		log.Printf("[SEARCH] customsearch %q -> %d results", query, len(results))
	}
	return results, nil
}
