// Package search runs people-search queries against a web search backend.
package search

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by New.
const (
	BackendCustomSearch = "customsearch"
	BackendWeb          = "web"
)

// DefaultTimeout bounds a single search request.
const DefaultTimeout = 15 * time.Second

// MaxResults is the largest result count a single query may ask for.
const MaxResults = 10

// Result is one organic search hit.
type Result struct {
	URL     string
	Title   string
	Snippet string
}

// Backend executes a query and returns up to count results in rank order.
type Backend interface {
	Search(ctx context.Context, query string, count int) ([]Result, error)
}

// Config selects and configures a Backend.
type Config struct {
	Backend string
	// APIKey and CX are the Programmable Search credentials (customsearch only).
	APIKey string
	CX     string
	// Endpoint overrides the backend's base URL.
	Endpoint   string
	Timeout    time.Duration
	UseBrowser bool
	Verbose    bool
}

// New builds the backend named by cfg.Backend.
func New(ctx context.Context, cfg Config) (Backend, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	switch cfg.Backend {
	case BackendCustomSearch, "":
		return NewCustomSearchBackend(ctx, cfg)
	case BackendWeb:
		return NewWebBackend(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func clampCount(count int) int {
	return min(max(count, 1), MaxResults)
}
