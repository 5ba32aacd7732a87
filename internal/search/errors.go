package search

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/jonathan/referral-scout/internal/fetch"
	"google.golang.org/api/googleapi"
)

// ErrUnknownBackend is returned by New for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown search backend")

// ErrMissingCredentials is returned when the customsearch backend lacks a key or engine ID.
var ErrMissingCredentials = errors.New("search credentials missing")

// RateLimitError reports that the backend refused the query because of throttling.
type RateLimitError struct {
	Backend string
	Cause   error
}

func (e *RateLimitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s search rate limited: %v", e.Backend, e.Cause)
	}
	return fmt.Sprintf("%s search rate limited", e.Backend)
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// QueryError wraps a failed search request.
type QueryError struct {
	Backend string
	Query   string
	Cause   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s search for %q failed: %v", e.Backend, e.Query, e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// transientReasons are Google API error reasons that clear after waiting.
var transientReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"dailyLimitExceeded":    true,
	"backendError":          true,
}

// IsTransient reports whether a search failure is throttling or a temporary
// server-side or network problem. Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500 {
			return true
		}
		for _, item := range apiErr.Errors {
			if transientReasons[item.Reason] {
				return true
			}
		}
		return false
	}

	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		return fetchErr.Transient()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
