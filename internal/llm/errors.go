package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
)

// ErrNoPayload is returned when no structured payload can be recovered from a reply.
var ErrNoPayload = errors.New("no structured payload in reply")

// PayloadError describes a reply that could not be turned into JSON.
type PayloadError struct {
	Reply string
	Cause error
}

func (e *PayloadError) Error() string {
	snippet := e.Reply
	if len(snippet) > 120 {
		snippet = snippet[:117] + "..."
	}
	if e.Cause != nil {
		return fmt.Sprintf("%v: %v (reply: %q)", ErrNoPayload, e.Cause, snippet)
	}
	return fmt.Sprintf("%v (reply: %q)", ErrNoPayload, snippet)
}

func (e *PayloadError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrNoPayload, e.Cause}
	}
	return []error{ErrNoPayload}
}

// ConfigError is a setup problem that no retry can fix.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("llm config error: %s", e.Message)
}

// APIError is a non-success response from a provider's HTTP API.
type APIError struct {
	Provider   Provider
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// IsTransient reports whether err is worth a retry: anything except configuration
// problems, client-side request errors and cancellation.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if transient, known := transientStatus(apiErr.StatusCode); known {
			return transient
		}
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if transient, known := transientStatus(gErr.Code); known {
			return transient
		}
	}
	var gaxErr *apierror.APIError
	if errors.As(err, &gaxErr) {
		if transient, known := transientStatus(gaxErr.HTTPCode()); known {
			return transient
		}
		if st := gaxErr.GRPCStatus(); st != nil {
			switch st.Code() {
			case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded, codes.Internal, codes.Aborted:
				return true
			case codes.InvalidArgument, codes.NotFound, codes.PermissionDenied, codes.Unauthenticated, codes.FailedPrecondition:
				return false
			}
		}
	}
	return true
}

// transientStatus classifies an HTTP status. known is false for codes that say nothing.
func transientStatus(code int) (transient, known bool) {
	switch {
	case code == 429, code == 408, code >= 500:
		return true, true
	case code >= 400:
		return false, true
	}
	return false, false
}
