package ingestion

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for documents whose extension has no extractor.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ExtractionError represents a failure to read text out of a document
type ExtractionError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to extract %s: %s", e.Path, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
