package resume

import "errors"

var (
	// ErrDocumentNotFound is returned when the resume document does not exist.
	ErrDocumentNotFound = errors.New("resume document not found")
	// ErrExtractionEmpty is returned when the document yields no text, e.g. a scanned PDF.
	ErrExtractionEmpty = errors.New("no text could be extracted from resume document")
)
