package tracker

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable is returned when the tracker cannot be opened for
// exclusive read-write use. No row work may start after it.
var ErrStoreUnavailable = errors.New("tracker store unavailable")

// ErrLocked reports that another process holds the tracker open.
var ErrLocked = errors.New("tracker is open in another process")

// ErrClosed is returned by operations on a closed Tracker.
var ErrClosed = errors.New("tracker is closed")

// PersistError wraps a failure to write a row result.
type PersistError struct {
	RowID int
	Cause error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist row %d: %v", e.RowID, e.Cause)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}

func unavailable(path string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, path, cause)
}
