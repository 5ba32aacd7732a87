package db

import (
	"time"

	"github.com/google/uuid"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run represents one pass over the tracker
type Run struct {
	ID          uuid.UUID  `json:"id"`
	TrackerPath string     `json:"tracker_path"`
	Status      string     `json:"status"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// StatusFor maps row counts to a final run status.
func StatusFor(succeeded, failed int) string {
	if failed > 0 && succeeded == 0 {
		return RunStatusFailed
	}
	return RunStatusCompleted
}
