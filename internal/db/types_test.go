package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name      string
		succeeded int
		failed    int
		expected  string
	}{
		{"no rows", 0, 0, RunStatusCompleted},
		{"all succeeded", 3, 0, RunStatusCompleted},
		{"partial", 2, 1, RunStatusCompleted},
		{"all failed", 0, 2, RunStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusFor(tt.succeeded, tt.failed))
		})
	}
}

func TestRunType(t *testing.T) {
	run := Run{
		TrackerPath: "jobs.xlsx",
		Status:      RunStatusRunning,
	}

	assert.Equal(t, "jobs.xlsx", run.TrackerPath)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Nil(t, run.CompletedAt)
}

func TestSchema_IsIdempotent(t *testing.T) {
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS resume_profiles")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS tracker_runs")
	assert.NotContains(t, schema, "DROP ")
}
