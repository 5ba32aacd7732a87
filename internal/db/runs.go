package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateRun records the start of a run
func (db *DB) CreateRun(ctx context.Context, runID uuid.UUID, trackerPath string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO tracker_runs (id, tracker_path, status)
		 VALUES ($1, $2, $3)`,
		runID, trackerPath, RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun stores the final row counts of a run
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, succeeded, failed int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE tracker_runs
		 SET status = $1, succeeded = $2, failed = $3, completed_at = NOW()
		 WHERE id = $4`,
		StatusFor(succeeded, failed), succeeded, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID, or nil when it does not exist
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, tracker_path, status, succeeded, failed, created_at, completed_at
		 FROM tracker_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.TrackerPath, &run.Status, &run.Succeeded, &run.Failed, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}
