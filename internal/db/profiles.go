package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/referral-scout/internal/profilecache"
)

// ProfileStore implements profilecache.Store on the resume_profiles table.
type ProfileStore struct {
	db *DB
}

var _ profilecache.Store = (*ProfileStore)(nil)

// Profiles returns the profile cache view of the database.
func (db *DB) Profiles() *ProfileStore {
	return &ProfileStore{db: db}
}

// Get returns the cached entry for identity, or nil when absent.
func (s *ProfileStore) Get(ctx context.Context, identity string) (*profilecache.Entry, error) {
	var (
		entry   profilecache.Entry
		payload []byte
	)
	err := s.db.pool.QueryRow(ctx,
		`SELECT identity, fingerprint, profile, updated_at
		 FROM resume_profiles WHERE identity = $1`,
		identity,
	).Scan(&entry.Identity, &entry.Fingerprint, &payload, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached profile: %w", err)
	}

	if err := json.Unmarshal(payload, &entry.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached profile: %w", err)
	}
	return &entry, nil
}

// Put inserts or replaces the entry for entry.Identity.
func (s *ProfileStore) Put(ctx context.Context, entry profilecache.Entry) error {
	if entry.Identity == "" {
		return fmt.Errorf("cache entry identity is required")
	}

	payload, err := json.Marshal(entry.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO resume_profiles (id, identity, fingerprint, profile, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (identity) DO UPDATE
		 SET fingerprint = EXCLUDED.fingerprint, profile = EXCLUDED.profile, updated_at = NOW()`,
		uuid.New(), entry.Identity, entry.Fingerprint, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save cached profile: %w", err)
	}
	return nil
}
