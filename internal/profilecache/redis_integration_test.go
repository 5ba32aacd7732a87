//go:build integration

package profilecache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/referral-scout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, redisURL)
	require.NoError(t, err)

	store := NewRedisStore(rdb, time.Minute).WithPrefix("test:" + uuid.NewString() + ":")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	got, err := store.Get(ctx, "/resumes/cv.pdf")
	require.NoError(t, err)
	assert.Nil(t, got, "miss returns nil entry")

	entry := Entry{
		Identity:    "/resumes/cv.pdf",
		Fingerprint: "2026-01-02T03:04:05.000000006Z",
		Profile:     types.ResumeProfile{Skills: []string{"Python", "SQL"}, ExperienceYears: "5 years"},
	}
	require.NoError(t, store.Put(ctx, entry))

	got, err = store.Get(ctx, "/resumes/cv.pdf")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.Fingerprint, got.Fingerprint)
	assert.Equal(t, []string{"Python", "SQL"}, got.Profile.Skills)
	assert.False(t, got.UpdatedAt.IsZero())

	entry.Fingerprint = "changed"
	require.NoError(t, store.Put(ctx, entry))
	got, err = store.Get(ctx, "/resumes/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Fingerprint)
}
