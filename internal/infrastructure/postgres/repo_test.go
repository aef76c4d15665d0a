package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/hr-compass/internal/domain"
	"github.com/hr-compass/internal/pkg/id"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(fmt.Errorf("boom")))
}

// openTestDB connects to TEST_DATABASE_URL, skipping when it is unset.
func openTestDB(t *testing.T) DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := Open(ctx, url, 2)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func TestUserRepo_Integration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewUserRepo(db)

	now := time.Now().UTC().Truncate(time.Millisecond)
	email := id.New() + "@example.com"
	u := &domain.User{UserID: id.New(), Email: email, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, &domain.User{UserID: id.New(), Email: email, CreatedAt: now, UpdatedAt: now}), domain.ErrConflict)

	got, err := repo.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.False(t, got.Verified)

	updated, err := repo.MarkVerified(ctx, email, now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, updated.Verified)

	byID, err := repo.Get(ctx, u.UserID)
	require.NoError(t, err)
	assert.True(t, byID.Verified)

	_, err = repo.GetByEmail(ctx, "missing-"+email)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.MarkVerified(ctx, "missing-"+email, now)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOtpRepo_Integration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewOtpRepo(db)

	now := time.Now().UTC()
	email := id.New() + "@example.com"
	first := &domain.Otp{OtpID: id.New(), Email: email, CodeHash: "h1", ExpiresAt: now.Add(10 * time.Minute), CreatedAt: now}
	second := &domain.Otp{OtpID: id.New(), Email: email, CodeHash: "h2", ExpiresAt: now.Add(10 * time.Minute), CreatedAt: now}

	require.NoError(t, repo.Replace(ctx, first))
	require.NoError(t, repo.Replace(ctx, second))

	active, err := repo.ListActive(ctx, email, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.OtpID, active[0].OtpID)

	expired, err := repo.ListActive(ctx, email, now.Add(11*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, expired)

	require.NoError(t, repo.Consume(ctx, email, second.OtpID))
	assert.ErrorIs(t, repo.Consume(ctx, email, second.OtpID), domain.ErrNotFound)
}
