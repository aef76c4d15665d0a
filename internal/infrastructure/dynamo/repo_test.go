package dynamo

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/hr-compass/internal/config"
	"github.com/hr-compass/internal/domain"
	"github.com/hr-compass/internal/pkg/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// openTestTables points at TEST_DYNAMO_ENDPOINT (dynamodb-local or
// LocalStack), creates a fresh pair of tables and drops them afterwards.
func openTestTables(t *testing.T) (*dynamodb.Client, config.DynamoTables) {
	t.Helper()
	endpoint := os.Getenv("TEST_DYNAMO_ENDPOINT")
	if endpoint == "" {
		t.Skip("TEST_DYNAMO_ENDPOINT not set")
	}
	ctx := context.Background()
	client, err := NewClient(ctx, &config.Config{
		AWSRegion:      "us-east-1",
		AWSEndpointURL: endpoint,
		AWSAccessKeyID: "local",
		AWSSecretKey:   "local",
	})
	require.NoError(t, err)

	suffix := id.New()
	tables := config.DynamoTables{Users: "users-" + suffix, Otps: "otps-" + suffix}
	Bootstrap(ctx, client, tables, zap.NewNop())

	waiter := dynamodb.NewTableExistsWaiter(client)
	for _, name := range []string{tables.Users, tables.Otps} {
		require.NoError(t, waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)}, 30*time.Second))
	}
	t.Cleanup(func() {
		for _, name := range []string{tables.Users, tables.Otps} {
			_, _ = client.DeleteTable(context.Background(), &dynamodb.DeleteTableInput{TableName: aws.String(name)})
		}
	})
	return client, tables
}

func TestUserRepo_Integration(t *testing.T) {
	client, tables := openTestTables(t)
	ctx := context.Background()
	repo := NewUserRepo(client, tables.Users)

	now := time.Now().UTC().Truncate(time.Millisecond)
	u := &domain.User{UserID: id.New(), Email: "a@example.com", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, &domain.User{UserID: id.New(), Email: "a@example.com", CreatedAt: now, UpdatedAt: now}), domain.ErrConflict)

	got, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.UserID, got.UserID)
	assert.False(t, got.Verified)

	updated, err := repo.MarkVerified(ctx, "a@example.com", now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, updated.Verified)
	assert.Equal(t, u.UserID, updated.UserID)

	_, err = repo.MarkVerified(ctx, "ghost@example.com", now)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_ConcurrentCreateHasOneWinner(t *testing.T) {
	client, tables := openTestTables(t)
	ctx := context.Background()
	repo := NewUserRepo(client, tables.Users)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, &domain.User{UserID: id.New(), Email: "race@example.com"})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, wins)
}

func TestOtpRepo_Integration(t *testing.T) {
	client, tables := openTestTables(t)
	ctx := context.Background()
	repo := NewOtpRepo(client, tables.Otps)

	now := time.Now().UTC()
	first := &domain.Otp{OtpID: id.New(), Email: "a@example.com", CodeHash: "h1", ExpiresAt: now.Add(10 * time.Minute), CreatedAt: now}
	second := &domain.Otp{OtpID: id.New(), Email: "a@example.com", CodeHash: "h2", ExpiresAt: now.Add(10 * time.Minute), CreatedAt: now}
	require.NoError(t, repo.Replace(ctx, first))
	require.NoError(t, repo.Replace(ctx, second))

	active, err := repo.ListActive(ctx, "a@example.com", now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.OtpID, active[0].OtpID)

	assert.ErrorIs(t, repo.Consume(ctx, "a@example.com", first.OtpID), domain.ErrNotFound)
	require.NoError(t, repo.Consume(ctx, "a@example.com", second.OtpID))
	assert.ErrorIs(t, repo.Consume(ctx, "a@example.com", second.OtpID), domain.ErrNotFound)

	active, err = repo.ListActive(ctx, "a@example.com", now)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestOtpRepo_ExpiryBoundary(t *testing.T) {
	client, tables := openTestTables(t)
	ctx := context.Background()
	repo := NewOtpRepo(client, tables.Otps)

	expires := time.Now().UTC().Add(time.Hour).Truncate(time.Second).Add(900 * time.Millisecond)
	o := &domain.Otp{OtpID: id.New(), Email: "b@example.com", CodeHash: "h", ExpiresAt: expires, CreatedAt: expires.Add(-10 * time.Minute)}
	require.NoError(t, repo.Replace(ctx, o))

	active, err := repo.ListActive(ctx, "b@example.com", expires.Add(-500*time.Millisecond))
	require.NoError(t, err)
	assert.Len(t, active, 1)

	active, err = repo.ListActive(ctx, "b@example.com", expires)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestOtpRepo_ConcurrentConsumeHasOneWinner(t *testing.T) {
	client, tables := openTestTables(t)
	ctx := context.Background()
	repo := NewOtpRepo(client, tables.Otps)

	now := time.Now().UTC()
	o := &domain.Otp{OtpID: id.New(), Email: "c@example.com", CodeHash: "h", ExpiresAt: now.Add(10 * time.Minute), CreatedAt: now}
	require.NoError(t, repo.Replace(ctx, o))

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Consume(ctx, "c@example.com", o.OtpID)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrNotFound), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, wins)
}
