package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseRepository(t *testing.T, repo Repository) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, ReportKey("rep1"), []byte(`{"a":1}`), time.Minute))
		got, err := repo.Get(ctx, ReportKey("rep1"))
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), got)

		ok, err := repo.Exists(ctx, ReportKey("rep1"))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("get missing key", func(t *testing.T) {
		got, err := repo.Get(ctx, ReportKey("missing"))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, ReportKey("rep2"), []byte("x"), 0))
		deleted, err := repo.Delete(ctx, ReportKey("rep2"))
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, ReportKey("rep2"))
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("empty key", func(t *testing.T) {
		assert.Error(t, repo.Set(ctx, "", []byte("x"), 0))
		_, err := repo.Get(ctx, "")
		assert.Error(t, err)
	})

	assert.NoError(t, repo.Health(ctx))
}

func TestMemoryRepo(t *testing.T) {
	exerciseRepository(t, NewMemoryRepo())
}

func TestMemoryRepoExpiry(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v"), time.Minute))
	now = now.Add(59 * time.Second)
	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Second)
	got, err = repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisRepo(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if testing.Short() || addr == "" {
		t.Skip("skipping integration test; set REDIS_TEST_ADDR to run")
	}

	client := NewRedisClient(addr, "", 0)
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	exerciseRepository(t, NewRedisRepo(client))
	ttl := client.TTL(context.Background(), ReportKey("rep1")).Val()
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}
