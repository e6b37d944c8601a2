//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/finledger/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisSequenceLocker(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	l := NewRedisSequenceLocker(client, LockOptions{TTL: time.Second, Wait: 50 * time.Millisecond})
	t.Cleanup(func() { _ = l.Close() })

	release, err := l.Lock(ctx, "invoice-year:2024")
	require.NoError(t, err)

	ttl, err := client.PTTL(ctx, defaultLockPrefix+"invoice-year:2024").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	_, err = l.Lock(ctx, "invoice-year:2024")
	assert.Equal(t, shared.CodeSequenceConflict, shared.ErrorCode(err))

	require.NoError(t, release(ctx))
	assert.ErrorIs(t, release(ctx), ErrLockLost)

	again, err := l.Lock(ctx, "invoice-year:2024")
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestRedisSequenceLocker_ExpiredLockIsNotStolen(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	l := NewRedisSequenceLocker(client, LockOptions{TTL: 50 * time.Millisecond, Wait: time.Second})

	stale, err := l.Lock(ctx, "chit-group:g1")
	require.NoError(t, err)

	// the first holder stalls past its TTL and a second writer takes over
	fresh, err := l.Lock(ctx, "chit-group:g1")
	require.NoError(t, err)

	assert.ErrorIs(t, stale(ctx), ErrLockLost)
	exists, err := client.Exists(ctx, defaultLockPrefix+"chit-group:g1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists, "the stale release must not free the new holder's lock")
	require.NoError(t, fresh(ctx))
}
