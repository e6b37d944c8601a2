package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockPrefix = "finledger:lock:"

// releaseScript deletes the lock only if it still holds our token, so a
// writer whose lock expired cannot free a lock someone else now holds.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ErrLockLost is returned by a release func when the lock expired before it was released
var ErrLockLost = errors.New("sequence lock expired before release")

// LockOptions tune a sequence locker
type LockOptions struct {
	// TTL bounds how long a crashed holder can block a scope
	TTL time.Duration
	// Wait is how long Lock blocks before giving up with a SEQUENCE_CONFLICT
	Wait time.Duration
	// Poll is the retry interval while waiting
	Poll time.Duration
}

func (o LockOptions) withDefaults() LockOptions {
	if o.TTL <= 0 {
		o.TTL = 5 * time.Second
	}
	if o.Wait <= 0 {
		o.Wait = 2 * time.Second
	}
	if o.Poll <= 0 {
		o.Poll = 25 * time.Millisecond
	}
	return o
}

// RedisSequenceLocker holds scope locks as Redis keys set with NX and a TTL
type RedisSequenceLocker struct {
	client redis.UniversalClient
	prefix string
	opts   LockOptions
}

// NewRedisSequenceLocker creates a locker on an existing client
func NewRedisSequenceLocker(client redis.UniversalClient, opts LockOptions) *RedisSequenceLocker {
	return &RedisSequenceLocker{client: client, prefix: defaultLockPrefix, opts: opts.withDefaults()}
}

// Lock blocks until scope is held, opts.Wait elapses, or ctx is done
func (l *RedisSequenceLocker) Lock(ctx context.Context, scope string) (func(context.Context) error, error) {
	key := l.prefix + scope
	token := uuid.NewString()
	deadline := time.Now().Add(l.opts.Wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.opts.TTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", shared.NewStorageUnavailable("lock store unavailable for %s", scope), err)
		}
		if ok {
			return l.releaser(key, token), nil
		}
		if time.Now().After(deadline) {
			return nil, shared.NewSequenceConflict("sequence %s is held by another writer", scope)
		}
		t := time.NewTimer(l.opts.Poll)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (l *RedisSequenceLocker) releaser(key, token string) func(context.Context) error {
	return func(ctx context.Context) error {
		n, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
		if err != nil {
			return fmt.Errorf("release %s: %w", key, err)
		}
		if n == 0 {
			return fmt.Errorf("release %s: %w", key, ErrLockLost)
		}
		return nil
	}
}

// Close closes the Redis client
func (l *RedisSequenceLocker) Close() error {
	return l.client.Close()
}
