package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/finledger/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SequenceLocker is implemented by both lockers
type SequenceLocker interface {
	Lock(ctx context.Context, scope string) (func(context.Context) error, error)
	Close() error
}

// LockerFactoryOption configures NewSequenceLocker
type LockerFactoryOption func(*lockerFactory)

type lockerFactory struct {
	logger        *zap.Logger
	allowFallback bool
	dialTimeout   time.Duration
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) LockerFactoryOption {
	return func(f *lockerFactory) { f.logger = logger }
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-process locker. Default true.
func WithInMemoryFallback(allow bool) LockerFactoryOption {
	return func(f *lockerFactory) { f.allowFallback = allow }
}

// NewSequenceLocker returns a Redis locker when Redis is enabled and
// reachable, and the in-memory locker otherwise.
func NewSequenceLocker(ctx context.Context, redisCfg config.RedisConfig, opts LockOptions, factoryOpts ...LockerFactoryOption) (SequenceLocker, error) {
	f := &lockerFactory{logger: zap.NewNop(), allowFallback: true, dialTimeout: 5 * time.Second}
	for _, o := range factoryOpts {
		o(f)
	}

	if !redisCfg.Enabled {
		f.logger.Info("Redis disabled, using in-memory sequence locks")
		return NewMemorySequenceLocker(opts), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        redisCfg.Addr(),
		Password:    redisCfg.Password,
		DB:          redisCfg.DB,
		DialTimeout: f.dialTimeout,
	})
	pingCtx, cancel := context.WithTimeout(ctx, f.dialTimeout)
	defer cancel()
	err := client.Ping(pingCtx).Err()
	if err == nil {
		f.logger.Info("Using Redis sequence locks", zap.String("addr", redisCfg.Addr()))
		return NewRedisSequenceLocker(client, opts), nil
	}
	_ = client.Close()

	if !f.allowFallback {
		return nil, fmt.Errorf("redis required for sequence locks but unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory sequence locks. "+
		"Concurrent instances will rely on the invoice number unique index alone.",
		zap.String("addr", redisCfg.Addr()),
		zap.Error(err))
	return NewMemorySequenceLocker(opts), nil
}
