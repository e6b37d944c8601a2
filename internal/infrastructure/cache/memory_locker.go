package cache

import (
	"context"
	"sync"
	"time"

	"github.com/finledger/backend/internal/domain/shared"
)

// MemorySequenceLocker serializes scopes within one process.
// Locks are not shared across instances; run a single instance with it.
type MemorySequenceLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	opts  LockOptions
}

// NewMemorySequenceLocker creates an in-process locker. Only opts.Wait is used.
func NewMemorySequenceLocker(opts LockOptions) *MemorySequenceLocker {
	return &MemorySequenceLocker{slots: make(map[string]chan struct{}), opts: opts.withDefaults()}
}

func (l *MemorySequenceLocker) slot(scope string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[scope]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[scope] = ch
	}
	return ch
}

// Lock blocks until scope is free, opts.Wait elapses, or ctx is done
func (l *MemorySequenceLocker) Lock(ctx context.Context, scope string) (func(context.Context) error, error) {
	ch := l.slot(scope)
	t := time.NewTimer(l.opts.Wait)
	defer t.Stop()

	select {
	case ch <- struct{}{}:
	case <-t.C:
		return nil, shared.NewSequenceConflict("sequence %s is held by another writer", scope)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { <-ch })
		return nil
	}, nil
}

// Close is a no-op
func (l *MemorySequenceLocker) Close() error {
	return nil
}
