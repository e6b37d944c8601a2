package ledger

import (
	"context"
	"time"

	"github.com/finledger/backend/internal/domain/reconcile"
)

// SnapshotLoader reads the current persisted state in one consistent view
type SnapshotLoader interface {
	Load(ctx context.Context) (*reconcile.Snapshot, error)
}

// PlanExecutor commits every write and audit log of a plan atomically.
// A write whose expected version no longer matches fails the whole plan
// with a CONCURRENCY_CONFLICT.
type PlanExecutor interface {
	Execute(ctx context.Context, plan *reconcile.Plan) error
}

// SequenceLocker serializes mutations that allocate from a shared sequence,
// such as invoice numbers of one year or auction months of one chit group.
type SequenceLocker interface {
	// Lock blocks until scope is held or the wait budget runs out.
	// The returned func releases the lock.
	Lock(ctx context.Context, scope string) (func(context.Context) error, error)
}

// Metrics receives ledger operation outcomes
type Metrics interface {
	RecordPlan(ctx context.Context, operation string, writes int, duration time.Duration, err error)
	RecordRetry(ctx context.Context, operation string, code string)
	RecordBatch(ctx context.Context, operation string, committed, total int)
}

type noopMetrics struct{}

func (noopMetrics) RecordPlan(context.Context, string, int, time.Duration, error) {}
func (noopMetrics) RecordRetry(context.Context, string, string) {}
func (noopMetrics) RecordBatch(context.Context, string, int, int) {}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}
