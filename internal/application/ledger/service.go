// Package ledger runs ledger mutations end to end: it loads a snapshot,
// asks the reconcile coordinator for a write plan, serializes sequence
// allocation, commits the plan and publishes what happened.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/finledger/backend/internal/infrastructure/logger"
	"github.com/finledger/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Config holds the knobs of the ledger service
type Config struct {
	BatchSize            int
	RetryMaxAttempts     int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		BatchSize:            reconcile.DefaultChunkSize,
		RetryMaxAttempts:     3,
		RetryInitialInterval: 50 * time.Millisecond,
		RetryMaxInterval:     time.Second,
	}
}

// Service is the single entry point for every ledger read and write
type Service struct {
	coordinator *reconcile.Coordinator
	loader      SnapshotLoader
	executor    PlanExecutor
	locker      SequenceLocker
	publisher   shared.EventPublisher
	audits      audit.Repository
	metrics     Metrics
	cfg         Config
	logger      *zap.Logger
}

// Option configures optional collaborators of a Service
type Option func(*Service)

// WithLocker sets the sequence locker. Without one, scopes are not locked
// and only the storage unique constraints protect sequences.
func WithLocker(l SequenceLocker) Option {
	return func(s *Service) { s.locker = l }
}

// WithPublisher sets where committed events go
func WithPublisher(p shared.EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithAuditRepository enables audit log queries
func WithAuditRepository(r audit.Repository) Option {
	return func(s *Service) { s.audits = r }
}

// WithMetrics sets the metrics sink
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a new ledger Service
func NewService(loader SnapshotLoader, executor PlanExecutor, cfg Config, logger *zap.Logger, opts ...Option) *Service {
	if cfg.RetryMaxAttempts < 1 {
		cfg.RetryMaxAttempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		coordinator: reconcile.NewCoordinator(reconcile.WithChunkSize(cfg.BatchSize)),
		loader:      loader,
		executor:    executor,
		locker:      noopLocker{},
		metrics:     noopMetrics{},
		cfg:         cfg,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Coordinator exposes the planner, for callers that want a plan without committing it
func (s *Service) Coordinator() *reconcile.Coordinator {
	return s.coordinator
}

type planFunc func(*reconcile.Snapshot) (*reconcile.Plan, error)

type bulkFunc func(*reconcile.Snapshot) (*reconcile.BulkPlan, error)

// mutate plans and commits one atomic mutation, retrying sequence and
// version conflicts with a fresh snapshot each time.
func (s *Service) mutate(ctx context.Context, operation string, build planFunc) (*reconcile.Plan, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", operation,
		telemetry.WithAttribute(telemetry.SpanAttrOperation, operation))
	defer span.End()

	var (
		plan *reconcile.Plan
		err  error
	)
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels(operation), func(ctx context.Context) {
		err = s.retry(ctx, operation, shared.IsRetryable, func() error {
			p, err := s.attempt(ctx, build)
			plan = p
			return err
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.log(ctx).Info("Ledger mutation rejected",
			zap.String("operation", operation),
			zap.String("code", shared.ErrorCode(err)),
			zap.Error(err))
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPlanID, plan.ID,
		telemetry.SpanAttrWrites, len(plan.Writes))
	telemetry.SetOK(span)
	return plan, nil
}

func (s *Service) attempt(ctx context.Context, build planFunc) (*reconcile.Plan, error) {
	plan, err := s.plan(ctx, build)
	if err != nil {
		return nil, err
	}
	if len(plan.Scopes) == 0 {
		return plan, s.commit(ctx, plan)
	}

	held := sortedScopes(plan.Scopes)
	release, err := s.lockAll(ctx, held)
	if err != nil {
		return nil, err
	}
	defer release()

	// The first plan only told us which scopes to lock; plan again under them.
	plan, err = s.plan(ctx, build)
	if err != nil {
		return nil, err
	}
	if !covers(held, plan.Scopes) {
		return nil, shared.NewSequenceConflict("plan scopes changed while locking")
	}
	return plan, s.commit(ctx, plan)
}

func (s *Service) plan(ctx context.Context, build planFunc) (*reconcile.Plan, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return build(snap)
}

// commit executes a plan and publishes its events
func (s *Service) commit(ctx context.Context, plan *reconcile.Plan) error {
	if plan.IsEmpty() {
		return nil
	}
	start := time.Now()
	err := s.executor.Execute(ctx, plan)
	s.metrics.RecordPlan(ctx, plan.Operation, len(plan.Writes), time.Since(start), err)
	if err != nil {
		return err
	}
	s.log(ctx).Debug("Plan committed", append(logger.PlanFields(plan.ID, plan.Operation, plan.ActorID),
		zap.Int("writes", len(plan.Writes)),
		zap.Int("audit_logs", len(plan.AuditLogs)))...)
	s.publish(ctx, plan)
	return nil
}

// log returns the service logger with the request and trace of ctx attached
func (s *Service) log(ctx context.Context) *zap.Logger {
	l := logger.WithTraceContext(ctx, s.logger)
	if id := logger.GetRequestID(ctx); id != "" {
		l = l.With(zap.String("request_id", id))
	}
	return l
}

func (s *Service) publish(ctx context.Context, plan *reconcile.Plan) {
	if s.publisher == nil {
		return
	}
	events := make([]shared.DomainEvent, 0, len(plan.Events)+1)
	events = append(events, reconcile.NewPlanCommittedEvent(plan))
	events = append(events, plan.Events...)
	if err := s.publisher.Publish(ctx, events...); err != nil {
		// The writes are durable already; subscribers catch up from the audit trail.
		s.log(ctx).Error("Failed to publish ledger events",
			append(logger.PlanFields(plan.ID, plan.Operation, plan.ActorID), zap.Error(err))...)
	}
}

// bulk commits a chunked plan. Chunks are committed in order; a chunk that
// keeps failing stops the batch with a BatchError naming how many items
// earlier chunks committed.
func (s *Service) bulk(ctx context.Context, operation string, build bulkFunc) (*reconcile.BulkPlan, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", operation,
		telemetry.WithAttribute(telemetry.SpanAttrOperation, operation))
	defer span.End()

	var (
		result     *reconcile.BulkPlan
		firstChunk bool
	)
	err := s.retry(ctx, operation, shared.IsRetryable, func() error {
		bp, err := s.attemptBulk(ctx, build)
		result = bp
		var be *shared.BatchError
		firstChunk = errors.As(err, &be) && be.FailedChunk == 0
		if firstChunk {
			// Nothing committed yet, so the whole batch may be planned again.
			return be.Cause
		}
		return err
	})
	if err != nil && firstChunk {
		err = &shared.BatchError{Total: result.Total, Cause: err}
	}
	var batchErr *shared.BatchError
	if result != nil {
		committed := result.Total
		if errors.As(err, &batchErr) {
			committed = batchErr.Committed
		}
		s.metrics.RecordBatch(ctx, operation, committed, result.Total)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		s.log(ctx).Warn("Bulk ledger operation stopped",
			zap.String("operation", operation),
			zap.String("code", shared.ErrorCode(err)),
			zap.Error(err))
		return result, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPlanID, result.ID,
		telemetry.SpanAttrChunks, len(result.Chunks))
	telemetry.SetOK(span)
	return result, nil
}

func (s *Service) attemptBulk(ctx context.Context, build bulkFunc) (*reconcile.BulkPlan, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	bp, err := build(snap)
	if err != nil {
		return nil, err
	}
	if len(bp.Scopes) > 0 {
		held := sortedScopes(bp.Scopes)
		release, err := s.lockAll(ctx, held)
		if err != nil {
			return nil, err
		}
		defer release()

		if snap, err = s.loader.Load(ctx); err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		if bp, err = build(snap); err != nil {
			return nil, err
		}
		if !covers(held, bp.Scopes) {
			return nil, shared.NewSequenceConflict("plan scopes changed while locking")
		}
	}

	for k, chunk := range bp.Chunks {
		err := s.retry(ctx, bp.Operation, shared.IsTransient, func() error {
			return s.commit(ctx, chunk)
		})
		if err != nil {
			return bp, &shared.BatchError{
				Committed:   bp.CommittedBefore(k),
				Total:       bp.Total,
				FailedChunk: k,
				Cause:       err,
			}
		}
	}
	return bp, nil
}

// retry runs fn with exponential backoff while its error satisfies retryable
func (s *Service) retry(ctx context.Context, operation string, retryable func(error) bool, fn func() error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.cfg.RetryInitialInterval
	exp.MaxInterval = s.cfg.RetryMaxInterval
	exp.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(s.cfg.RetryMaxAttempts-1)), ctx)

	return backoff.RetryNotify(func() error {
		err := fn()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		s.metrics.RecordRetry(ctx, operation, shared.ErrorCode(err))
		s.log(ctx).Warn("Retrying ledger operation",
			zap.String("operation", operation),
			zap.String("code", shared.ErrorCode(err)),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
}

// lockAll takes every scope in order and returns a func releasing them in reverse
func (s *Service) lockAll(ctx context.Context, scopes []string) (func(), error) {
	releases := make([]func(context.Context) error, 0, len(scopes))
	release := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			if err := releases[i](context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Failed to release sequence lock",
					zap.String("scope", scopes[i]),
					zap.Error(err))
			}
		}
	}
	for _, scope := range scopes {
		unlock, err := s.locker.Lock(ctx, scope)
		if err != nil {
			release()
			return nil, fmt.Errorf("lock %s: %w", scope, err)
		}
		releases = append(releases, unlock)
		telemetry.AddEvent(telemetry.SpanFromContext(ctx), "scope_locked", telemetry.SpanAttrScope, scope)
	}
	return release, nil
}

func sortedScopes(scopes []string) []string {
	out := slices.Clone(scopes)
	slices.Sort(out)
	return slices.Compact(out)
}

func covers(held, scopes []string) bool {
	for _, sc := range scopes {
		if _, ok := slices.BinarySearch(held, sc); !ok {
			return false
		}
	}
	return true
}
