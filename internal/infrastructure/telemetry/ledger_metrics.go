package telemetry

import (
	"context"
	"time"

	"github.com/finledger/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

const ledgerMeterName = "finledger/ledger"

// LedgerMetrics records the outcome of every committed or rejected plan
type LedgerMetrics struct {
	plans          *Counter
	planDuration   *Histogram
	planWrites     *Histogram
	retries        *Counter
	batchItems     *Counter
	partialBatches *Counter
	events         *Counter
}

// NewLedgerMetrics creates the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	m := &LedgerMetrics{}
	var err error
	if m.plans, err = NewCounter(meter, "ledger_plans_total",
		"Plans executed, by operation and outcome", "{plan}"); err != nil {
		return nil, err
	}
	if m.planDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "ledger_plan_duration_seconds",
		Description: "Time spent committing one plan",
		Unit:        "s",
		Boundaries:  PlanDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.planWrites, err = NewHistogram(meter, HistogramOpts{
		Name:        "ledger_plan_writes",
		Description: "Number of entity writes in one committed plan",
		Unit:        "{write}",
		Boundaries:  WriteCountBuckets,
	}); err != nil {
		return nil, err
	}
	if m.retries, err = NewCounter(meter, "ledger_retries_total",
		"Mutations replanned after a conflict", "{retry}"); err != nil {
		return nil, err
	}
	if m.batchItems, err = NewCounter(meter, "ledger_batch_items_total",
		"Items committed by bulk operations", "{item}"); err != nil {
		return nil, err
	}
	if m.partialBatches, err = NewCounter(meter, "ledger_partial_batches_total",
		"Bulk operations that stopped before their last chunk", "{batch}"); err != nil {
		return nil, err
	}
	if m.events, err = NewCounter(meter, "ledger_events_total",
		"Domain events published after commit", "{event}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordPlan counts a plan commit attempt and, on success, its size and latency
func (m *LedgerMetrics) RecordPlan(ctx context.Context, operation string, writes int, duration time.Duration, err error) {
	if err != nil {
		m.plans.Inc(ctx, AttrOperation.String(operation), AttrOutcome.String("rejected"),
			AttrErrorCode.String(shared.ErrorCode(err)))
		return
	}
	m.plans.Inc(ctx, AttrOperation.String(operation), AttrOutcome.String("committed"))
	m.planDuration.RecordDuration(ctx, duration, AttrOperation.String(operation))
	m.planWrites.Record(ctx, float64(writes), AttrOperation.String(operation))
}

// RecordRetry counts a replan caused by code
func (m *LedgerMetrics) RecordRetry(ctx context.Context, operation, code string) {
	m.retries.Inc(ctx, AttrOperation.String(operation), AttrErrorCode.String(code))
}

// RecordBatch counts committed bulk items and flags partial batches
func (m *LedgerMetrics) RecordBatch(ctx context.Context, operation string, committed, total int) {
	m.batchItems.Add(ctx, int64(committed), AttrOperation.String(operation))
	if committed < total {
		m.partialBatches.Inc(ctx, AttrOperation.String(operation))
	}
}

// Handle counts a published domain event, so the metrics can subscribe to the event bus
func (m *LedgerMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	m.events.Inc(ctx, AttrEventType.String(event.EventType()))
	return nil
}

// EventTypes subscribes to every event
func (m *LedgerMetrics) EventTypes() []string {
	return nil
}
