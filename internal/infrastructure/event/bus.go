// Package event delivers committed-plan events to in-process subscribers.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/finledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrBusStopped is returned by Publish once Stop has been called
var ErrBusStopped = errors.New("event bus stopped")

// BusOption configures an InMemoryEventBus
type BusOption func(*InMemoryEventBus)

// WithAsyncDispatch hands events to a pool of workers instead of running
// handlers on the publishing goroutine. queue bounds the pending events;
// a full queue makes Publish block until a worker frees a slot.
func WithAsyncDispatch(workers, queue int) BusOption {
	return func(b *InMemoryEventBus) {
		if workers < 1 {
			workers = 1
		}
		if queue < 0 {
			queue = 0
		}
		b.workers = workers
		b.queue = make(chan dispatch, queue)
	}
}

type dispatch struct {
	ctx   context.Context
	event shared.DomainEvent
}

// InMemoryEventBus implements shared.EventBus with in-process pub/sub.
// A failing or panicking handler never affects the other handlers of the same event.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
	workers  int
	queue    chan dispatch
	wg       sync.WaitGroup

	// mu guards stopped against a concurrent close of queue
	mu      sync.RWMutex
	stopped bool
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger.Named("event_bus"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers events to their subscribers. Synchronous buses return the
// joined handler errors; asynchronous buses only report ErrBusStopped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.stopped {
		return ErrBusStopped
	}
	if b.queue != nil {
		// Handlers outlive the request that published the event.
		detached := context.WithoutCancel(ctx)
		for _, event := range events {
			select {
			case b.queue <- dispatch{ctx: detached, event: event}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}

	var errs []error
	for _, event := range events {
		errs = append(errs, b.deliver(ctx, event))
	}
	return errors.Join(errs...)
}

func (b *InMemoryEventBus) deliver(ctx context.Context, event shared.DomainEvent) error {
	var errs []error
	for _, handler := range b.registry.GetHandlers(event.EventType()) {
		if err := b.dispatchToHandler(ctx, handler, event); err != nil {
			b.logger.Error("Event handler failed",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID()),
				zap.String("aggregate_id", event.AggregateID()),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers a handler. Without explicit types the handler's own
// EventTypes are used; an empty list subscribes to every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start launches the dispatch workers of an asynchronous bus.
// An asynchronous bus must be started before events are published.
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.stopped {
		return ErrBusStopped
	}
	if !b.running.CompareAndSwap(false, true) {
		return nil
	}
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.work()
	}
	b.logger.Info("Event bus started", zap.Int("workers", b.workers))
	return nil
}

func (b *InMemoryEventBus) work() {
	defer b.wg.Done()
	for d := range b.queue {
		_ = b.deliver(d.ctx, d.event)
	}
}

// Stop refuses new events and waits for queued ones to drain, or for ctx to expire
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.stopped {
		b.stopped = true
		if b.queue != nil {
			close(b.queue)
		}
	}
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("Event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus drain: %w", ctx.Err())
	}
}

// dispatchToHandler turns a handler panic into an error
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked on %s: %v", event.EventType(), r)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
