package shared

import "context"

// EventHandler reacts to events of committed plans
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types to deliver; empty means all
	EventTypes() []string
}

// EventPublisher is the port the ledger service publishes committed events through.
// Events are only published after their plan has been written.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus routes published events to subscribed handlers
type EventBus interface {
	EventPublisher
	// Subscribe registers handler for eventTypes, or for its own EventTypes when none are given
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
