package shared

import "context"

// EventHandler reacts to published domain events.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types this handler wants. An empty
	// slice subscribes it to everything.
	EventTypes() []string
}

// EventPublisher delivers events to the registered handlers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations.
type EventSubscriber interface {
	// Subscribe registers handler for the given event types, or for
	// all events when none are named.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the full publish and subscribe surface plus lifecycle
// control for implementations with background workers.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
