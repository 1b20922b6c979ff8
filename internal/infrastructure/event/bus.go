// Package event provides the in-process event bus that fans domain
// events out to application handlers (notification relay, cache
// invalidation, audit logging).
package event

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// InMemoryEventBus delivers events synchronously, in the caller's
// goroutine. A failing handler is logged and skipped; it never aborts
// the publishing request or the remaining handlers.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
}

// NewInMemoryEventBus creates a bus with an empty handler registry.
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)

// Publish delivers each event to every matching handler.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, ev := range events {
		for _, handler := range b.registry.GetHandlers(ev.EventType()) {
			if err := b.dispatch(ctx, handler, ev); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", ev.EventType()),
					zap.String("event_id", ev.EventID().String()),
					zap.String("aggregate_type", ev.AggregateType()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler. Without explicit eventTypes the
// handler's own EventTypes() decides what it receives; an empty list
// there subscribes it to everything.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes the handler from every subscription.
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start marks the bus as running.
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop marks the bus as stopped. Synchronous delivery means there is
// no in-flight work to drain.
func (b *InMemoryEventBus) Stop(_ context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped")
	return nil
}

// dispatch isolates handler panics so one bad subscriber cannot take
// down the request that published the event.
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", ev.EventType()),
				zap.Any("panic", r),
			)
		}
	}()
	return handler.Handle(ctx, ev)
}
