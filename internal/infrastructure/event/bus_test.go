package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

type busTestEvent struct {
	shared.BaseDomainEvent
	Note string `json:"note"`
}

func newBusTestEvent(eventType string) *busTestEvent {
	return &busTestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Contact", uuid.New(), uuid.New()),
		Note:            "hello",
	}
}

// busHandler is a concurrency-safe recording handler with an optional
// injected failure.
type busHandler struct {
	mu       sync.Mutex
	types    []string
	err      error
	panicMsg string
	received []shared.DomainEvent
}

func (h *busHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.received = append(h.received, event)
	h.mu.Unlock()
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	return h.err
}

func (h *busHandler) EventTypes() []string { return h.types }

func (h *busHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

func TestEventBus_PublishDelivers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &busHandler{}
	bus.Subscribe(handler, "contact.created")

	ev := newBusTestEvent("contact.created")
	require.NoError(t, bus.Publish(context.Background(), ev))

	require.Equal(t, 1, handler.count())
	assert.Equal(t, ev, handler.received[0])
}

func TestEventBus_PublishMultipleEventsAndHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	first := &busHandler{}
	second := &busHandler{}
	bus.Subscribe(first, "order.confirmed")
	bus.Subscribe(second, "order.confirmed")

	require.NoError(t, bus.Publish(context.Background(),
		newBusTestEvent("order.confirmed"),
		newBusTestEvent("order.confirmed"),
	))

	assert.Equal(t, 2, first.count())
	assert.Equal(t, 2, second.count())
}

func TestEventBus_SubscribeUsesHandlerEventTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &busHandler{types: []string{"stock.adjusted"}}

	// No explicit types: the bus asks the handler.
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newBusTestEvent("stock.adjusted")))
	require.NoError(t, bus.Publish(context.Background(), newBusTestEvent("order.confirmed")))

	assert.Equal(t, 1, handler.count())
}

func TestEventBus_WildcardHandlerSeesEverything(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &busHandler{}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newBusTestEvent("contact.created")))
	require.NoError(t, bus.Publish(context.Background(), newBusTestEvent("product.archived")))

	assert.Equal(t, 2, handler.count())
}

func TestEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &busHandler{err: errors.New("downstream unavailable")}
	healthy := &busHandler{}
	bus.Subscribe(failing, "order.confirmed")
	bus.Subscribe(healthy, "order.confirmed")

	require.NoError(t, bus.Publish(context.Background(), newBusTestEvent("order.confirmed")))

	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, healthy.count())
}

func TestEventBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &busHandler{panicMsg: "boom"}
	healthy := &busHandler{}
	bus.Subscribe(panicking, "order.confirmed")
	bus.Subscribe(healthy, "order.confirmed")

	assert.NotPanics(t, func() {
		require.NoError(t, bus.Publish(context.Background(), newBusTestEvent("order.confirmed")))
	})
	assert.Equal(t, 1, healthy.count())
}

func TestEventBus_NoMatchingHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &busHandler{}
	bus.Subscribe(handler, "contact.created")

	require.NoError(t, bus.Publish(context.Background(), newBusTestEvent("order.confirmed")))

	assert.Zero(t, handler.count())
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &busHandler{}
	bus.Subscribe(handler, "contact.created")

	require.NoError(t, bus.Publish(context.Background(), newBusTestEvent("contact.created")))
	require.Equal(t, 1, handler.count())

	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newBusTestEvent("contact.created")))
	assert.Equal(t, 1, handler.count())
}

func TestEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))

	handler := &busHandler{}
	bus.Subscribe(handler, "contact.created")
	require.NoError(t, bus.Publish(ctx, newBusTestEvent("contact.created")))
	assert.Equal(t, 1, handler.count())

	require.NoError(t, bus.Stop(ctx))
}
