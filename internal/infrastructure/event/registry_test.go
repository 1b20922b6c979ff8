package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// recordingHandler collects every event it receives.
type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.received = append(h.received, event)
	return nil
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func TestHandlerRegistry_TypedSubscription(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &recordingHandler{}

	registry.Register(handler, "contact.created", "contact.updated")

	assert.Len(t, registry.GetHandlers("contact.created"), 1)
	assert.Len(t, registry.GetHandlers("contact.updated"), 1)
	assert.Empty(t, registry.GetHandlers("contact.deleted"))
}

func TestHandlerRegistry_WildcardSubscription(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &recordingHandler{}

	// No types subscribes to everything.
	registry.Register(handler)

	assert.Len(t, registry.GetHandlers("order.confirmed"), 1)
	assert.Len(t, registry.GetHandlers("anything.else"), 1)
}

func TestHandlerRegistry_TypedBeforeWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := &recordingHandler{}
	wildcard := &recordingHandler{}

	registry.Register(wildcard)
	registry.Register(typed, "order.confirmed")

	got := registry.GetHandlers("order.confirmed")
	assert.Len(t, got, 2)
	assert.Same(t, typed, got[0].(*recordingHandler))
	assert.Same(t, wildcard, got[1].(*recordingHandler))

	other := registry.GetHandlers("stock.adjusted")
	assert.Len(t, other, 1)
	assert.Same(t, wildcard, other[0].(*recordingHandler))
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	first := &recordingHandler{}
	second := &recordingHandler{}

	registry.Register(first, "order.confirmed")
	registry.Register(second, "order.confirmed")
	assert.Len(t, registry.GetHandlers("order.confirmed"), 2)

	registry.Unregister(first)

	got := registry.GetHandlers("order.confirmed")
	assert.Len(t, got, 1)
	assert.Same(t, second, got[0].(*recordingHandler))
}

func TestHandlerRegistry_UnregisterWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &recordingHandler{}

	registry.Register(handler)
	assert.Len(t, registry.GetHandlers("any.event"), 1)

	registry.Unregister(handler)
	assert.Empty(t, registry.GetHandlers("any.event"))
}

func TestHandlerRegistry_GetAllHandlers(t *testing.T) {
	registry := NewHandlerRegistry()
	a := &recordingHandler{}
	b := &recordingHandler{}
	wildcard := &recordingHandler{}

	registry.Register(a, "contact.created")
	registry.Register(b, "user.created")
	registry.Register(wildcard)

	assert.Len(t, registry.GetAllHandlers(), 3)
}

func TestHandlerRegistry_GetAllHandlersDeduplicates(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &recordingHandler{}

	registry.Register(handler, "contact.created", "contact.updated", "contact.archived")

	assert.Len(t, registry.GetAllHandlers(), 1)
}
