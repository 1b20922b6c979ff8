package event

import (
	"sync"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// wildcardType subscribes a handler to every event type.
const wildcardType = "*"

// HandlerRegistry tracks which handlers listen to which event types.
// Safe for concurrent registration and lookup.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
}

// NewHandlerRegistry creates an empty registry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string][]shared.EventHandler),
	}
}

// Register subscribes handler to the given event types. With no types
// it becomes a wildcard subscriber and receives everything.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		eventTypes = []string{wildcardType}
	}
	for _, eventType := range eventTypes {
		r.handlers[eventType] = append(r.handlers[eventType], handler)
	}
}

// Unregister drops the handler from every subscription, wildcard
// included.
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for eventType, handlers := range r.handlers {
		kept := handlers[:0:0]
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		if len(kept) == 0 {
			delete(r.handlers, eventType)
			continue
		}
		r.handlers[eventType] = kept
	}
}

// GetHandlers returns the handlers for eventType, type-specific
// subscribers first, then wildcards.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := r.handlers[eventType]
	wild := r.handlers[wildcardType]

	result := make([]shared.EventHandler, 0, len(typed)+len(wild))
	result = append(result, typed...)
	result = append(result, wild...)
	return result
}

// GetAllHandlers returns every distinct registered handler.
func (r *HandlerRegistry) GetAllHandlers() []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[shared.EventHandler]bool)
	result := make([]shared.EventHandler, 0)
	for _, handlers := range r.handlers {
		for _, h := range handlers {
			if !seen[h] {
				seen[h] = true
				result = append(result, h)
			}
		}
	}
	return result
}
