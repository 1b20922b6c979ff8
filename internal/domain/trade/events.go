package trade

import (
	"github.com/elevatecrm/backend/internal/domain/shared"
)

// Event types emitted by the trade module
const (
	EventOrderUpdated = "order_update"
)

// OrderStatusChangedEvent is emitted on every status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string
	OrderType      OrderType
	PreviousStatus OrderStatus
	NewStatus      OrderStatus
	Total          string
}

// NewOrderStatusChangedEvent creates an order status changed event
func NewOrderStatusChangedEvent(order *Order, previous OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderUpdated, "Order", order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		OrderType:       order.Type,
		PreviousStatus:  previous,
		NewStatus:       order.Status,
		Total:           order.Total.StringFixed(2),
	}
}

// Payload implements shared.EventPayloader
func (e *OrderStatusChangedEvent) Payload() map[string]any {
	return map[string]any{
		"order_id":        e.AggID.String(),
		"order_number":    e.OrderNumber,
		"order_type":      string(e.OrderType),
		"previous_status": string(e.PreviousStatus),
		"new_status":      string(e.NewStatus),
		"total":           e.Total,
	}
}
