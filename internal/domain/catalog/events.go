package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// Event types emitted by the catalog module
const (
	EventStockUpdated = "stock_update"
	EventLowStock     = "low_stock"
)

// StockUpdatedEvent is emitted when a product's on-hand cache changes
type StockUpdatedEvent struct {
	shared.BaseDomainEvent
	SKU         string
	ProductName string
	OldQuantity decimal.Decimal
	NewQuantity decimal.Decimal
	Available   decimal.Decimal
}

// NewStockUpdatedEvent creates a stock updated event
func NewStockUpdatedEvent(product *Product, oldQty, newQty decimal.Decimal) *StockUpdatedEvent {
	return &StockUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStockUpdated, "Product", product.ID, product.TenantID),
		SKU:             product.SKU,
		ProductName:     product.Name,
		OldQuantity:     oldQty,
		NewQuantity:     newQty,
		Available:       product.QuantityAvailable(),
	}
}

// Payload implements shared.EventPayloader
func (e *StockUpdatedEvent) Payload() map[string]any {
	return map[string]any{
		"product_id":   e.AggID.String(),
		"sku":          e.SKU,
		"name":         e.ProductName,
		"old_quantity": e.OldQuantity.InexactFloat64(),
		"new_quantity": e.NewQuantity.InexactFloat64(),
		"available":    e.Available.InexactFloat64(),
	}
}

// LowStockEvent is emitted when available stock crosses the reorder point
type LowStockEvent struct {
	shared.BaseDomainEvent
	SKU             string
	ProductName     string
	Available       decimal.Decimal
	ReorderPoint    decimal.Decimal
	ReorderQuantity decimal.Decimal
}

// NewLowStockEvent creates a low stock event
func NewLowStockEvent(product *Product) *LowStockEvent {
	return &LowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventLowStock, "Product", product.ID, product.TenantID),
		SKU:             product.SKU,
		ProductName:     product.Name,
		Available:       product.QuantityAvailable(),
		ReorderPoint:    product.ReorderPoint,
		ReorderQuantity: product.ReorderQuantity,
	}
}

// Payload implements shared.EventPayloader
func (e *LowStockEvent) Payload() map[string]any {
	return map[string]any{
		"product_id":       e.AggID.String(),
		"sku":              e.SKU,
		"name":             e.ProductName,
		"available":        e.Available.InexactFloat64(),
		"reorder_point":    e.ReorderPoint.InexactFloat64(),
		"reorder_quantity": e.ReorderQuantity.InexactFloat64(),
	}
}
