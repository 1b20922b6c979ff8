package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevatecrm/backend/internal/domain/trade"
)

// LineItemInput carries one order line
type LineItemInput struct {
	ProductID       *uuid.UUID
	Name            string
	SKU             string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// CreateOrderInput carries the fields for a new draft order
type CreateOrderInput struct {
	Type            string
	ContactID       *uuid.UUID
	Currency        string
	BillingAddress  map[string]any
	ShippingAddress map[string]any
	ShippingCost    decimal.Decimal
	Notes           string
	LineItems       []LineItemInput
}

// UpdateOrderInput carries draft order updates
type UpdateOrderInput struct {
	ContactID       *uuid.UUID
	Currency        string
	BillingAddress  map[string]any
	ShippingAddress map[string]any
	ShippingCost    decimal.Decimal
	Notes           string
	LineItems       []LineItemInput
}

// LineItemInfo is the line item projection for API clients
type LineItemInfo struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       *uuid.UUID      `json:"product_id,omitempty"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// OrderInfo is the order projection for API clients
type OrderInfo struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	ContactID       *uuid.UUID      `json:"contact_id,omitempty"`
	BillingAddress  map[string]any  `json:"billing_address,omitempty"`
	ShippingAddress map[string]any  `json:"shipping_address,omitempty"`
	Currency        string          `json:"currency"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountTotal   decimal.Decimal `json:"discount_total"`
	TaxTotal        decimal.Decimal `json:"tax_total"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Total           decimal.Decimal `json:"total"`
	PaymentStatus   string          `json:"payment_status"`
	Notes           string          `json:"notes,omitempty"`
	OrderDate       time.Time       `json:"order_date"`
	SentAt          *time.Time      `json:"sent_at,omitempty"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	FulfilledAt     *time.Time      `json:"fulfilled_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	LineItems       []LineItemInfo  `json:"line_items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewOrderInfo projects an order aggregate for API responses
func NewOrderInfo(order *trade.Order) OrderInfo {
	items := make([]LineItemInfo, 0, len(order.LineItems))
	for i := range order.LineItems {
		li := &order.LineItems[i]
		items = append(items, LineItemInfo{
			ID:              li.ID,
			ProductID:       li.ProductID,
			Name:            li.Name,
			SKU:             li.SKU,
			Quantity:        li.Quantity,
			UnitPrice:       li.UnitPrice,
			DiscountPercent: li.DiscountPercent,
			TaxPercent:      li.TaxPercent,
			DiscountAmount:  li.DiscountAmount,
			TaxAmount:       li.TaxAmount,
			LineTotal:       li.LineTotal,
		})
	}

	return OrderInfo{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Type:            string(order.Type),
		Status:          string(order.Status),
		ContactID:       order.ContactID,
		BillingAddress:  order.BillingAddress,
		ShippingAddress: order.ShippingAddress,
		Currency:        order.Currency,
		Subtotal:        order.Subtotal,
		DiscountTotal:   order.DiscountTotal,
		TaxTotal:        order.TaxTotal,
		ShippingCost:    order.ShippingCost,
		Total:           order.Total,
		PaymentStatus:   string(order.PaymentStatus),
		Notes:           order.Notes,
		OrderDate:       order.OrderDate,
		SentAt:          order.SentAt,
		ConfirmedAt:     order.ConfirmedAt,
		FulfilledAt:     order.FulfilledAt,
		CancelledAt:     order.CancelledAt,
		LineItems:       items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
