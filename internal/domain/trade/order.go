package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// OrderType classifies the trade document
type OrderType string

const (
	OrderTypeQuote         OrderType = "quote"
	OrderTypeSalesOrder    OrderType = "sales_order"
	OrderTypePurchaseOrder OrderType = "purchase_order"
	OrderTypeInvoice       OrderType = "invoice"
)

// OrderStatus tracks the document's state machine:
// draft -> sent -> confirmed -> fulfilled, with cancellation allowed
// from any pre-fulfilled state.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus tracks money collected against the order
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// NumberPrefix returns the order-number prefix for the given type
func NumberPrefix(t OrderType) string {
	switch t {
	case OrderTypeQuote:
		return "QT"
	case OrderTypePurchaseOrder:
		return "PO"
	case OrderTypeInvoice:
		return "INV"
	default:
		return "ORD"
	}
}

// Order is a trade document with line items. Money columns are always
// recomputed from the line items; they are never set directly.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber     string
	Type            OrderType
	Status          OrderStatus
	ContactID       *uuid.UUID
	BillingAddress  map[string]any
	ShippingAddress map[string]any
	Currency        string
	Subtotal        decimal.Decimal
	DiscountTotal   decimal.Decimal
	TaxTotal        decimal.Decimal
	ShippingCost    decimal.Decimal
	Total           decimal.Decimal
	PaymentStatus   PaymentStatus
	Notes           string
	OrderDate       time.Time
	SentAt          *time.Time
	ConfirmedAt     *time.Time
	FulfilledAt     *time.Time
	CancelledAt     *time.Time
	LineItems       []LineItem
}

// NewOrder creates a new draft order. The order number is assigned by
// the repository when the draft is first persisted.
func NewOrder(tenantID uuid.UUID, orderType OrderType) (*Order, error) {
	switch orderType {
	case OrderTypeQuote, OrderTypeSalesOrder, OrderTypePurchaseOrder, OrderTypeInvoice:
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown order type")
	}

	return &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                orderType,
		Status:              OrderStatusDraft,
		Currency:            "USD",
		Subtotal:            decimal.Zero,
		DiscountTotal:       decimal.Zero,
		TaxTotal:            decimal.Zero,
		ShippingCost:        decimal.Zero,
		Total:               decimal.Zero,
		PaymentStatus:       PaymentUnpaid,
		OrderDate:           time.Now(),
		LineItems:           make([]LineItem, 0),
	}, nil
}

// IsEditable reports whether line items may still change
func (o *Order) IsEditable() bool {
	return o.Status == OrderStatusDraft
}

// IsStockAffecting reports whether this document type moves inventory
func (o *Order) IsStockAffecting() bool {
	return o.Type == OrderTypeSalesOrder || o.Type == OrderTypePurchaseOrder
}

// SetContact links the order to a CRM contact
func (o *Order) SetContact(contactID uuid.UUID) {
	o.ContactID = &contactID
	o.Touch()
}

// SetAddresses sets billing and shipping address documents
func (o *Order) SetAddresses(billing, shipping map[string]any) {
	o.BillingAddress = billing
	o.ShippingAddress = shipping
	o.Touch()
}

// SetCurrency sets the order currency while still in draft
func (o *Order) SetCurrency(currency string) error {
	if !o.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be modified")
	}
	if len(currency) != 3 {
		return shared.NewDomainError("INVALID_INPUT", "Currency must be a 3-letter ISO code")
	}
	o.Currency = strings.ToUpper(currency)
	o.Touch()
	return nil
}

// SetShippingCost sets the shipping charge and recomputes totals
func (o *Order) SetShippingCost(cost decimal.Decimal) error {
	if !o.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be modified")
	}
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Shipping cost cannot be negative")
	}
	o.ShippingCost = cost
	o.recalculate()
	return nil
}

// AddLineItem appends a line item and recomputes totals
func (o *Order) AddLineItem(item LineItem) error {
	if !o.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", "Line items can only change while the order is a draft")
	}
	item.OrderID = o.ID
	item.TenantID = o.TenantID
	item.recalculate()
	o.LineItems = append(o.LineItems, item)
	o.recalculate()
	return nil
}

// UpdateLineItem replaces the line item with the given ID
func (o *Order) UpdateLineItem(itemID uuid.UUID, quantity, unitPrice, discountPct, taxPct decimal.Decimal) error {
	if !o.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", "Line items can only change while the order is a draft")
	}
	for i := range o.LineItems {
		if o.LineItems[i].ID != itemID {
			continue
		}
		if err := o.LineItems[i].setAmounts(quantity, unitPrice, discountPct, taxPct); err != nil {
			return err
		}
		o.recalculate()
		return nil
	}
	return shared.NewDomainError("NOT_FOUND", "Line item not found")
}

// RemoveLineItem deletes the line item with the given ID
func (o *Order) RemoveLineItem(itemID uuid.UUID) error {
	if !o.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", "Line items can only change while the order is a draft")
	}
	for i := range o.LineItems {
		if o.LineItems[i].ID == itemID {
			o.LineItems = append(o.LineItems[:i], o.LineItems[i+1:]...)
			o.recalculate()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Line item not found")
}

// recalculate recomputes money columns from the line items
func (o *Order) recalculate() {
	subtotal := decimal.Zero
	discount := decimal.Zero
	tax := decimal.Zero
	for i := range o.LineItems {
		o.LineItems[i].recalculate()
		subtotal = subtotal.Add(o.LineItems[i].gross())
		discount = discount.Add(o.LineItems[i].DiscountAmount)
		tax = tax.Add(o.LineItems[i].TaxAmount)
	}
	o.Subtotal = subtotal
	o.DiscountTotal = discount
	o.TaxTotal = tax
	o.Total = subtotal.Sub(discount).Add(tax).Add(o.ShippingCost)
	o.Touch()
}

// Send transitions draft -> sent
func (o *Order) Send() error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be sent")
	}
	if len(o.LineItems) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Order has no line items")
	}
	now := time.Now()
	o.Status = OrderStatusSent
	o.SentAt = &now
	o.Touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, OrderStatusDraft))
	return nil
}

// Confirm transitions draft/sent -> confirmed. For sales orders the
// application layer reserves stock before persisting this transition.
func (o *Order) Confirm() error {
	if o.Status != OrderStatusDraft && o.Status != OrderStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only draft or sent orders can be confirmed")
	}
	if len(o.LineItems) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Order has no line items")
	}
	previous := o.Status
	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.Touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous))
	return nil
}

// Fulfill transitions confirmed -> fulfilled
func (o *Order) Fulfill() error {
	if o.Status != OrderStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Only confirmed orders can be fulfilled")
	}
	now := time.Now()
	o.Status = OrderStatusFulfilled
	o.FulfilledAt = &now
	o.Touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, OrderStatusConfirmed))
	return nil
}

// Cancel voids the order from any pre-fulfilled state
func (o *Order) Cancel() error {
	switch o.Status {
	case OrderStatusDraft, OrderStatusSent, OrderStatusConfirmed:
	default:
		return shared.NewDomainError("INVALID_STATE", "Fulfilled or cancelled orders cannot be cancelled")
	}
	previous := o.Status
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.Touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous))
	return nil
}

// RecordPayment updates the payment status
func (o *Order) RecordPayment(status PaymentStatus) error {
	switch status {
	case PaymentUnpaid, PaymentPartial, PaymentPaid, PaymentRefunded:
	default:
		return shared.NewDomainError("INVALID_INPUT", "Unknown payment status")
	}
	o.PaymentStatus = status
	o.Touch()
	return nil
}
