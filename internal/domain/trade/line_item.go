package trade

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

var hundred = decimal.NewFromInt(100)

// LineItem is a single order line. Name and SKU are snapshots taken
// at the time the line is added so later catalog edits don't rewrite
// historical documents.
type LineItem struct {
	shared.BaseEntity
	OrderID         uuid.UUID
	TenantID        uuid.UUID
	ProductID       *uuid.UUID
	Name            string
	SKU             string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxAmount       decimal.Decimal
	LineTotal       decimal.Decimal
}

// NewLineItem creates a line item. productID may be nil for free-form
// lines (services, fees).
func NewLineItem(productID *uuid.UUID, name, sku string, quantity, unitPrice, discountPct, taxPct decimal.Decimal) (*LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Line item name is required")
	}

	item := &LineItem{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Name:       name,
		SKU:        sku,
	}
	if err := item.setAmounts(quantity, unitPrice, discountPct, taxPct); err != nil {
		return nil, err
	}
	return item, nil
}

// setAmounts validates and applies the numeric fields
func (li *LineItem) setAmounts(quantity, unitPrice, discountPct, taxPct decimal.Decimal) error {
	if quantity.IsNegative() || quantity.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Unit price cannot be negative")
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_INPUT", "Discount percent must be between 0 and 100")
	}
	if taxPct.IsNegative() || taxPct.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_INPUT", "Tax percent must be between 0 and 100")
	}
	li.Quantity = quantity
	li.UnitPrice = unitPrice
	li.DiscountPercent = discountPct
	li.TaxPercent = taxPct
	li.recalculate()
	return nil
}

// gross is quantity times unit price before discount and tax
func (li *LineItem) gross() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// recalculate recomputes the derived money columns
func (li *LineItem) recalculate() {
	gross := li.gross()
	li.DiscountAmount = gross.Mul(li.DiscountPercent).Div(hundred).Round(2)
	taxable := gross.Sub(li.DiscountAmount)
	li.TaxAmount = taxable.Mul(li.TaxPercent).Div(hundred).Round(2)
	li.LineTotal = taxable.Add(li.TaxAmount)
}
