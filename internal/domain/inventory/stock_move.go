package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// MovementType classifies a ledger entry
type MovementType string

const (
	MovementPurchase   MovementType = "purchase"
	MovementSale       MovementType = "sale"
	MovementTransfer   MovementType = "transfer"
	MovementAdjustment MovementType = "adjustment"
	MovementReturn     MovementType = "return"
)

// MoveStatus tracks a ledger entry's lifecycle
type MoveStatus string

const (
	MoveStatusPending   MoveStatus = "pending"
	MoveStatusCompleted MoveStatus = "completed"
	MoveStatusCancelled MoveStatus = "cancelled"
)

// StockMove is an append-only inventory ledger entry. Quantity is the
// signed delta applied to the product's on-hand cache: positive for
// receipts and returns, negative for sales, either sign for
// adjustments. Transfers carry the moved amount but net to zero.
type StockMove struct {
	shared.TenantAggregateRoot
	ProductID      uuid.UUID
	FromLocationID *uuid.UUID
	ToLocationID   *uuid.UUID
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal
	Type           MovementType
	Status         MoveStatus
	ReferenceType  string
	ReferenceID    *uuid.UUID
	Notes          string
	MovedAt        time.Time
}

// NewStockMove creates a new ledger entry in pending state
func NewStockMove(tenantID, productID uuid.UUID, movementType MovementType, quantity decimal.Decimal) (*StockMove, error) {
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Move quantity cannot be zero")
	}

	switch movementType {
	case MovementPurchase, MovementReturn, MovementTransfer:
		if quantity.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Quantity must be positive for this movement type")
		}
	case MovementSale:
		if quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Sale quantity must be negative")
		}
	case MovementAdjustment:
		// adjustments may carry either sign
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown movement type")
	}

	return &StockMove{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		Quantity:            quantity,
		UnitCost:            decimal.Zero,
		Type:                movementType,
		Status:              MoveStatusPending,
		MovedAt:             time.Now(),
	}, nil
}

// OnHandDelta returns the net change to the product's on-hand
// quantity when this move completes. Transfers net to zero because
// stock only changes location.
func (m *StockMove) OnHandDelta() decimal.Decimal {
	if m.Type == MovementTransfer {
		return decimal.Zero
	}
	return m.Quantity
}

// SetLocations sets the from/to endpoints for the move
func (m *StockMove) SetLocations(from, to *uuid.UUID) error {
	if m.Type == MovementTransfer && (from == nil || to == nil) {
		return shared.NewDomainError("INVALID_INPUT", "Transfers require both locations")
	}
	if m.Type == MovementTransfer && from != nil && to != nil && *from == *to {
		return shared.NewDomainError("INVALID_INPUT", "Transfer source and destination must differ")
	}
	m.FromLocationID = from
	m.ToLocationID = to
	return nil
}

// SetUnitCost records the per-unit cost for valuation
func (m *StockMove) SetUnitCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Unit cost cannot be negative")
	}
	m.UnitCost = cost
	return nil
}

// SetReference links the move to the document that caused it
func (m *StockMove) SetReference(refType string, refID uuid.UUID) {
	m.ReferenceType = refType
	m.ReferenceID = &refID
}

// Complete marks the move as applied to the on-hand cache
func (m *StockMove) Complete() error {
	if m.Status != MoveStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending moves can be completed")
	}
	m.Status = MoveStatusCompleted
	m.MovedAt = time.Now()
	m.Touch()
	return nil
}

// Cancel voids a pending move. Completed moves are immutable; a
// correcting adjustment must be recorded instead.
func (m *StockMove) Cancel() error {
	if m.Status != MoveStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending moves can be cancelled")
	}
	m.Status = MoveStatusCancelled
	m.Touch()
	return nil
}
