package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevatecrm/backend/internal/domain/inventory"
)

// ReceiptInput records incoming stock from a supplier
type ReceiptInput struct {
	ProductID    uuid.UUID
	ToLocationID *uuid.UUID
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	Notes        string
}

// SaleInput records stock leaving for a customer
type SaleInput struct {
	ProductID      uuid.UUID
	FromLocationID *uuid.UUID
	Quantity       decimal.Decimal
	ReferenceType  string
	ReferenceID    *uuid.UUID
	Notes          string
}

// TransferInput moves stock between two locations
type TransferInput struct {
	ProductID      uuid.UUID
	FromLocationID uuid.UUID
	ToLocationID   uuid.UUID
	Quantity       decimal.Decimal
	Notes          string
}

// AdjustmentInput corrects the on-hand count to an absolute value,
// typically after a physical count.
type AdjustmentInput struct {
	ProductID     uuid.UUID
	LocationID    *uuid.UUID
	CountedAmount decimal.Decimal
	Notes         string
}

// MoveInfo is the ledger entry projection for API clients
type MoveInfo struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	FromLocationID *uuid.UUID      `json:"from_location_id,omitempty"`
	ToLocationID   *uuid.UUID      `json:"to_location_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	ReferenceType  string          `json:"reference_type,omitempty"`
	ReferenceID    *uuid.UUID      `json:"reference_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	MovedAt        time.Time       `json:"moved_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewMoveInfo projects a stock move for API responses
func NewMoveInfo(move *inventory.StockMove) MoveInfo {
	return MoveInfo{
		ID:             move.ID,
		ProductID:      move.ProductID,
		FromLocationID: move.FromLocationID,
		ToLocationID:   move.ToLocationID,
		Quantity:       move.Quantity,
		UnitCost:       move.UnitCost,
		Type:           string(move.Type),
		Status:         string(move.Status),
		ReferenceType:  move.ReferenceType,
		ReferenceID:    move.ReferenceID,
		Notes:          move.Notes,
		MovedAt:        move.MovedAt,
		CreatedAt:      move.CreatedAt,
	}
}
