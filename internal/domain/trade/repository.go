package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// RevenuePoint is one day of fulfilled sales revenue
type RevenuePoint struct {
	Day     time.Time
	Revenue decimal.Decimal
	Orders  int64
}

// OrderRepository persists order aggregates including line items.
// Save assigns the order number from the tenant's sequence.
type OrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*Order, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
	Save(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[OrderStatus]int64, error)
	CountByContact(ctx context.Context, tenantID, contactID uuid.UUID) (int64, error)
	RevenueByContact(ctx context.Context, tenantID, contactID uuid.UUID) (decimal.Decimal, error)
	RevenueSince(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]RevenuePoint, error)
}
