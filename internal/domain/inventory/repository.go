package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// DailySales is one day of completed sale volume for a product,
// aggregated from the ledger for forecasting.
type DailySales struct {
	Day      time.Time
	Quantity float64
}

// StockMoveRepository persists ledger entries
type StockMoveRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockMove, error)
	FindByProductForTenant(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockMove, int64, error)
	Save(ctx context.Context, move *StockMove) error
	Update(ctx context.Context, move *StockMove) error
	// DailySalesForProduct returns per-day completed sale quantities
	// (absolute values) for the trailing window, oldest first.
	DailySalesForProduct(ctx context.Context, tenantID, productID uuid.UUID, since time.Time) ([]DailySales, error)
}
