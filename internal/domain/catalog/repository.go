package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// ProductRepository persists product aggregates
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindBySKUForTenant(ctx context.Context, tenantID uuid.UUID, sku string) (*Product, error)
	ExistsBySKUForTenant(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	FindLowStockForTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// StockLocationRepository persists stock location aggregates
type StockLocationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockLocation, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockLocation, int64, error)
	ExistsByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	FindDefaultForTenant(ctx context.Context, tenantID uuid.UUID) (*StockLocation, error)
	Save(ctx context.Context, location *StockLocation) error
	Update(ctx context.Context, location *StockLocation) error
	// SetDefault atomically makes the given location the tenant
	// default, clearing the flag on any other location.
	SetDefault(ctx context.Context, tenantID, id uuid.UUID) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
