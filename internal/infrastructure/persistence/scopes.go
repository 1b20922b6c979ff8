package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	identityapp "github.com/elevatecrm/backend/internal/application/identity"
	inventoryapp "github.com/elevatecrm/backend/internal/application/inventory"
	tradeapp "github.com/elevatecrm/backend/internal/application/trade"
	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/identity"
	"github.com/elevatecrm/backend/internal/domain/inventory"
	"github.com/elevatecrm/backend/internal/domain/trade"
	"github.com/elevatecrm/backend/internal/infrastructure/persistence/tenant"
)

// GormRegistrationScope wraps company and user writes in one
// transaction so a tenant is never created without its admin.
// Registration runs before any request transaction exists, so the
// scope sets the row level security GUC itself; without it the FORCE
// RLS policy on users would reject the admin insert.
type GormRegistrationScope struct {
	db *gorm.DB
}

// NewGormRegistrationScope creates the registration scope
func NewGormRegistrationScope(db *gorm.DB) *GormRegistrationScope {
	return &GormRegistrationScope{db: db}
}

// Execute runs fn inside a database transaction bound to the new tenant
func (s *GormRegistrationScope) Execute(ctx context.Context, tenantID uuid.UUID, fn func(identity.CompanyRepository, identity.UserRepository) error) error {
	if tenantID == uuid.Nil {
		return tenant.ErrTenantIDRequired
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tenant.SetRLSTenant(tx, tenantID); err != nil {
				return err
			}
		}
		return fn(NewGormCompanyRepository(tx), NewGormUserRepository(tx))
	})
}

var _ identityapp.RegistrationScope = (*GormRegistrationScope)(nil)

// GormStockScope wraps ledger and product-cache writes in one
// transaction. Inside a request transaction the scope becomes a
// savepoint on the same connection, keeping the RLS GUC in effect.
type GormStockScope struct {
	db *gorm.DB
}

// NewGormStockScope creates the stock scope
func NewGormStockScope(db *gorm.DB) *GormStockScope {
	return &GormStockScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormStockScope) Execute(ctx context.Context, fn func(inventory.StockMoveRepository, catalog.ProductRepository) error) error {
	return dbc(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStockMoveRepository(tx), NewGormProductRepository(tx))
	})
}

var _ inventoryapp.StockScope = (*GormStockScope)(nil)

// GormOrderScope wraps order, product and ledger writes in one
// transaction for order status transitions with stock side effects.
type GormOrderScope struct {
	db *gorm.DB
}

// NewGormOrderScope creates the order scope
func NewGormOrderScope(db *gorm.DB) *GormOrderScope {
	return &GormOrderScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormOrderScope) Execute(ctx context.Context, fn func(trade.OrderRepository, catalog.ProductRepository, inventory.StockMoveRepository) error) error {
	return dbc(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormOrderRepository(tx), NewGormProductRepository(tx), NewGormStockMoveRepository(tx))
	})
}

var _ tradeapp.OrderScope = (*GormOrderScope)(nil)
