// Package tenant keeps GORM queries inside one company's data.
//
// Repositories apply TenantScope explicitly; the UnitOfWork (rls.go)
// opens request-scoped transactions with the Postgres row level
// security GUC set, so the database itself backs the scope up.
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// defaultTenantColumn names the column every tenant-owned table carries.
const defaultTenantColumn = "tenant_id"

// ErrTenantIDRequired is returned when no tenant is available and the
// scope demands one.
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// ErrInvalidTenantID is returned when the tenant ID is not a UUID.
var ErrInvalidTenantID = errors.New("invalid tenant_id format")

// TenantScope restricts a query to one tenant. This is what the
// repositories chain into every statement.
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// TenantScopeString is TenantScope for callers holding the ID as text.
func TenantScopeString(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
