package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/infrastructure/persistence/tenant"
)

var locationSortable = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"code":       true,
}

// GormStockLocationRepository persists stock locations with GORM
type GormStockLocationRepository struct {
	db *gorm.DB
}

// NewGormStockLocationRepository creates a stock location repository
func NewGormStockLocationRepository(db *gorm.DB) *GormStockLocationRepository {
	return &GormStockLocationRepository{db: db}
}

// FindByIDForTenant loads a location within a tenant
func (r *GormStockLocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.StockLocation, error) {
	var model StockLocationModel
	err := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns a page of locations and the total count
func (r *GormStockLocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.StockLocation, int64, error) {
	query := dbc(ctx, r.db).
		Model(&StockLocationModel{}).
		Scopes(tenant.TenantScope(tenantID))

	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", pattern, pattern)
	}
	if value, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", value)
	}
	if value, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", value)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var models []StockLocationModel
	if err := applyFilter(query, filter, locationSortable).Find(&models).Error; err != nil {
		return nil, 0, translateError(err)
	}

	locations := make([]catalog.StockLocation, 0, len(models))
	for i := range models {
		locations = append(locations, *models[i].ToDomain())
	}
	return locations, total, nil
}

// ExistsByCodeForTenant reports whether the location code is taken
func (r *GormStockLocationRepository) ExistsByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := dbc(ctx, r.db).
		Model(&StockLocationModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// FindDefaultForTenant loads the tenant's default location
func (r *GormStockLocationRepository) FindDefaultForTenant(ctx context.Context, tenantID uuid.UUID) (*catalog.StockLocation, error) {
	var model StockLocationModel
	err := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		First(&model, "is_default = ?", true).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save inserts a new location
func (r *GormStockLocationRepository) Save(ctx context.Context, location *catalog.StockLocation) error {
	model := newStockLocationModel(location)
	return translateError(dbc(ctx, r.db).Create(model).Error)
}

// Update persists changes with optimistic locking
func (r *GormStockLocationRepository) Update(ctx context.Context, location *catalog.StockLocation) error {
	model := newStockLocationModel(location)
	model.Version = location.Version + 1

	result := dbc(ctx, r.db).
		Model(&StockLocationModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", location.ID, location.TenantID, location.Version).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	location.IncrementVersion()
	return nil
}

// SetDefault atomically flips the default flag to the given location
func (r *GormStockLocationRepository) SetDefault(ctx context.Context, tenantID, id uuid.UUID) error {
	return dbc(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&StockLocationModel{}).
			Scopes(tenant.TenantScope(tenantID)).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return translateError(err)
		}

		result := tx.Model(&StockLocationModel{}).
			Scopes(tenant.TenantScope(tenantID)).
			Where("id = ?", id).
			Update("is_default", true)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Delete removes a location within a tenant
func (r *GormStockLocationRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		Delete(&StockLocationModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.StockLocationRepository = (*GormStockLocationRepository)(nil)
