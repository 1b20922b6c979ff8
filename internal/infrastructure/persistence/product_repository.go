package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/infrastructure/persistence/tenant"
)

var productSortable = map[string]bool{
	"created_at":       true,
	"updated_at":       true,
	"name":             true,
	"sku":              true,
	"sale_price":       true,
	"quantity_on_hand": true,
	"category":         true,
}

// GormProductRepository persists products with GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant loads a product within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var model ProductModel
	err := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySKUForTenant loads a product by SKU within a tenant
func (r *GormProductRepository) FindBySKUForTenant(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	var model ProductModel
	err := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		First(&model, "sku = ?", catalog.NormalizeSKU(sku)).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsBySKUForTenant reports whether the SKU is already in use
func (r *GormProductRepository) ExistsBySKUForTenant(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	var count int64
	err := dbc(ctx, r.db).
		Model(&ProductModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("sku = ?", catalog.NormalizeSKU(sku)).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// FindAllForTenant returns a page of products and the total count
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	query := dbc(ctx, r.db).
		Model(&ProductModel{}).
		Scopes(tenant.TenantScope(tenantID))

	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(barcode) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	for _, column := range []string{"status", "type", "category", "brand"} {
		if value, ok := filter.Filters[column]; ok {
			query = query.Where(column+" = ?", value)
		}
	}
	if lowStock, ok := filter.Filters["low_stock"]; ok && lowStock == true {
		query = query.Where("track_inventory = ? AND quantity_on_hand - quantity_reserved <= reorder_point", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var models []ProductModel
	if err := applyFilter(query, filter, productSortable).Find(&models).Error; err != nil {
		return nil, 0, translateError(err)
	}

	products := make([]catalog.Product, 0, len(models))
	for i := range models {
		products = append(products, *models[i].ToDomain())
	}
	return products, total, nil
}

// FindLowStockForTenant returns tracked products at or below their
// reorder point, most depleted first.
func (r *GormProductRepository) FindLowStockForTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]catalog.Product, error) {
	if limit < 1 {
		limit = 50
	}
	var models []ProductModel
	err := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		Where("track_inventory = ? AND status = ?", true, string(catalog.ProductStatusActive)).
		Where("quantity_on_hand - quantity_reserved <= reorder_point").
		Order("quantity_on_hand - quantity_reserved ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, translateError(err)
	}

	products := make([]catalog.Product, 0, len(models))
	for i := range models {
		products = append(products, *models[i].ToDomain())
	}
	return products, nil
}

// Save inserts a new product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := newProductModel(product)
	return translateError(dbc(ctx, r.db).Create(model).Error)
}

// Update persists changes with optimistic locking. Quantity caches are
// written here too, so ledger appliers must hold the row inside a
// transaction.
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	model := newProductModel(product)
	model.Version = product.Version + 1

	result := dbc(ctx, r.db).
		Model(&ProductModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", product.ID, product.TenantID, product.Version).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	product.IncrementVersion()
	return nil
}

// Delete removes a product within a tenant
func (r *GormProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		Delete(&ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
