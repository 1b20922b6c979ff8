package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevatecrm/backend/internal/domain/inventory"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/infrastructure/persistence/tenant"
)

var moveSortable = map[string]bool{
	"created_at": true,
	"moved_at":   true,
	"quantity":   true,
}

// GormStockMoveRepository persists inventory ledger entries with GORM
type GormStockMoveRepository struct {
	db *gorm.DB
}

// NewGormStockMoveRepository creates a stock move repository
func NewGormStockMoveRepository(db *gorm.DB) *GormStockMoveRepository {
	return &GormStockMoveRepository{db: db}
}

// FindByIDForTenant loads a ledger entry within a tenant
func (r *GormStockMoveRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockMove, error) {
	var model StockMoveModel
	err := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByProductForTenant returns a page of ledger entries for a product
func (r *GormStockMoveRepository) FindByProductForTenant(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMove, int64, error) {
	query := dbc(ctx, r.db).
		Model(&StockMoveModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("product_id = ?", productID)

	for _, column := range []string{"type", "status"} {
		if value, ok := filter.Filters[column]; ok {
			query = query.Where(column+" = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var models []StockMoveModel
	if err := applyFilter(query, filter, moveSortable).Find(&models).Error; err != nil {
		return nil, 0, translateError(err)
	}

	moves := make([]inventory.StockMove, 0, len(models))
	for i := range models {
		moves = append(moves, *models[i].ToDomain())
	}
	return moves, total, nil
}

// Save inserts a new ledger entry
func (r *GormStockMoveRepository) Save(ctx context.Context, move *inventory.StockMove) error {
	model := newStockMoveModel(move)
	return translateError(dbc(ctx, r.db).Create(model).Error)
}

// Update persists status changes with optimistic locking. The ledger is
// append-only apart from the pending -> completed/cancelled transition.
func (r *GormStockMoveRepository) Update(ctx context.Context, move *inventory.StockMove) error {
	result := dbc(ctx, r.db).
		Model(&StockMoveModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", move.ID, move.TenantID, move.Version).
		Updates(map[string]any{
			"status":     string(move.Status),
			"moved_at":   move.MovedAt,
			"notes":      move.Notes,
			"version":    gorm.Expr("version + 1"),
			"updated_at": move.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	move.IncrementVersion()
	return nil
}

// DailySalesForProduct aggregates completed sale quantities per day for
// the forecasting models, oldest day first. Sale quantities are stored
// negative in the ledger, so the sum is negated.
func (r *GormStockMoveRepository) DailySalesForProduct(ctx context.Context, tenantID, productID uuid.UUID, since time.Time) ([]inventory.DailySales, error) {
	type row struct {
		Day      string
		Quantity float64
	}
	var rows []row
	err := dbc(ctx, r.db).
		Model(&StockMoveModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Select("DATE(moved_at) AS day, -SUM(quantity) AS quantity").
		Where("product_id = ? AND type = ? AND status = ? AND moved_at >= ?",
			productID, string(inventory.MovementSale), string(inventory.MoveStatusCompleted), since).
		Group("DATE(moved_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	sales := make([]inventory.DailySales, 0, len(rows))
	for _, r := range rows {
		day, err := parseDay(r.Day)
		if err != nil {
			return nil, err
		}
		sales = append(sales, inventory.DailySales{Day: day, Quantity: r.Quantity})
	}
	return sales, nil
}

var _ inventory.StockMoveRepository = (*GormStockMoveRepository)(nil)
