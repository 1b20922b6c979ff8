package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/domain/trade"
	"github.com/elevatecrm/backend/internal/infrastructure/persistence/tenant"
)

var orderSortable = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"order_date":   true,
	"order_number": true,
	"status":       true,
	"total":        true,
}

// GormOrderRepository persists order aggregates with GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates an order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForTenant loads an order with its line items
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	var model OrderModel
	err := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		Preload("LineItems").
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByNumberForTenant loads an order by its document number
func (r *GormOrderRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*trade.Order, error) {
	var model OrderModel
	err := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		Preload("LineItems").
		First(&model, "order_number = ?", orderNumber).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns a page of orders (without line items) and
// the total count
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Order, int64, error) {
	query := dbc(ctx, r.db).
		Model(&OrderModel{}).
		Scopes(tenant.TenantScope(tenantID))

	if filter.Search != "" {
		query = query.Where("LOWER(order_number) LIKE ?", searchPattern(filter.Search))
	}
	for _, column := range []string{"status", "type", "contact_id", "payment_status"} {
		if value, ok := filter.Filters[column]; ok {
			query = query.Where(column+" = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var models []OrderModel
	if err := applyFilter(query, filter, orderSortable).Find(&models).Error; err != nil {
		return nil, 0, translateError(err)
	}

	orders := make([]trade.Order, 0, len(models))
	for i := range models {
		orders = append(orders, *models[i].ToDomain())
	}
	return orders, total, nil
}

// Save inserts a new order, assigning the next document number from the
// tenant's sequence inside the same transaction.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return dbc(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if order.OrderNumber == "" {
			number, err := nextOrderNumber(tx, order.TenantID, trade.NumberPrefix(order.Type))
			if err != nil {
				return err
			}
			order.OrderNumber = number
		}
		model := newOrderModel(order)
		return translateError(tx.Create(model).Error)
	})
}

// nextOrderNumber bumps the per-tenant sequence and formats the number.
// The upsert takes a row lock, so concurrent saves serialize per tenant
// and prefix.
func nextOrderNumber(tx *gorm.DB, tenantID uuid.UUID, prefix string) (string, error) {
	var value int64
	err := tx.Raw(`
		INSERT INTO order_sequences (tenant_id, prefix, value)
		VALUES (?, ?, 1)
		ON CONFLICT (tenant_id, prefix)
		DO UPDATE SET value = order_sequences.value + 1
		RETURNING value`,
		tenantID, prefix,
	).Scan(&value).Error
	if err != nil {
		return "", fmt.Errorf("failed to advance order sequence: %w", err)
	}
	return fmt.Sprintf("%s-%06d", prefix, value), nil
}

// Update rewrites the order and replaces its line items atomically
func (r *GormOrderRepository) Update(ctx context.Context, order *trade.Order) error {
	return dbc(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		model := newOrderModel(order)
		model.Version = order.Version + 1

		result := tx.Model(&OrderModel{}).
			Where("id = ? AND tenant_id = ? AND version = ?", order.ID, order.TenantID, order.Version).
			Select("*").
			Omit("id", "tenant_id", "created_at", "created_by", "LineItems").
			Updates(model)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		// Line items are few per order; replace wholesale
		if err := tx.Where("order_id = ?", order.ID).Delete(&LineItemModel{}).Error; err != nil {
			return translateError(err)
		}
		if len(model.LineItems) > 0 {
			if err := tx.Create(&model.LineItems).Error; err != nil {
				return translateError(err)
			}
		}

		order.IncrementVersion()
		return nil
	})
}

// Delete removes a draft order and its line items
func (r *GormOrderRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return dbc(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ? AND tenant_id = ?", id, tenantID).Delete(&LineItemModel{}).Error; err != nil {
			return translateError(err)
		}
		result := tx.Scopes(tenant.TenantScope(tenantID)).Delete(&OrderModel{}, "id = ?", id)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountByStatus returns order counts grouped by status
func (r *GormOrderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[trade.OrderStatus]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := dbc(ctx, r.db).
		Model(&OrderModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	counts := make(map[trade.OrderStatus]int64, len(rows))
	for _, r := range rows {
		counts[trade.OrderStatus(r.Status)] = r.Count
	}
	return counts, nil
}

// CountByContact returns how many non-cancelled orders a contact has
func (r *GormOrderRepository) CountByContact(ctx context.Context, tenantID, contactID uuid.UUID) (int64, error) {
	var count int64
	err := dbc(ctx, r.db).
		Model(&OrderModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("contact_id = ? AND status <> ?", contactID, string(trade.OrderStatusCancelled)).
		Count(&count).Error
	return count, translateError(err)
}

// RevenueByContact sums fulfilled order totals for a contact
func (r *GormOrderRepository) RevenueByContact(ctx context.Context, tenantID, contactID uuid.UUID) (decimal.Decimal, error) {
	var revenue decimal.NullDecimal
	err := dbc(ctx, r.db).
		Model(&OrderModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Select("SUM(total)").
		Where("contact_id = ? AND status = ?", contactID, string(trade.OrderStatusFulfilled)).
		Scan(&revenue).Error
	if err != nil {
		return decimal.Zero, translateError(err)
	}
	if !revenue.Valid {
		return decimal.Zero, nil
	}
	return revenue.Decimal, nil
}

// RevenueSince returns daily fulfilled revenue from the given date,
// oldest day first
func (r *GormOrderRepository) RevenueSince(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]trade.RevenuePoint, error) {
	type row struct {
		Day     string
		Revenue decimal.Decimal
		Orders  int64
	}
	var rows []row
	err := dbc(ctx, r.db).
		Model(&OrderModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Select("DATE(order_date) AS day, SUM(total) AS revenue, COUNT(*) AS orders").
		Where("status = ? AND order_date >= ?", string(trade.OrderStatusFulfilled), since).
		Group("DATE(order_date)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	points := make([]trade.RevenuePoint, 0, len(rows))
	for _, r := range rows {
		day, err := parseDay(r.Day)
		if err != nil {
			return nil, err
		}
		points = append(points, trade.RevenuePoint{Day: day, Revenue: r.Revenue, Orders: r.Orders})
	}
	return points, nil
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
