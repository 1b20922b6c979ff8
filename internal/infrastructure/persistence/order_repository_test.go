package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/domain/trade"
)

func newTestOrder(t *testing.T, tenantID uuid.UUID, orderType trade.OrderType) *trade.Order {
	t.Helper()

	order, err := trade.NewOrder(tenantID, orderType)
	require.NoError(t, err)

	item, err := trade.NewLineItem(nil, "Widget", "WID-1",
		decimal.NewFromInt(2), decimal.NewFromInt(50), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, order.AddLineItem(*item))
	return order
}

func TestOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()

	t.Run("save assigns sequential numbers per type", func(t *testing.T) {
		first := newTestOrder(t, tenantID, trade.OrderTypeSalesOrder)
		require.NoError(t, repo.Save(ctx, first))
		assert.Equal(t, "ORD-000001", first.OrderNumber)

		second := newTestOrder(t, tenantID, trade.OrderTypeSalesOrder)
		require.NoError(t, repo.Save(ctx, second))
		assert.Equal(t, "ORD-000002", second.OrderNumber)

		quote := newTestOrder(t, tenantID, trade.OrderTypeQuote)
		require.NoError(t, repo.Save(ctx, quote))
		assert.Equal(t, "QT-000001", quote.OrderNumber)
	})

	t.Run("sequences are independent per tenant", func(t *testing.T) {
		other := newTestOrder(t, uuid.New(), trade.OrderTypeSalesOrder)
		require.NoError(t, repo.Save(ctx, other))
		assert.Equal(t, "ORD-000001", other.OrderNumber)
	})

	t.Run("loads line items with the order", func(t *testing.T) {
		order := newTestOrder(t, tenantID, trade.OrderTypeInvoice)
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByNumberForTenant(ctx, tenantID, order.OrderNumber)
		require.NoError(t, err)
		require.Len(t, found.LineItems, 1)
		assert.Equal(t, "Widget", found.LineItems[0].Name)
		assert.True(t, found.Total.Equal(decimal.NewFromInt(100)))
	})

	t.Run("update replaces line items", func(t *testing.T) {
		order := newTestOrder(t, tenantID, trade.OrderTypeSalesOrder)
		require.NoError(t, repo.Save(ctx, order))

		extra, err := trade.NewLineItem(nil, "Gadget", "GAD-1",
			decimal.NewFromInt(1), decimal.NewFromInt(30), decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, order.AddLineItem(*extra))
		require.NoError(t, repo.Update(ctx, order))

		found, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		require.NoError(t, err)
		assert.Len(t, found.LineItems, 2)
		assert.True(t, found.Total.Equal(decimal.NewFromInt(130)))
		assert.Equal(t, order.Version, found.Version)
	})

	t.Run("update with stale version conflicts", func(t *testing.T) {
		order := newTestOrder(t, tenantID, trade.OrderTypeSalesOrder)
		require.NoError(t, repo.Save(ctx, order))

		stale, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		require.NoError(t, err)
		stale.Version = stale.Version - 1

		err = repo.Update(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("counts orders by status", func(t *testing.T) {
		counts, err := repo.CountByStatus(ctx, tenantID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, counts[trade.OrderStatusDraft], int64(4))
	})

	t.Run("cancelled orders are excluded from contact counts", func(t *testing.T) {
		contactID := uuid.New()

		active := newTestOrder(t, tenantID, trade.OrderTypeSalesOrder)
		active.SetContact(contactID)
		require.NoError(t, repo.Save(ctx, active))

		cancelled := newTestOrder(t, tenantID, trade.OrderTypeSalesOrder)
		cancelled.SetContact(contactID)
		require.NoError(t, cancelled.Cancel())
		require.NoError(t, repo.Save(ctx, cancelled))

		count, err := repo.CountByContact(ctx, tenantID, contactID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("revenue only counts fulfilled orders", func(t *testing.T) {
		contactID := uuid.New()

		order := newTestOrder(t, tenantID, trade.OrderTypeSalesOrder)
		order.SetContact(contactID)
		require.NoError(t, order.Send())
		require.NoError(t, order.Confirm())
		require.NoError(t, order.Fulfill())
		require.NoError(t, repo.Save(ctx, order))

		revenue, err := repo.RevenueByContact(ctx, tenantID, contactID)
		require.NoError(t, err)
		assert.True(t, revenue.Equal(decimal.NewFromInt(100)))

		none, err := repo.RevenueByContact(ctx, tenantID, uuid.New())
		require.NoError(t, err)
		assert.True(t, none.IsZero())
	})

	t.Run("delete removes the order and its items", func(t *testing.T) {
		order := newTestOrder(t, tenantID, trade.OrderTypeSalesOrder)
		require.NoError(t, repo.Save(ctx, order))
		require.NoError(t, repo.Delete(ctx, tenantID, order.ID))

		_, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var remaining int64
		require.NoError(t, db.Model(&LineItemModel{}).Where("order_id = ?", order.ID).Count(&remaining).Error)
		assert.Zero(t, remaining)
	})
}
