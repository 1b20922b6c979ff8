package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevatecrm/backend/internal/domain/inventory"
	"github.com/elevatecrm/backend/internal/domain/shared"
)

func TestStockMoveRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockMoveRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	productID := uuid.New()

	receipt, err := inventory.NewStockMove(tenantID, productID, inventory.MovementPurchase, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, receipt))

	sale, err := inventory.NewStockMove(tenantID, productID, inventory.MovementSale, decimal.NewFromInt(3).Neg())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sale))

	t.Run("lists ledger entries for a product", func(t *testing.T) {
		moves, total, err := repo.FindByProductForTenant(ctx, tenantID, productID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, moves, 2)
	})

	t.Run("filters by movement type", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["type"] = string(inventory.MovementSale)

		moves, total, err := repo.FindByProductForTenant(ctx, tenantID, productID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, moves, 1)
		assert.True(t, moves[0].Quantity.Equal(decimal.NewFromInt(-3)))
	})

	t.Run("persists status transitions", func(t *testing.T) {
		require.NoError(t, receipt.Complete())
		require.NoError(t, repo.Update(ctx, receipt))

		found, err := repo.FindByIDForTenant(ctx, tenantID, receipt.ID)
		require.NoError(t, err)
		assert.Equal(t, inventory.MoveStatusCompleted, found.Status)
		assert.Equal(t, receipt.Version, found.Version)
	})

	t.Run("update with stale version conflicts", func(t *testing.T) {
		stale, err := repo.FindByIDForTenant(ctx, tenantID, sale.ID)
		require.NoError(t, err)
		stale.Version = stale.Version - 1
		require.NoError(t, stale.Complete())

		err = repo.Update(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("ledger entries are invisible to other tenants", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), receipt.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDailySalesForProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockMoveRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	productID := uuid.New()

	// Two completed sales today plus a pending one and a purchase,
	// which must not count.
	for _, qty := range []int64{-3, -2} {
		move, err := inventory.NewStockMove(tenantID, productID, inventory.MovementSale, decimal.NewFromInt(qty))
		require.NoError(t, err)
		require.NoError(t, move.Complete())
		require.NoError(t, repo.Save(ctx, move))
	}

	pending, err := inventory.NewStockMove(tenantID, productID, inventory.MovementSale, decimal.NewFromInt(-7))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, pending))

	purchase, err := inventory.NewStockMove(tenantID, productID, inventory.MovementPurchase, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, purchase.Complete())
	require.NoError(t, repo.Save(ctx, purchase))

	sales, err := repo.DailySalesForProduct(ctx, tenantID, productID, time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)

	require.Len(t, sales, 1)
	assert.InDelta(t, 5.0, sales[0].Quantity, 1e-9)
	assert.False(t, sales[0].Day.IsZero())
}
