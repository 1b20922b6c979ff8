package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/shared"
)

func TestProductRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()

	product, err := catalog.NewProduct(tenantID, "Standing Desk", "desk-001", catalog.ProductTypeProduct, decimal.NewFromInt(499))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, product))

	t.Run("sku is normalized on lookup", func(t *testing.T) {
		found, err := repo.FindBySKUForTenant(ctx, tenantID, "  desk-001  ")
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)

		exists, err := repo.ExistsBySKUForTenant(ctx, tenantID, "DESK-001")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate sku within tenant is rejected", func(t *testing.T) {
		dupe, err := catalog.NewProduct(tenantID, "Another Desk", "desk-001", catalog.ProductTypeProduct, decimal.NewFromInt(399))
		require.NoError(t, err)

		err = repo.Save(ctx, dupe)
		assert.Error(t, err)
	})

	t.Run("same sku is allowed in another tenant", func(t *testing.T) {
		other, err := catalog.NewProduct(uuid.New(), "Their Desk", "desk-001", catalog.ProductTypeProduct, decimal.NewFromInt(450))
		require.NoError(t, err)
		assert.NoError(t, repo.Save(ctx, other))
	})

	t.Run("filters by category", func(t *testing.T) {
		require.NoError(t, product.UpdateDetails("Standing Desk", "", "furniture", "", ""))
		require.NoError(t, repo.Update(ctx, product))

		filter := shared.DefaultFilter()
		filter.Filters["category"] = "furniture"
		products, total, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, products, 1)
		assert.Equal(t, product.ID, products[0].ID)
	})

	t.Run("quantity caches survive the round trip", func(t *testing.T) {
		require.NoError(t, product.ApplyQuantityChange(decimal.NewFromInt(25)))
		require.NoError(t, product.Reserve(decimal.NewFromInt(5)))
		require.NoError(t, repo.Update(ctx, product))

		found, err := repo.FindByIDForTenant(ctx, tenantID, product.ID)
		require.NoError(t, err)
		assert.True(t, found.QuantityOnHand.Equal(decimal.NewFromInt(25)))
		assert.True(t, found.QuantityReserved.Equal(decimal.NewFromInt(5)))
		assert.True(t, found.QuantityAvailable().Equal(decimal.NewFromInt(20)))
	})

	t.Run("update with stale version conflicts", func(t *testing.T) {
		stale, err := repo.FindByIDForTenant(ctx, tenantID, product.ID)
		require.NoError(t, err)
		stale.Version = stale.Version - 1

		err = repo.Update(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("delete is tenant scoped", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New(), product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		require.NoError(t, repo.Delete(ctx, tenantID, product.ID))
		_, err = repo.FindByIDForTenant(ctx, tenantID, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
