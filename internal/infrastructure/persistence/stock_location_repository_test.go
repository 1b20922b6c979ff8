package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/shared"
)

func TestStockLocationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockLocationRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()

	main, err := catalog.NewStockLocation(tenantID, "Main Warehouse", "wh-main", catalog.LocationTypeWarehouse)
	require.NoError(t, err)
	main.MarkDefault()
	require.NoError(t, repo.Save(ctx, main))

	store, err := catalog.NewStockLocation(tenantID, "Downtown Store", "st-001", catalog.LocationTypeStore)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, store))

	t.Run("code lookup is case insensitive", func(t *testing.T) {
		exists, err := repo.ExistsByCodeForTenant(ctx, tenantID, " wh-main ")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("finds the default location", func(t *testing.T) {
		found, err := repo.FindDefaultForTenant(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, main.ID, found.ID)
	})

	t.Run("set default flips the flag atomically", func(t *testing.T) {
		require.NoError(t, repo.SetDefault(ctx, tenantID, store.ID))

		found, err := repo.FindDefaultForTenant(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, store.ID, found.ID)

		old, err := repo.FindByIDForTenant(ctx, tenantID, main.ID)
		require.NoError(t, err)
		assert.False(t, old.IsDefault)
	})

	t.Run("set default on unknown location fails", func(t *testing.T) {
		err := repo.SetDefault(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lists locations for the tenant", func(t *testing.T) {
		locations, total, err := repo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, locations, 2)
	})
}
