package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(uuid.New(), "Widget", "wid-1", ProductTypeProduct, decimal.NewFromInt(10))
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("normalizes sku", func(t *testing.T) {
		p := newTestProduct(t)
		assert.Equal(t, "WID-1", p.SKU)
		assert.True(t, p.TrackInventory)
		assert.Equal(t, ProductStatusActive, p.Status)
	})

	t.Run("services do not track inventory", func(t *testing.T) {
		p, err := NewProduct(uuid.New(), "Consulting", "CONS", ProductTypeService, decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.False(t, p.TrackInventory)
		assert.False(t, p.IsLowStock())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), "", "SKU", ProductTypeProduct, decimal.Zero)
		assert.Error(t, err)
		_, err = NewProduct(uuid.New(), "X", "", ProductTypeProduct, decimal.Zero)
		assert.Error(t, err)
		_, err = NewProduct(uuid.New(), "X", "SKU", ProductTypeProduct, decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestProductAvailability(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.ApplyQuantityChange(decimal.NewFromInt(10)))
	require.NoError(t, p.Reserve(decimal.NewFromInt(4)))

	assert.True(t, p.QuantityAvailable().Equal(decimal.NewFromInt(6)))

	// reserving more than available fails
	err := p.Reserve(decimal.NewFromInt(7))
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	p.Release(decimal.NewFromInt(4))
	assert.True(t, p.QuantityAvailable().Equal(decimal.NewFromInt(10)))

	// release never drives reserved negative
	p.Release(decimal.NewFromInt(99))
	assert.True(t, p.QuantityReserved.IsZero())
}

func TestProductApplyQuantityChange(t *testing.T) {
	t.Run("rejects going negative", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.ApplyQuantityChange(decimal.NewFromInt(5)))
		err := p.ApplyQuantityChange(decimal.NewFromInt(-6))
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.True(t, p.QuantityOnHand.Equal(decimal.NewFromInt(5)))
	})

	t.Run("emits stock update event", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.ApplyQuantityChange(decimal.NewFromInt(5)))
		events := p.GetDomainEvents()
		require.NotEmpty(t, events)
		assert.Equal(t, EventStockUpdated, events[0].EventType())
	})

	t.Run("emits low stock on crossing reorder point", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.UpdateReorderRule(decimal.NewFromInt(3), decimal.NewFromInt(10)))
		require.NoError(t, p.ApplyQuantityChange(decimal.NewFromInt(10)))
		p.ClearDomainEvents()

		require.NoError(t, p.ApplyQuantityChange(decimal.NewFromInt(-8)))

		var sawLowStock bool
		for _, e := range p.GetDomainEvents() {
			if e.EventType() == EventLowStock {
				sawLowStock = true
			}
		}
		assert.True(t, sawLowStock)
	})

	t.Run("untracked products ignore deltas", func(t *testing.T) {
		p := newTestProduct(t)
		p.SetInventoryTracking(false)
		require.NoError(t, p.ApplyQuantityChange(decimal.NewFromInt(-100)))
		assert.True(t, p.QuantityOnHand.IsZero())
	})
}

func TestProductStatus(t *testing.T) {
	p := newTestProduct(t)
	p.Deactivate()
	assert.Equal(t, ProductStatusInactive, p.Status)
	require.NoError(t, p.Activate())

	p.Archive()
	assert.Error(t, p.Activate(), "archived products stay archived")
}

func TestStockLocation(t *testing.T) {
	loc, err := NewStockLocation(uuid.New(), "Main Warehouse", "main", LocationTypeWarehouse)
	require.NoError(t, err)
	assert.Equal(t, "MAIN", loc.Code)

	loc.MarkDefault()
	assert.Error(t, loc.Deactivate(), "default location cannot be deactivated")

	loc.ClearDefault()
	assert.NoError(t, loc.Deactivate())

	_, err = NewStockLocation(uuid.New(), "X", "C1", LocationType("garage"))
	assert.Error(t, err)
}
