package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockMove(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()

	t.Run("purchase must be positive", func(t *testing.T) {
		_, err := NewStockMove(tenantID, productID, MovementPurchase, decimal.NewFromInt(-1))
		assert.Error(t, err)

		m, err := NewStockMove(tenantID, productID, MovementPurchase, decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.Equal(t, MoveStatusPending, m.Status)
		assert.True(t, m.OnHandDelta().Equal(decimal.NewFromInt(5)))
	})

	t.Run("sale must be negative", func(t *testing.T) {
		_, err := NewStockMove(tenantID, productID, MovementSale, decimal.NewFromInt(3))
		assert.Error(t, err)

		m, err := NewStockMove(tenantID, productID, MovementSale, decimal.NewFromInt(-3))
		require.NoError(t, err)
		assert.True(t, m.OnHandDelta().Equal(decimal.NewFromInt(-3)))
	})

	t.Run("adjustment takes either sign", func(t *testing.T) {
		_, err := NewStockMove(tenantID, productID, MovementAdjustment, decimal.NewFromInt(-2))
		assert.NoError(t, err)
		_, err = NewStockMove(tenantID, productID, MovementAdjustment, decimal.NewFromInt(2))
		assert.NoError(t, err)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := NewStockMove(tenantID, productID, MovementAdjustment, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestStockMoveTransfer(t *testing.T) {
	m, err := NewStockMove(uuid.New(), uuid.New(), MovementTransfer, decimal.NewFromInt(4))
	require.NoError(t, err)

	assert.True(t, m.OnHandDelta().IsZero(), "transfers do not change total on-hand")

	from := uuid.New()
	to := uuid.New()
	assert.Error(t, m.SetLocations(&from, nil), "transfer needs both endpoints")
	assert.Error(t, m.SetLocations(&from, &from), "endpoints must differ")
	assert.NoError(t, m.SetLocations(&from, &to))
}

func TestStockMoveLifecycle(t *testing.T) {
	m, err := NewStockMove(uuid.New(), uuid.New(), MovementPurchase, decimal.NewFromInt(1))
	require.NoError(t, err)

	require.NoError(t, m.Complete())
	assert.Equal(t, MoveStatusCompleted, m.Status)
	assert.Error(t, m.Complete(), "cannot complete twice")
	assert.Error(t, m.Cancel(), "completed moves are immutable")

	m2, err := NewStockMove(uuid.New(), uuid.New(), MovementPurchase, decimal.NewFromInt(1))
	require.NoError(t, err)
	require.NoError(t, m2.Cancel())
	assert.Error(t, m2.Complete())
}
