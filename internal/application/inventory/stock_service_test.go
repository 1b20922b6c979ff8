package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	inventoryapp "github.com/elevatecrm/backend/internal/application/inventory"
	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/inventory"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/infrastructure/persistence"
)

type captureBus struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (b *captureBus) Publish(_ context.Context, events ...shared.DomainEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
	return nil
}

func (b *captureBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventType())
	}
	return out
}

type stockFixture struct {
	svc      *inventoryapp.StockService
	products catalog.ProductRepository
	bus      *captureBus
	tenantID uuid.UUID
	actorID  uuid.UUID
}

func newStockFixture(t *testing.T) *stockFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(persistence.AllModels()...))

	moves := persistence.NewGormStockMoveRepository(db)
	products := persistence.NewGormProductRepository(db)
	scope := inventoryapp.NoOpStockScope{Moves: moves, Products: products}

	bus := &captureBus{}
	return &stockFixture{
		svc:      inventoryapp.NewStockService(moves, products, scope, bus, zap.NewNop()),
		products: products,
		bus:      bus,
		tenantID: uuid.New(),
		actorID:  uuid.New(),
	}
}

func (f *stockFixture) seedProduct(t *testing.T, onHand int64, reorderPoint int64) *catalog.Product {
	t.Helper()

	product, err := catalog.NewProduct(f.tenantID, "Widget", "WID-1", catalog.ProductTypeProduct, decimal.NewFromInt(20))
	require.NoError(t, err)
	require.NoError(t, product.UpdateReorderRule(decimal.NewFromInt(reorderPoint), decimal.NewFromInt(50)))
	if onHand > 0 {
		require.NoError(t, product.ApplyQuantityChange(decimal.NewFromInt(onHand)))
	}
	product.ClearDomainEvents()
	require.NoError(t, f.products.Save(context.Background(), product))
	return product
}

func (f *stockFixture) onHand(t *testing.T, productID uuid.UUID) decimal.Decimal {
	t.Helper()
	product, err := f.products.FindByIDForTenant(context.Background(), f.tenantID, productID)
	require.NoError(t, err)
	return product.QuantityOnHand
}

func TestRecordReceiptIncrementsOnHand(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, 0, 0)

	info, err := f.svc.RecordReceipt(ctx, f.tenantID, f.actorID, inventoryapp.ReceiptInput{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(10),
		UnitCost:  decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	assert.Equal(t, string(inventory.MovementPurchase), info.Type)
	assert.Equal(t, string(inventory.MoveStatusCompleted), info.Status)
	assert.True(t, f.onHand(t, product.ID).Equal(decimal.NewFromInt(10)))
	assert.Contains(t, f.bus.types(), "stock_update")
}

func TestRecordSaleDecrementsOnHand(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, 10, 0)

	info, err := f.svc.RecordSale(ctx, f.tenantID, f.actorID, inventoryapp.SaleInput{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(3),
	})
	require.NoError(t, err)

	assert.True(t, info.Quantity.Equal(decimal.NewFromInt(-3)))
	assert.True(t, f.onHand(t, product.ID).Equal(decimal.NewFromInt(7)))
}

func TestRecordSaleRejectsNonPositiveQuantity(t *testing.T) {
	f := newStockFixture(t)
	product := f.seedProduct(t, 10, 0)

	_, err := f.svc.RecordSale(context.Background(), f.tenantID, f.actorID, inventoryapp.SaleInput{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(-3),
	})
	require.Error(t, err)
}

func TestRecordSaleFailsWhenStockShort(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, 2, 0)

	_, err := f.svc.RecordSale(ctx, f.tenantID, f.actorID, inventoryapp.SaleInput{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(5),
	})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.True(t, f.onHand(t, product.ID).Equal(decimal.NewFromInt(2)))
}

func TestSaleCrossingReorderPointEmitsLowStock(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, 10, 5)

	_, err := f.svc.RecordSale(ctx, f.tenantID, f.actorID, inventoryapp.SaleInput{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(6),
	})
	require.NoError(t, err)

	assert.Contains(t, f.bus.types(), "low_stock")
}

func TestRecordTransferKeepsOnHandUnchanged(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, 10, 0)

	info, err := f.svc.RecordTransfer(ctx, f.tenantID, f.actorID, inventoryapp.TransferInput{
		ProductID:      product.ID,
		FromLocationID: uuid.New(),
		ToLocationID:   uuid.New(),
		Quantity:       decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	assert.Equal(t, string(inventory.MovementTransfer), info.Type)
	assert.True(t, f.onHand(t, product.ID).Equal(decimal.NewFromInt(10)))
}

func TestRecordAdjustmentStoresDelta(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, 10, 0)

	info, err := f.svc.RecordAdjustment(ctx, f.tenantID, f.actorID, inventoryapp.AdjustmentInput{
		ProductID:     product.ID,
		CountedAmount: decimal.NewFromInt(7),
	})
	require.NoError(t, err)

	assert.True(t, info.Quantity.Equal(decimal.NewFromInt(-3)))
	assert.True(t, f.onHand(t, product.ID).Equal(decimal.NewFromInt(7)))
}

func TestRecordAdjustmentRejectsMatchingCount(t *testing.T) {
	f := newStockFixture(t)
	product := f.seedProduct(t, 10, 0)

	_, err := f.svc.RecordAdjustment(context.Background(), f.tenantID, f.actorID, inventoryapp.AdjustmentInput{
		ProductID:     product.ID,
		CountedAmount: decimal.NewFromInt(10),
	})
	require.Error(t, err)
}

func TestMovesRejectUntrackedProduct(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	service, err := catalog.NewProduct(f.tenantID, "Consulting", "SVC-1", catalog.ProductTypeService, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, f.products.Save(ctx, service))

	_, err = f.svc.RecordReceipt(ctx, f.tenantID, f.actorID, inventoryapp.ReceiptInput{
		ProductID: service.ID,
		Quantity:  decimal.NewFromInt(1),
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestListByProductReturnsLedger(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, 0, 0)

	for i := 0; i < 3; i++ {
		_, err := f.svc.RecordReceipt(ctx, f.tenantID, f.actorID, inventoryapp.ReceiptInput{
			ProductID: product.ID,
			Quantity:  decimal.NewFromInt(5),
		})
		require.NoError(t, err)
	}

	page, err := f.svc.ListByProduct(ctx, f.tenantID, product.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 3)
}
