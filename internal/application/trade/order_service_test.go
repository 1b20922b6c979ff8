package trade_test

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

	tradeapp "github.com/elevatecrm/backend/internal/application/trade"
	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/domain/trade"
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

type orderFixture struct {
	svc      *tradeapp.OrderService
	products catalog.ProductRepository
	bus      *captureBus
	tenantID uuid.UUID
	actorID  uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(persistence.AllModels()...))

	orders := persistence.NewGormOrderRepository(db)
	products := persistence.NewGormProductRepository(db)
	moves := persistence.NewGormStockMoveRepository(db)
	scope := tradeapp.NoOpOrderScope{Orders: orders, Products: products, Moves: moves}

	bus := &captureBus{}
	return &orderFixture{
		svc:      tradeapp.NewOrderService(orders, products, scope, bus, zap.NewNop()),
		products: products,
		bus:      bus,
		tenantID: uuid.New(),
		actorID:  uuid.New(),
	}
}

// trackedProduct seeds a tracked product with the given on-hand stock
func (f *orderFixture) trackedProduct(t *testing.T, sku string, onHand int64) *catalog.Product {
	t.Helper()

	product, err := catalog.NewProduct(f.tenantID, "Widget "+sku, sku, catalog.ProductTypeProduct, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, product.ApplyQuantityChange(decimal.NewFromInt(onHand)))
	product.ClearDomainEvents()
	require.NoError(t, f.products.Save(context.Background(), product))
	return product
}

func (f *orderFixture) salesOrderInput(productID uuid.UUID, qty int64) tradeapp.CreateOrderInput {
	return tradeapp.CreateOrderInput{
		Type: string(trade.OrderTypeSalesOrder),
		LineItems: []tradeapp.LineItemInput{{
			ProductID: &productID,
			Name:      "Widget",
			SKU:       "WID-1",
			Quantity:  decimal.NewFromInt(qty),
			UnitPrice: decimal.NewFromInt(50),
		}},
	}
}

func TestCreateAssignsNumberAndTotals(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	product := f.trackedProduct(t, "WID-1", 100)

	info, err := f.svc.Create(ctx, f.tenantID, f.actorID, f.salesOrderInput(product.ID, 2))
	require.NoError(t, err)

	assert.Equal(t, "ORD-000001", info.OrderNumber)
	assert.Equal(t, string(trade.OrderStatusDraft), info.Status)
	assert.True(t, info.Total.Equal(decimal.NewFromInt(100)), "total %s", info.Total)
	require.Len(t, info.LineItems, 1)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Create(context.Background(), f.tenantID, f.actorID, tradeapp.CreateOrderInput{Type: "subscription"})
	require.Error(t, err)
}

func TestConfirmReservesStockForSalesOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	product := f.trackedProduct(t, "WID-1", 10)

	created, err := f.svc.Create(ctx, f.tenantID, f.actorID, f.salesOrderInput(product.ID, 4))
	require.NoError(t, err)

	confirmed, err := f.svc.Confirm(ctx, f.tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.OrderStatusConfirmed), confirmed.Status)

	reloaded, err := f.products.FindByIDForTenant(ctx, f.tenantID, product.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.QuantityReserved.Equal(decimal.NewFromInt(4)))
	assert.True(t, reloaded.QuantityOnHand.Equal(decimal.NewFromInt(10)))
	assert.Contains(t, f.bus.types(), "order_update")
}

func TestConfirmFailsWhenStockShort(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	product := f.trackedProduct(t, "WID-1", 3)

	created, err := f.svc.Create(ctx, f.tenantID, f.actorID, f.salesOrderInput(product.ID, 5))
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, f.tenantID, created.ID)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	reloaded, err := f.svc.Get(ctx, f.tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.OrderStatusDraft), reloaded.Status)
}

func TestFulfillConvertsReservationIntoSaleMoves(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	product := f.trackedProduct(t, "WID-1", 10)

	created, err := f.svc.Create(ctx, f.tenantID, f.actorID, f.salesOrderInput(product.ID, 4))
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, f.tenantID, created.ID)
	require.NoError(t, err)

	fulfilled, err := f.svc.Fulfill(ctx, f.tenantID, f.actorID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.OrderStatusFulfilled), fulfilled.Status)

	reloaded, err := f.products.FindByIDForTenant(ctx, f.tenantID, product.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.QuantityOnHand.Equal(decimal.NewFromInt(6)), "on hand %s", reloaded.QuantityOnHand)
	assert.True(t, reloaded.QuantityReserved.IsZero())
	assert.Contains(t, f.bus.types(), "stock_update")
}

func TestFulfillPurchaseOrderReceivesStock(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	product := f.trackedProduct(t, "WID-1", 2)

	input := f.salesOrderInput(product.ID, 8)
	input.Type = string(trade.OrderTypePurchaseOrder)
	created, err := f.svc.Create(ctx, f.tenantID, f.actorID, input)
	require.NoError(t, err)
	assert.Equal(t, "PO-000001", created.OrderNumber)

	_, err = f.svc.Confirm(ctx, f.tenantID, created.ID)
	require.NoError(t, err)
	_, err = f.svc.Fulfill(ctx, f.tenantID, f.actorID, created.ID)
	require.NoError(t, err)

	reloaded, err := f.products.FindByIDForTenant(ctx, f.tenantID, product.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.QuantityOnHand.Equal(decimal.NewFromInt(10)))
	assert.True(t, reloaded.QuantityReserved.IsZero())
}

func TestCancelConfirmedOrderReleasesReservation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	product := f.trackedProduct(t, "WID-1", 10)

	created, err := f.svc.Create(ctx, f.tenantID, f.actorID, f.salesOrderInput(product.ID, 4))
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, f.tenantID, created.ID)
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, f.tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.OrderStatusCancelled), cancelled.Status)

	reloaded, err := f.products.FindByIDForTenant(ctx, f.tenantID, product.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.QuantityReserved.IsZero())
	assert.True(t, reloaded.QuantityOnHand.Equal(decimal.NewFromInt(10)))
}

func TestCancelFulfilledOrderFails(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	product := f.trackedProduct(t, "WID-1", 10)

	created, err := f.svc.Create(ctx, f.tenantID, f.actorID, f.salesOrderInput(product.ID, 1))
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, f.tenantID, created.ID)
	require.NoError(t, err)
	_, err = f.svc.Fulfill(ctx, f.tenantID, f.actorID, created.ID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, f.tenantID, created.ID)
	require.Error(t, err)
}

func TestUpdateRewritesDraftLineItems(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	product := f.trackedProduct(t, "WID-1", 10)

	created, err := f.svc.Create(ctx, f.tenantID, f.actorID, f.salesOrderInput(product.ID, 2))
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, f.tenantID, created.ID, tradeapp.UpdateOrderInput{
		Notes: "rush delivery",
		LineItems: []tradeapp.LineItemInput{{
			Name:      "Install service",
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(75),
		}},
	})
	require.NoError(t, err)

	require.Len(t, updated.LineItems, 1)
	assert.Equal(t, "Install service", updated.LineItems[0].Name)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, "rush delivery", updated.Notes)
}

func TestUpdateRejectsSentOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	product := f.trackedProduct(t, "WID-1", 10)

	created, err := f.svc.Create(ctx, f.tenantID, f.actorID, f.salesOrderInput(product.ID, 2))
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, f.tenantID, created.ID)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.tenantID, created.ID, tradeapp.UpdateOrderInput{})
	require.Error(t, err)
}

func TestRecordPayment(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	product := f.trackedProduct(t, "WID-1", 10)

	created, err := f.svc.Create(ctx, f.tenantID, f.actorID, f.salesOrderInput(product.ID, 2))
	require.NoError(t, err)

	paid, err := f.svc.RecordPayment(ctx, f.tenantID, created.ID, "paid")
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.PaymentStatus)

	_, err = f.svc.RecordPayment(ctx, f.tenantID, created.ID, "ious")
	require.Error(t, err)
}

func TestDeleteOnlyAllowsDrafts(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	product := f.trackedProduct(t, "WID-1", 10)

	created, err := f.svc.Create(ctx, f.tenantID, f.actorID, f.salesOrderInput(product.ID, 2))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.tenantID, created.ID))
	_, err = f.svc.Get(ctx, f.tenantID, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	second, err := f.svc.Create(ctx, f.tenantID, f.actorID, f.salesOrderInput(product.ID, 2))
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, f.tenantID, second.ID)
	require.NoError(t, err)
	require.Error(t, f.svc.Delete(ctx, f.tenantID, second.ID))
}
