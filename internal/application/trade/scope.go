package trade

import (
	"context"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/inventory"
	"github.com/elevatecrm/backend/internal/domain/trade"
)

// OrderScope runs order, product and ledger writes in one database
// transaction. Stock reservations and the order status that justifies
// them must never diverge.
type OrderScope interface {
	Execute(ctx context.Context, fn func(orders trade.OrderRepository, products catalog.ProductRepository, moves inventory.StockMoveRepository) error) error
}

// NoOpOrderScope runs the function against the given repositories
// without a real transaction. Intended for tests.
type NoOpOrderScope struct {
	Orders   trade.OrderRepository
	Products catalog.ProductRepository
	Moves    inventory.StockMoveRepository
}

// Execute runs the function directly
func (s NoOpOrderScope) Execute(_ context.Context, fn func(trade.OrderRepository, catalog.ProductRepository, inventory.StockMoveRepository) error) error {
	return fn(s.Orders, s.Products, s.Moves)
}

var _ OrderScope = NoOpOrderScope{}
