package inventory

import (
	"context"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/inventory"
)

// StockScope runs ledger and product-cache writes in one database
// transaction. A completed move and the quantity cache it updates must
// never be persisted separately.
type StockScope interface {
	Execute(ctx context.Context, fn func(moves inventory.StockMoveRepository, products catalog.ProductRepository) error) error
}

// NoOpStockScope runs the function against the given repositories
// without a real transaction. Intended for tests.
type NoOpStockScope struct {
	Moves    inventory.StockMoveRepository
	Products catalog.ProductRepository
}

// Execute runs the function directly
func (s NoOpStockScope) Execute(_ context.Context, fn func(inventory.StockMoveRepository, catalog.ProductRepository) error) error {
	return fn(s.Moves, s.Products)
}

var _ StockScope = NoOpStockScope{}
