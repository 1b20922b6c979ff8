package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/inventory"
	"github.com/elevatecrm/backend/internal/domain/shared"
)

// StockService records inventory movements. Every completed move and
// the product quantity cache it maintains are written in a single
// transaction through the stock scope.
type StockService struct {
	moveRepo    inventory.StockMoveRepository
	productRepo catalog.ProductRepository
	scope       StockScope
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewStockService creates the stock movement service
func NewStockService(
	moveRepo inventory.StockMoveRepository,
	productRepo catalog.ProductRepository,
	scope StockScope,
	events shared.EventPublisher,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		moveRepo:    moveRepo,
		productRepo: productRepo,
		scope:       scope,
		events:      events,
		logger:      logger,
	}
}

// RecordReceipt books incoming stock from a supplier
func (s *StockService) RecordReceipt(ctx context.Context, tenantID, createdBy uuid.UUID, input ReceiptInput) (*MoveInfo, error) {
	move, err := inventory.NewStockMove(tenantID, input.ProductID, inventory.MovementPurchase, input.Quantity)
	if err != nil {
		return nil, err
	}
	if err := move.SetUnitCost(input.UnitCost); err != nil {
		return nil, err
	}
	if err := move.SetLocations(nil, input.ToLocationID); err != nil {
		return nil, err
	}
	move.Notes = input.Notes
	move.SetCreatedBy(createdBy)

	return s.completeMove(ctx, tenantID, move)
}

// RecordSale books stock leaving for a customer. The quantity is given
// positive and stored negative in the ledger.
func (s *StockService) RecordSale(ctx context.Context, tenantID, createdBy uuid.UUID, input SaleInput) (*MoveInfo, error) {
	if !input.Quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sale quantity must be positive")
	}

	move, err := inventory.NewStockMove(tenantID, input.ProductID, inventory.MovementSale, input.Quantity.Neg())
	if err != nil {
		return nil, err
	}
	if err := move.SetLocations(input.FromLocationID, nil); err != nil {
		return nil, err
	}
	if input.ReferenceID != nil {
		move.SetReference(input.ReferenceType, *input.ReferenceID)
	}
	move.Notes = input.Notes
	move.SetCreatedBy(createdBy)

	return s.completeMove(ctx, tenantID, move)
}

// RecordTransfer moves stock between two locations. On-hand quantity
// is unchanged; only the endpoints are recorded.
func (s *StockService) RecordTransfer(ctx context.Context, tenantID, createdBy uuid.UUID, input TransferInput) (*MoveInfo, error) {
	move, err := inventory.NewStockMove(tenantID, input.ProductID, inventory.MovementTransfer, input.Quantity)
	if err != nil {
		return nil, err
	}
	if err := move.SetLocations(&input.FromLocationID, &input.ToLocationID); err != nil {
		return nil, err
	}
	move.Notes = input.Notes
	move.SetCreatedBy(createdBy)

	return s.completeMove(ctx, tenantID, move)
}

// RecordAdjustment corrects the on-hand count after a physical count.
// The ledger stores the delta, not the counted value.
func (s *StockService) RecordAdjustment(ctx context.Context, tenantID, createdBy uuid.UUID, input AdjustmentInput) (*MoveInfo, error) {
	if input.CountedAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Counted amount cannot be negative")
	}

	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, input.ProductID)
	if err != nil {
		return nil, err
	}

	delta := input.CountedAmount.Sub(product.QuantityOnHand)
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Counted amount matches the current on-hand quantity")
	}

	move, err := inventory.NewStockMove(tenantID, input.ProductID, inventory.MovementAdjustment, delta)
	if err != nil {
		return nil, err
	}
	if input.LocationID != nil {
		if err := move.SetLocations(nil, input.LocationID); err != nil {
			return nil, err
		}
	}
	move.Notes = input.Notes
	move.SetCreatedBy(createdBy)

	return s.completeMove(ctx, tenantID, move)
}

// completeMove persists the move and the product quantity cache
// atomically, then publishes stock events.
func (s *StockService) completeMove(ctx context.Context, tenantID uuid.UUID, move *inventory.StockMove) (*MoveInfo, error) {
	var pending []shared.DomainEvent

	err := s.scope.Execute(ctx, func(moves inventory.StockMoveRepository, products catalog.ProductRepository) error {
		product, err := products.FindByIDForTenant(ctx, tenantID, move.ProductID)
		if err != nil {
			return err
		}
		if !product.TrackInventory {
			return shared.NewDomainError("INVALID_STATE", "Product does not track inventory")
		}

		if err := move.Complete(); err != nil {
			return err
		}

		delta := move.OnHandDelta()
		if !delta.IsZero() {
			if err := product.ApplyQuantityChange(delta); err != nil {
				return err
			}
			if err := products.Update(ctx, product); err != nil {
				return err
			}
			pending = append(pending, product.GetDomainEvents()...)
			product.ClearDomainEvents()
		}

		return moves.Save(ctx, move)
	})
	if err != nil {
		return nil, err
	}

	if len(pending) > 0 {
		if err := s.events.Publish(ctx, pending...); err != nil {
			s.logger.Warn("Failed to publish stock events", zap.Error(err))
		}
	}

	s.logger.Info("Stock move recorded",
		zap.String("move_id", move.ID.String()),
		zap.String("product_id", move.ProductID.String()),
		zap.String("type", string(move.Type)),
		zap.String("quantity", move.Quantity.String()))

	info := NewMoveInfo(move)
	return &info, nil
}

// CancelMove cancels a pending move. Completed moves are immutable;
// corrections go through a new adjustment.
func (s *StockService) CancelMove(ctx context.Context, tenantID, id uuid.UUID) (*MoveInfo, error) {
	move, err := s.moveRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := move.Cancel(); err != nil {
		return nil, err
	}
	if err := s.moveRepo.Update(ctx, move); err != nil {
		return nil, err
	}

	info := NewMoveInfo(move)
	return &info, nil
}

// Get returns a single ledger entry
func (s *StockService) Get(ctx context.Context, tenantID, id uuid.UUID) (*MoveInfo, error) {
	move, err := s.moveRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	info := NewMoveInfo(move)
	return &info, nil
}

// ListByProduct returns a page of ledger entries for a product
func (s *StockService) ListByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) (shared.Paginated[MoveInfo], error) {
	moves, total, err := s.moveRepo.FindByProductForTenant(ctx, tenantID, productID, filter)
	if err != nil {
		return shared.Paginated[MoveInfo]{}, err
	}

	infos := make([]MoveInfo, 0, len(moves))
	for i := range moves {
		infos = append(infos, NewMoveInfo(&moves[i]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize), nil
}
