package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/inventory"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/domain/trade"
	"github.com/elevatecrm/backend/internal/infrastructure/telemetry"
)

// OrderService manages trade documents through their lifecycle.
// Confirming a sales order reserves stock, fulfilling it converts the
// reservation into completed sale moves, and cancelling a confirmed
// order releases the reservation again. All stock side effects happen
// in the same transaction as the status change.
type OrderService struct {
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
	scope       OrderScope
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewOrderService creates the order service
func NewOrderService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	scope OrderScope,
	events shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		scope:       scope,
		events:      events,
		logger:      logger,
	}
}

// Create creates a draft order. The order number is assigned from the
// tenant's sequence when the draft is persisted.
func (s *OrderService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, input CreateOrderInput) (*OrderInfo, error) {
	order, err := trade.NewOrder(tenantID, trade.OrderType(input.Type))
	if err != nil {
		return nil, err
	}
	order.SetCreatedBy(createdBy)

	if err := s.applyDraftFields(order, input.ContactID, input.Currency, input.BillingAddress, input.ShippingAddress, input.ShippingCost, input.Notes); err != nil {
		return nil, err
	}
	if err := s.appendLineItems(order, input.LineItems); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("type", string(order.Type)))

	info := NewOrderInfo(order)
	return &info, nil
}

// Get returns a single order with its line items
func (s *OrderService) Get(ctx context.Context, tenantID, id uuid.UUID) (*OrderInfo, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	info := NewOrderInfo(order)
	return &info, nil
}

// GetByNumber returns the order with the given document number
func (s *OrderService) GetByNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*OrderInfo, error) {
	order, err := s.orderRepo.FindByNumberForTenant(ctx, tenantID, orderNumber)
	if err != nil {
		return nil, err
	}
	info := NewOrderInfo(order)
	return &info, nil
}

// List returns a page of orders for the tenant
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[OrderInfo], error) {
	orders, total, err := s.orderRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[OrderInfo]{}, err
	}

	infos := make([]OrderInfo, 0, len(orders))
	for i := range orders {
		infos = append(infos, NewOrderInfo(&orders[i]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize), nil
}

// Update replaces the fields and line items of a draft order
func (s *OrderService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateOrderInput) (*OrderInfo, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !order.IsEditable() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft orders can be modified")
	}

	if err := s.applyDraftFields(order, input.ContactID, input.Currency, input.BillingAddress, input.ShippingAddress, input.ShippingCost, input.Notes); err != nil {
		return nil, err
	}

	for len(order.LineItems) > 0 {
		if err := order.RemoveLineItem(order.LineItems[0].ID); err != nil {
			return nil, err
		}
	}
	if err := s.appendLineItems(order, input.LineItems); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	info := NewOrderInfo(order)
	return &info, nil
}

// Send marks a draft order as sent to the counterparty
func (s *OrderService) Send(ctx context.Context, tenantID, id uuid.UUID) (*OrderInfo, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := order.Send(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.publishOrderEvents(ctx, order)
	info := NewOrderInfo(order)
	return &info, nil
}

// Confirm confirms the order. For sales orders the line quantities are
// reserved against available stock in the same transaction; a line
// that cannot be covered fails the whole confirmation.
func (s *OrderService) Confirm(ctx context.Context, tenantID, id uuid.UUID) (*OrderInfo, error) {
	ctx, span := telemetry.StartSpan(ctx, "order.confirm",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, id.String()))
	defer span.End()

	var (
		order   *trade.Order
		pending []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(orders trade.OrderRepository, products catalog.ProductRepository, _ inventory.StockMoveRepository) error {
		var err error
		order, err = orders.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		if err := order.Confirm(); err != nil {
			return err
		}

		if order.Type == trade.OrderTypeSalesOrder {
			if err := s.adjustReservations(ctx, tenantID, order, products, true); err != nil {
				return err
			}
		}

		if err := orders.Update(ctx, order); err != nil {
			return err
		}

		pending = append(pending, order.GetDomainEvents()...)
		order.ClearDomainEvents()
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrOrderNumber, order.OrderNumber)
	s.publishPending(ctx, pending)
	s.logger.Info("Order confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber))

	info := NewOrderInfo(order)
	return &info, nil
}

// Fulfill completes the order. Sales orders release their reservation
// and write completed sale moves to the ledger; purchase orders write
// purchase moves. Quotes and invoices do not touch stock.
func (s *OrderService) Fulfill(ctx context.Context, tenantID, actorID, id uuid.UUID) (*OrderInfo, error) {
	ctx, span := telemetry.StartSpan(ctx, "order.fulfill",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, id.String()))
	defer span.End()

	var (
		order   *trade.Order
		pending []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(orders trade.OrderRepository, products catalog.ProductRepository, moves inventory.StockMoveRepository) error {
		var err error
		order, err = orders.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		if err := order.Fulfill(); err != nil {
			return err
		}

		if order.IsStockAffecting() {
			events, err := s.writeFulfillmentMoves(ctx, tenantID, actorID, order, products, moves)
			if err != nil {
				return err
			}
			pending = append(pending, events...)
		}

		if err := orders.Update(ctx, order); err != nil {
			return err
		}

		pending = append(pending, order.GetDomainEvents()...)
		order.ClearDomainEvents()
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrOrderNumber, order.OrderNumber)
	s.publishPending(ctx, pending)
	s.logger.Info("Order fulfilled",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber))

	info := NewOrderInfo(order)
	return &info, nil
}

// Cancel voids the order. A confirmed sales order releases its stock
// reservation in the same transaction.
func (s *OrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*OrderInfo, error) {
	var (
		order   *trade.Order
		pending []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(orders trade.OrderRepository, products catalog.ProductRepository, _ inventory.StockMoveRepository) error {
		var err error
		order, err = orders.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		wasConfirmed := order.Status == trade.OrderStatusConfirmed
		if err := order.Cancel(); err != nil {
			return err
		}

		if wasConfirmed && order.Type == trade.OrderTypeSalesOrder {
			if err := s.adjustReservations(ctx, tenantID, order, products, false); err != nil {
				return err
			}
		}

		if err := orders.Update(ctx, order); err != nil {
			return err
		}

		pending = append(pending, order.GetDomainEvents()...)
		order.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishPending(ctx, pending)
	info := NewOrderInfo(order)
	return &info, nil
}

// RecordPayment updates the payment status of an order
func (s *OrderService) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, status string) (*OrderInfo, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := order.RecordPayment(trade.PaymentStatus(status)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	info := NewOrderInfo(order)
	return &info, nil
}

// Delete removes a draft order. Sent and later documents are part of
// the audit trail and can only be cancelled.
func (s *OrderService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if order.Status != trade.OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}
	return s.orderRepo.Delete(ctx, tenantID, id)
}

// applyDraftFields sets the mutable header fields of a draft
func (s *OrderService) applyDraftFields(order *trade.Order, contactID *uuid.UUID, currency string, billing, shipping map[string]any, shippingCost decimal.Decimal, notes string) error {
	if contactID != nil {
		order.SetContact(*contactID)
	}
	if currency != "" {
		if err := order.SetCurrency(currency); err != nil {
			return err
		}
	}
	order.SetAddresses(billing, shipping)
	if err := order.SetShippingCost(shippingCost); err != nil {
		return err
	}
	order.Notes = notes
	return nil
}

// appendLineItems builds and attaches the given line items
func (s *OrderService) appendLineItems(order *trade.Order, inputs []LineItemInput) error {
	for _, li := range inputs {
		item, err := trade.NewLineItem(li.ProductID, li.Name, li.SKU, li.Quantity, li.UnitPrice, li.DiscountPercent, li.TaxPercent)
		if err != nil {
			return err
		}
		if err := order.AddLineItem(*item); err != nil {
			return err
		}
	}
	return nil
}

// adjustReservations reserves or releases the order's line quantities
// on their products. Free-form lines and untracked products are
// skipped.
func (s *OrderService) adjustReservations(ctx context.Context, tenantID uuid.UUID, order *trade.Order, products catalog.ProductRepository, reserve bool) error {
	for i := range order.LineItems {
		li := &order.LineItems[i]
		if li.ProductID == nil {
			continue
		}

		product, err := products.FindByIDForTenant(ctx, tenantID, *li.ProductID)
		if err != nil {
			return err
		}
		if !product.TrackInventory {
			continue
		}

		if reserve {
			if err := product.Reserve(li.Quantity); err != nil {
				return err
			}
		} else {
			product.Release(li.Quantity)
		}
		if err := products.Update(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// writeFulfillmentMoves writes one completed ledger entry per product
// line and updates the quantity caches. Sales orders also release the
// reservation taken at confirmation.
func (s *OrderService) writeFulfillmentMoves(ctx context.Context, tenantID, actorID uuid.UUID, order *trade.Order, products catalog.ProductRepository, moves inventory.StockMoveRepository) ([]shared.DomainEvent, error) {
	var pending []shared.DomainEvent

	for i := range order.LineItems {
		li := &order.LineItems[i]
		if li.ProductID == nil {
			continue
		}

		product, err := products.FindByIDForTenant(ctx, tenantID, *li.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.TrackInventory {
			continue
		}

		qty := li.Quantity
		moveType := inventory.MovementPurchase
		delta := qty
		if order.Type == trade.OrderTypeSalesOrder {
			moveType = inventory.MovementSale
			delta = qty.Neg()
			product.Release(qty)
		}

		move, err := inventory.NewStockMove(tenantID, product.ID, moveType, delta)
		if err != nil {
			return nil, err
		}
		move.SetReference("order", order.ID)
		move.SetCreatedBy(actorID)
		if err := move.Complete(); err != nil {
			return nil, err
		}

		if err := product.ApplyQuantityChange(delta); err != nil {
			return nil, err
		}
		if err := products.Update(ctx, product); err != nil {
			return nil, err
		}
		if err := moves.Save(ctx, move); err != nil {
			return nil, err
		}

		pending = append(pending, product.GetDomainEvents()...)
		product.ClearDomainEvents()
	}

	return pending, nil
}

// publishOrderEvents drains and publishes the order's queued events
func (s *OrderService) publishOrderEvents(ctx context.Context, order *trade.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	s.publishPending(ctx, events)
}

// publishPending publishes events after a successful commit
func (s *OrderService) publishPending(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order events", zap.Error(err))
	}
}
