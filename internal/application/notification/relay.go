// Package notification forwards domain events to connected clients.
package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/crm"
	"github.com/elevatecrm/backend/internal/domain/identity"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/domain/trade"
	"github.com/elevatecrm/backend/internal/infrastructure/realtime"
)

// Relay subscribes to the domain events that matter to browser
// sessions and pushes them onto the tenant's realtime channel. Events
// without a payload are ignored.
type Relay struct {
	publisher *realtime.Publisher
	logger    *zap.Logger
}

// NewRelay creates the realtime event relay
func NewRelay(publisher *realtime.Publisher, logger *zap.Logger) *Relay {
	return &Relay{publisher: publisher, logger: logger}
}

// EventTypes lists the events forwarded to clients
func (r *Relay) EventTypes() []string {
	return []string{
		identity.EventCompanyRegistered,
		identity.EventUserCreated,
		identity.EventUserDeactivated,
		crm.EventContactCreated,
		crm.EventContactStageChanged,
		catalog.EventStockUpdated,
		catalog.EventLowStock,
		trade.EventOrderUpdated,
	}
}

// Handle forwards one event to the tenant channel
func (r *Relay) Handle(ctx context.Context, event shared.DomainEvent) error {
	payloader, ok := event.(shared.EventPayloader)
	if !ok {
		return nil
	}

	if err := r.publisher.Publish(ctx, realtime.NewEnvelope(payloader)); err != nil {
		r.logger.Warn("Failed to relay event",
			zap.String("event_type", event.EventType()),
			zap.String("tenant_id", event.TenantID().String()),
			zap.Error(err))
		return err
	}
	return nil
}

var _ shared.EventHandler = (*Relay)(nil)
