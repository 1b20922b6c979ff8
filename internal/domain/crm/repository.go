package crm

import (
	"context"

	"github.com/google/uuid"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// ContactRepository persists contact aggregates
type ContactRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Contact, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Contact, int64, error)
	ExistsByEmailForTenant(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
	CountByStage(ctx context.Context, tenantID uuid.UUID) (map[LifecycleStage]int64, error)
	Save(ctx context.Context, contact *Contact) error
	Update(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
