package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// CompanyRepository persists company aggregates. Companies are the
// tenants themselves, so lookups are not tenant-scoped.
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*Company, error)
	ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error)
	// FindActiveIDs lists the IDs of all active companies. Background
	// jobs use it to fan work out across tenants.
	FindActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	Save(ctx context.Context, company *Company) error
	Update(ctx context.Context, company *Company) error
}

// UserRepository persists user aggregates
type UserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	// FindByEmailForTenant looks a user up by email within one tenant.
	// Emails are only unique per tenant, so even login resolves the
	// company first and scopes the lookup.
	FindByEmailForTenant(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)
	ExistsByEmailForTenant(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, int64, error)
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
