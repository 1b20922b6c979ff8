package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/elevatecrm/backend/internal/domain/identity"
)

// RegistrationScope runs company and user writes in one database
// transaction so a tenant is never created without its admin user.
// The tenant ID pins the transaction's row level security context to
// the company being created.
type RegistrationScope interface {
	Execute(ctx context.Context, tenantID uuid.UUID, fn func(companies identity.CompanyRepository, users identity.UserRepository) error) error
}

// TenantRunner opens a tenant-bound database transaction for code paths
// that run outside the request middleware: login (no tenant resolved
// yet) and refresh (public endpoint). Implemented by the persistence
// unit of work.
type TenantRunner interface {
	RunAs(ctx context.Context, tenantID uuid.UUID, fn func(ctx context.Context) error) error
}

// NoOpRegistrationScope runs the function against the given
// repositories without a real transaction. Intended for tests.
type NoOpRegistrationScope struct {
	Companies identity.CompanyRepository
	Users     identity.UserRepository
}

// Execute runs the function directly
func (s NoOpRegistrationScope) Execute(_ context.Context, _ uuid.UUID, fn func(identity.CompanyRepository, identity.UserRepository) error) error {
	return fn(s.Companies, s.Users)
}

var _ RegistrationScope = NoOpRegistrationScope{}

// NoOpTenantRunner runs the function without a transaction. Intended
// for tests.
type NoOpTenantRunner struct{}

// RunAs runs the function directly
func (NoOpTenantRunner) RunAs(ctx context.Context, _ uuid.UUID, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ TenantRunner = NoOpTenantRunner{}
