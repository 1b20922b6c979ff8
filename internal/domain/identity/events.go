package identity

import (
	"github.com/google/uuid"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// Event types emitted by the identity module
const (
	EventCompanyRegistered = "company_registered"
	EventUserCreated       = "user_created"
	EventUserDeactivated   = "user_deactivated"
)

// CompanyRegisteredEvent is emitted when a new tenant signs up
type CompanyRegisteredEvent struct {
	shared.BaseDomainEvent
	CompanyName string
	Subdomain   string
	AdminUserID uuid.UUID
}

// NewCompanyRegisteredEvent creates a company registered event
func NewCompanyRegisteredEvent(company *Company, adminUserID uuid.UUID) *CompanyRegisteredEvent {
	return &CompanyRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCompanyRegistered, "Company", company.ID, company.ID),
		CompanyName:     company.Name,
		Subdomain:       company.Subdomain,
		AdminUserID:     adminUserID,
	}
}

// Payload implements shared.EventPayloader
func (e *CompanyRegisteredEvent) Payload() map[string]any {
	return map[string]any{
		"company_id":   e.AggID.String(),
		"company_name": e.CompanyName,
		"subdomain":    e.Subdomain,
	}
}

// UserCreatedEvent is emitted when a user is added to a tenant
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string
	Roles []string
}

// NewUserCreatedEvent creates a user created event
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserCreated, "User", user.ID, user.TenantID),
		Email:           user.Email,
		Roles:           user.Roles,
	}
}

// Payload implements shared.EventPayloader
func (e *UserCreatedEvent) Payload() map[string]any {
	return map[string]any{
		"user_id": e.AggID.String(),
		"email":   e.Email,
		"roles":   e.Roles,
	}
}

// UserDeactivatedEvent is emitted when a user is disabled
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
}

// NewUserDeactivatedEvent creates a user deactivated event
func NewUserDeactivatedEvent(user *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserDeactivated, "User", user.ID, user.TenantID),
	}
}

// Payload implements shared.EventPayloader
func (e *UserDeactivatedEvent) Payload() map[string]any {
	return map[string]any{
		"user_id": e.AggID.String(),
	}
}
