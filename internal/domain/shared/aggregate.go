package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the consistency boundary of a bounded context. It
// versions itself for optimistic locking and buffers domain events
// until the application layer publishes them after a successful save.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot implements AggregateRoot for embedding.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot starts a fresh aggregate at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// GetVersion returns the optimistic locking version.
func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion bumps the version. Repositories compare the stored
// version on save and reject stale writes.
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent buffers an event for publication after the aggregate
// is persisted.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the buffered events in the order they were
// raised.
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the buffer once events have been published.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// TenantAggregateRoot is an aggregate owned by a single company. Every
// tenant-scoped table indexes TenantID; queries must always filter on
// it.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

// NewTenantAggregateRoot starts a fresh aggregate under tenantID.
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TenantID:          tenantID,
	}
}

// NewTenantAggregateRootWithCreator also records which user created
// the aggregate.
func NewTenantAggregateRootWithCreator(tenantID, createdBy uuid.UUID) TenantAggregateRoot {
	root := NewTenantAggregateRoot(tenantID)
	root.CreatedBy = &createdBy
	return root
}

// SetCreatedBy records the creating user.
func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	t.CreatedBy = &userID
}

// GetCreatedBy returns the creating user, or nil when unknown.
func (t *TenantAggregateRoot) GetCreatedBy() *uuid.UUID {
	return t.CreatedBy
}
