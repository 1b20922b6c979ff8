// Package shared holds the building blocks common to every bounded
// context: entity and aggregate bases, domain errors, domain events
// and repository contracts.
package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything with identity and lifecycle timestamps.
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity carries the identity fields every entity embeds.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a fresh UUID and stamps both timestamps with
// the same instant.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func (e *BaseEntity) GetID() uuid.UUID { return e.ID }

func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }

func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }

// Touch bumps UpdatedAt to now. Mutating methods call this so the
// timestamp tracks the last domain-level change, not the last save.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
