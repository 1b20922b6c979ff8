package crm

import (
	"github.com/elevatecrm/backend/internal/domain/shared"
)

// Event types emitted by the CRM module
const (
	EventContactCreated      = "contact_created"
	EventContactStageChanged = "contact_stage_changed"
)

// ContactCreatedEvent is emitted when a contact is created
type ContactCreatedEvent struct {
	shared.BaseDomainEvent
	DisplayName string
	Stage       LifecycleStage
}

// NewContactCreatedEvent creates a contact created event
func NewContactCreatedEvent(contact *Contact) *ContactCreatedEvent {
	return &ContactCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventContactCreated, "Contact", contact.ID, contact.TenantID),
		DisplayName:     contact.DisplayName(),
		Stage:           contact.Stage,
	}
}

// Payload implements shared.EventPayloader
func (e *ContactCreatedEvent) Payload() map[string]any {
	return map[string]any{
		"contact_id": e.AggID.String(),
		"name":       e.DisplayName,
		"stage":      string(e.Stage),
	}
}

// ContactStageChangedEvent is emitted on lifecycle transitions
type ContactStageChangedEvent struct {
	shared.BaseDomainEvent
	PreviousStage LifecycleStage
	NewStage      LifecycleStage
}

// NewContactStageChangedEvent creates a stage changed event
func NewContactStageChangedEvent(contact *Contact, previous LifecycleStage) *ContactStageChangedEvent {
	return &ContactStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventContactStageChanged, "Contact", contact.ID, contact.TenantID),
		PreviousStage:   previous,
		NewStage:        contact.Stage,
	}
}

// Payload implements shared.EventPayloader
func (e *ContactStageChangedEvent) Payload() map[string]any {
	return map[string]any{
		"contact_id":     e.AggID.String(),
		"previous_stage": string(e.PreviousStage),
		"new_stage":      string(e.NewStage),
	}
}
