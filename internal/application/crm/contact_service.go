package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/crm"
	"github.com/elevatecrm/backend/internal/domain/shared"
)

// ContactService manages the tenant's contacts
type ContactService struct {
	contactRepo crm.ContactRepository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewContactService creates the contact service
func NewContactService(contactRepo crm.ContactRepository, events shared.EventPublisher, logger *zap.Logger) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		events:      events,
		logger:      logger,
	}
}

// Create adds a new contact to the tenant
func (s *ContactService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, input CreateContactInput) (*ContactInfo, error) {
	if input.Email != "" {
		exists, err := s.contactRepo.ExistsByEmailForTenant(ctx, tenantID, input.Email)
		if err != nil {
			s.logger.Error("Contact email lookup failed", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email")
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A contact with this email already exists")
		}
	}

	contact, err := crm.NewContact(tenantID, crm.ContactType(input.Type),
		input.FirstName, input.LastName, input.CompanyName, input.Email)
	if err != nil {
		return nil, err
	}
	contact.SetCreatedBy(createdBy)
	contact.Phone = input.Phone
	contact.Mobile = input.Mobile
	contact.JobTitle = input.JobTitle
	contact.Notes = input.Notes
	contact.UpdateAddress(input.AddressLine1, input.AddressLine2, input.City,
		input.State, input.PostalCode, input.Country)
	if input.LeadSource != "" {
		contact.SetLeadSource(input.LeadSource)
	}
	if input.Industry != "" || !input.AnnualRevenue.IsZero() {
		if err := contact.UpdateBusinessProfile(input.Industry, input.AnnualRevenue); err != nil {
			return nil, err
		}
	}
	if len(input.Tags) > 0 {
		contact.SetTags(input.Tags)
	}
	if input.AssignedTo != nil {
		contact.Assign(*input.AssignedTo)
	}

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		s.logger.Error("Failed to save contact", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create contact")
	}

	if err := s.events.Publish(ctx, crm.NewContactCreatedEvent(contact)); err != nil {
		s.logger.Warn("Failed to publish contact created event", zap.Error(err))
	}

	info := NewContactInfo(contact)
	return &info, nil
}

// Get returns a single contact
func (s *ContactService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ContactInfo, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	info := NewContactInfo(contact)
	return &info, nil
}

// List returns a page of contacts matching the filter
func (s *ContactService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[ContactInfo], error) {
	contacts, total, err := s.contactRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[ContactInfo]{}, err
	}

	infos := make([]ContactInfo, 0, len(contacts))
	for i := range contacts {
		infos = append(infos, NewContactInfo(&contacts[i]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize), nil
}

// Update changes a contact's details
func (s *ContactService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateContactInput) (*ContactInfo, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := contact.UpdateDetails(input.FirstName, input.LastName, input.CompanyName,
		input.Email, input.Phone, input.Mobile, input.JobTitle); err != nil {
		return nil, err
	}
	contact.UpdateAddress(input.AddressLine1, input.AddressLine2, input.City,
		input.State, input.PostalCode, input.Country)
	if err := contact.UpdateBusinessProfile(input.Industry, input.AnnualRevenue); err != nil {
		return nil, err
	}
	contact.SetTags(input.Tags)
	contact.Notes = input.Notes

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}

	info := NewContactInfo(contact)
	return &info, nil
}

// TransitionStage moves the contact through the lifecycle funnel
func (s *ContactService) TransitionStage(ctx context.Context, tenantID, id uuid.UUID, stage string) (*ContactInfo, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := contact.TransitionStage(crm.LifecycleStage(stage)); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}

	events := contact.GetDomainEvents()
	if len(events) > 0 {
		if err := s.events.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish stage change event", zap.Error(err))
		}
		contact.ClearDomainEvents()
	}

	info := NewContactInfo(contact)
	return &info, nil
}

// Assign sets or clears the contact's owner
func (s *ContactService) Assign(ctx context.Context, tenantID, id uuid.UUID, userID *uuid.UUID) (*ContactInfo, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		contact.Assign(*userID)
	} else {
		contact.Unassign()
	}
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}

	info := NewContactInfo(contact)
	return &info, nil
}

// RecordTouch marks the contact as contacted now
func (s *ContactService) RecordTouch(ctx context.Context, tenantID, id uuid.UUID) (*ContactInfo, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	contact.RecordTouch(time.Now())
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}

	info := NewContactInfo(contact)
	return &info, nil
}

// Archive soft-deletes the contact
func (s *ContactService) Archive(ctx context.Context, tenantID, id uuid.UUID) error {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	contact.Archive()
	return s.contactRepo.Update(ctx, contact)
}

// Delete permanently removes the contact
func (s *ContactService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.contactRepo.Delete(ctx, tenantID, id)
}

// CountByStage returns active contact counts per lifecycle stage
func (s *ContactService) CountByStage(ctx context.Context, tenantID uuid.UUID) (map[crm.LifecycleStage]int64, error) {
	return s.contactRepo.CountByStage(ctx, tenantID)
}
