package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/identity"
)

// CompanyService manages the tenant's own company record
type CompanyService struct {
	companyRepo identity.CompanyRepository
	logger      *zap.Logger
}

// NewCompanyService creates the company service
func NewCompanyService(companyRepo identity.CompanyRepository, logger *zap.Logger) *CompanyService {
	return &CompanyService{companyRepo: companyRepo, logger: logger}
}

// Get returns the company record for the tenant
func (s *CompanyService) Get(ctx context.Context, tenantID uuid.UUID) (*CompanyInfo, error) {
	company, err := s.companyRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	info := NewCompanyInfo(company)
	return &info, nil
}

// Update changes company profile, address and locale fields
func (s *CompanyService) Update(ctx context.Context, tenantID uuid.UUID, input UpdateCompanyInput) (*CompanyInfo, error) {
	company, err := s.companyRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := company.UpdateProfile(input.Name, input.Email, input.Phone, input.Website); err != nil {
		return nil, err
	}
	company.UpdateAddress(input.AddressLine1, input.AddressLine2, input.City, input.State,
		input.PostalCode, input.Country)
	if input.Timezone != "" || input.Currency != "" {
		timezone := input.Timezone
		if timezone == "" {
			timezone = company.Timezone
		}
		currency := input.Currency
		if currency == "" {
			currency = company.Currency
		}
		if err := company.UpdateLocale(timezone, currency); err != nil {
			return nil, err
		}
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}

	s.logger.Info("Company profile updated", zap.String("company_id", tenantID.String()))
	info := NewCompanyInfo(company)
	return &info, nil
}

// UpdateSettings merges the given keys into the company settings blob
func (s *CompanyService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, settings map[string]any) (*CompanyInfo, error) {
	company, err := s.companyRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	company.MergeSettings(settings)
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}

	info := NewCompanyInfo(company)
	return &info, nil
}
