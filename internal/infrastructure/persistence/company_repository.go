package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevatecrm/backend/internal/domain/identity"
	"github.com/elevatecrm/backend/internal/domain/shared"
)

// GormCompanyRepository persists companies with GORM. Companies are the
// tenants, so no tenant scoping applies here.
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a company repository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID loads a company by ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	var model CompanyModel
	if err := dbc(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySubdomain loads a company by its unique subdomain
func (r *GormCompanyRepository) FindBySubdomain(ctx context.Context, subdomain string) (*identity.Company, error) {
	var model CompanyModel
	err := dbc(ctx, r.db).
		First(&model, "subdomain = ?", identity.NormalizeSubdomain(subdomain)).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsBySubdomain reports whether the subdomain is already taken
func (r *GormCompanyRepository) ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error) {
	var count int64
	err := dbc(ctx, r.db).
		Model(&CompanyModel{}).
		Where("subdomain = ?", identity.NormalizeSubdomain(subdomain)).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// FindActiveIDs lists the IDs of all active companies
func (r *GormCompanyRepository) FindActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := dbc(ctx, r.db).
		Model(&CompanyModel{}).
		Where("is_active = ?", true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, translateError(err)
	}
	return ids, nil
}

// Save inserts a new company
func (r *GormCompanyRepository) Save(ctx context.Context, company *identity.Company) error {
	model := newCompanyModel(company)
	return translateError(dbc(ctx, r.db).Create(model).Error)
}

// Update persists changes to an existing company
func (r *GormCompanyRepository) Update(ctx context.Context, company *identity.Company) error {
	model := newCompanyModel(company)
	result := dbc(ctx, r.db).
		Model(&CompanyModel{}).
		Where("id = ? AND version = ?", company.ID, company.Version).
		Updates(map[string]any{
			"name":            model.Name,
			"email":           model.Email,
			"phone":           model.Phone,
			"website":         model.Website,
			"address_line1":   model.AddressLine1,
			"address_line2":   model.AddressLine2,
			"city":            model.City,
			"state":           model.State,
			"postal_code":     model.PostalCode,
			"country":         model.Country,
			"timezone":        model.Timezone,
			"currency":        model.Currency,
			"plan":            model.Plan,
			"plan_expires_at": model.PlanExpiresAt,
			"settings":        model.Settings,
			"is_active":       model.IsActive,
			"version":         gorm.Expr("version + 1"),
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	company.IncrementVersion()
	return nil
}

var _ identity.CompanyRepository = (*GormCompanyRepository)(nil)
