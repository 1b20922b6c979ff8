package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevatecrm/backend/internal/domain/crm"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/infrastructure/persistence/tenant"
)

var contactSortable = map[string]bool{
	"created_at":       true,
	"updated_at":       true,
	"first_name":       true,
	"last_name":        true,
	"company_name":     true,
	"email":            true,
	"stage":            true,
	"lead_score":       true,
	"last_activity_at": true,
}

// GormContactRepository persists contacts with GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a contact repository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByIDForTenant loads a contact within a tenant
func (r *GormContactRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*crm.Contact, error) {
	var model ContactModel
	err := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns a page of contacts and the total count.
// The filter supports search over names, company and email plus exact
// matches on stage, type, assigned_to and is_active.
func (r *GormContactRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Contact, int64, error) {
	query := dbc(ctx, r.db).
		Model(&ContactModel{}).
		Scopes(tenant.TenantScope(tenantID))

	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(company_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	for _, column := range []string{"stage", "type", "assigned_to", "is_active", "lead_source"} {
		if value, ok := filter.Filters[column]; ok {
			query = query.Where(column+" = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var models []ContactModel
	if err := applyFilter(query, filter, contactSortable).Find(&models).Error; err != nil {
		return nil, 0, translateError(err)
	}

	contacts := make([]crm.Contact, 0, len(models))
	for i := range models {
		contacts = append(contacts, *models[i].ToDomain())
	}
	return contacts, total, nil
}

// ExistsByEmailForTenant reports whether a contact with the email exists
func (r *GormContactRepository) ExistsByEmailForTenant(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	var count int64
	err := dbc(ctx, r.db).
		Model(&ContactModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// CountByStage returns active contact counts grouped by lifecycle stage
func (r *GormContactRepository) CountByStage(ctx context.Context, tenantID uuid.UUID) (map[crm.LifecycleStage]int64, error) {
	type row struct {
		Stage string
		Count int64
	}
	var rows []row
	err := dbc(ctx, r.db).
		Model(&ContactModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Select("stage, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("stage").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	counts := make(map[crm.LifecycleStage]int64, len(rows))
	for _, r := range rows {
		counts[crm.LifecycleStage(r.Stage)] = r.Count
	}
	return counts, nil
}

// Save inserts a new contact
func (r *GormContactRepository) Save(ctx context.Context, contact *crm.Contact) error {
	model := newContactModel(contact)
	return translateError(dbc(ctx, r.db).Create(model).Error)
}

// Update persists changes with optimistic locking
func (r *GormContactRepository) Update(ctx context.Context, contact *crm.Contact) error {
	model := newContactModel(contact)
	model.Version = contact.Version + 1

	result := dbc(ctx, r.db).
		Model(&ContactModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", contact.ID, contact.TenantID, contact.Version).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	contact.IncrementVersion()
	return nil
}

// Delete removes a contact within a tenant
func (r *GormContactRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		Delete(&ContactModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ crm.ContactRepository = (*GormContactRepository)(nil)
