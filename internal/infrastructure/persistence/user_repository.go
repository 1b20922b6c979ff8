package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevatecrm/backend/internal/domain/identity"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/infrastructure/persistence/tenant"
)

var userSortable = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"email":      true,
	"first_name": true,
	"last_name":  true,
}

// GormUserRepository persists users with GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByIDForTenant loads a user within a tenant
func (r *GormUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	var model UserModel
	err := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmailForTenant loads a user by email within one tenant. Emails
// are unique per tenant, not globally, so the tenant filter is part of
// the lookup key.
func (r *GormUserRepository) FindByEmailForTenant(ctx context.Context, tenantID uuid.UUID, email string) (*identity.User, error) {
	var model UserModel
	err := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		First(&model, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByEmailForTenant reports whether the email is taken within the tenant
func (r *GormUserRepository) ExistsByEmailForTenant(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	var count int64
	err := dbc(ctx, r.db).
		Model(&UserModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// FindAllForTenant returns a page of users and the total count
func (r *GormUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	query := dbc(ctx, r.db).
		Model(&UserModel{}).
		Scopes(tenant.TenantScope(tenantID))

	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var models []UserModel
	if err := applyFilter(query, filter, userSortable).Find(&models).Error; err != nil {
		return nil, 0, translateError(err)
	}

	users := make([]identity.User, 0, len(models))
	for i := range models {
		users = append(users, *models[i].ToDomain())
	}
	return users, total, nil
}

// Save inserts a new user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	model := newUserModel(user)
	return translateError(dbc(ctx, r.db).Create(model).Error)
}

// Update persists changes with optimistic locking
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	model := newUserModel(user)
	model.Version = user.Version + 1

	result := dbc(ctx, r.db).
		Model(&UserModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", user.ID, user.TenantID, user.Version).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	user.IncrementVersion()
	return nil
}

// Delete removes a user within a tenant
func (r *GormUserRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbc(ctx, r.db).
		Scopes(tenant.TenantScope(tenantID)).
		Delete(&UserModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
