package tenant

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevatecrm/backend/internal/infrastructure/logger"
)

// plainFixture has no tenant column; the callback must leave it alone.
type plainFixture struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:100"`
}

func (plainFixture) TableName() string { return "plain_fixtures" }

func ctxWithTenant(tenantID string) context.Context {
	ctx := context.Background()
	if tenantID == "" {
		return ctx
	}
	ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID)
	return ctx
}

func TestNewTenantCallback(t *testing.T) {
	tc := NewTenantCallback("", true)
	assert.Equal(t, "tenant_id", tc.tenantColumn)
	assert.True(t, tc.required)

	custom := NewTenantCallback("org_id", false)
	assert.Equal(t, "org_id", custom.tenantColumn)
	assert.False(t, custom.required)
}

func TestTenantCallback_FiltersQueries(t *testing.T) {
	db, mock, raw := newMockGorm(t)
	defer raw.Close()
	EnableAutoTenantFilter(db, true)

	tenantID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "fixtures" WHERE "fixtures"\."tenant_id" = \$1`).
		WithArgs(tenantID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

	var rows []fixture
	err := db.WithContext(ctxWithTenant(tenantID.String())).Find(&rows).Error
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantCallback_DoesNotStackExistingFilter(t *testing.T) {
	db, mock, raw := newMockGorm(t)
	defer raw.Close()
	EnableAutoTenantFilter(db, true)

	tenantID := uuid.New()
	// Only the explicit condition, no second tenant_id predicate.
	mock.ExpectQuery(`SELECT \* FROM "fixtures" WHERE tenant_id = \$1`).
		WithArgs(tenantID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

	var rows []fixture
	err := db.WithContext(ctxWithTenant(tenantID.String())).
		Where("tenant_id = ?", tenantID.String()).Find(&rows).Error
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantCallback_MissingTenant(t *testing.T) {
	t.Run("required fails the query", func(t *testing.T) {
		db, _, raw := newMockGorm(t)
		defer raw.Close()
		EnableAutoTenantFilter(db, true)

		var rows []fixture
		err := db.WithContext(context.Background()).Find(&rows).Error
		assert.ErrorIs(t, err, ErrTenantIDRequired)
	})

	t.Run("optional runs unfiltered", func(t *testing.T) {
		db, mock, raw := newMockGorm(t)
		defer raw.Close()
		EnableAutoTenantFilter(db, false)

		mock.ExpectQuery(`SELECT \* FROM "fixtures"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

		var rows []fixture
		err := db.WithContext(context.Background()).Find(&rows).Error
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTenantCallback_MalformedTenant(t *testing.T) {
	db, _, raw := newMockGorm(t)
	defer raw.Close()
	EnableAutoTenantFilter(db, true)

	var rows []fixture
	err := db.WithContext(ctxWithTenant("not-a-uuid")).Find(&rows).Error
	assert.ErrorIs(t, err, ErrInvalidTenantID)
}

func TestTenantCallback_SkipsUntenantedModels(t *testing.T) {
	db, mock, raw := newMockGorm(t)
	defer raw.Close()
	EnableAutoTenantFilter(db, true)

	// No tenant in context and required=true, yet the query must pass
	// because the model carries no tenant column.
	mock.ExpectQuery(`SELECT \* FROM "plain_fixtures"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	var rows []plainFixture
	err := db.WithContext(context.Background()).Find(&rows).Error
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisableAutoTenantFilter(t *testing.T) {
	db, mock, raw := newMockGorm(t)
	defer raw.Close()

	EnableAutoTenantFilter(db, true)
	DisableAutoTenantFilter(db)

	// With callbacks removed a tenant-less query goes straight through.
	mock.ExpectQuery(`SELECT \* FROM "fixtures"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

	var rows []fixture
	err := db.WithContext(context.Background()).Find(&rows).Error
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
