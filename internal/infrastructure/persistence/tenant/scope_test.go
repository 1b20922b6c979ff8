package tenant

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// fixture is a minimal tenant-owned table for scoping assertions.
type fixture struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"size:100"`
}

func (fixture) TableName() string { return "fixtures" }

// newMockGorm opens gorm over go-sqlmock so tests can assert the exact
// SQL the tenant scope produces.
func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestTenantScope_FiltersByTenant(t *testing.T) {
	db, mock, raw := newMockGorm(t)
	defer raw.Close()

	tenantID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "fixtures" WHERE tenant_id = \$1`).
		WithArgs(tenantID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

	var rows []fixture
	require.NoError(t, db.Scopes(TenantScope(tenantID)).Find(&rows).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantScopeString_FiltersByTenant(t *testing.T) {
	db, mock, raw := newMockGorm(t)
	defer raw.Close()

	tenantID := uuid.New().String()
	mock.ExpectQuery(`SELECT \* FROM "fixtures" WHERE tenant_id = \$1`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

	var rows []fixture
	require.NoError(t, db.Scopes(TenantScopeString(tenantID)).Find(&rows).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantScope_ChainsWithQueryModifiers(t *testing.T) {
	t.Run("extra where clauses", func(t *testing.T) {
		db, mock, raw := newMockGorm(t)
		defer raw.Close()

		mock.ExpectQuery(`SELECT \* FROM "fixtures" WHERE .+ AND .+`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

		var rows []fixture
		err := db.Scopes(TenantScope(uuid.New())).
			Where("name = ?", "Acme").Find(&rows).Error
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ordering and pagination", func(t *testing.T) {
		db, mock, raw := newMockGorm(t)
		defer raw.Close()

		tenantID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "fixtures" WHERE tenant_id = \$1 ORDER BY name ASC LIMIT \$2 OFFSET \$3`).
			WithArgs(tenantID.String(), 10, 20).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

		var rows []fixture
		err := db.Scopes(TenantScope(tenantID)).
			Order("name ASC").Limit(10).Offset(20).Find(&rows).Error
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
