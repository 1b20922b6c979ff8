package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSetRLSTenant(t *testing.T) {
	db, mock, raw := newMockGorm(t)
	defer raw.Close()

	tenantID := uuid.New()
	mock.ExpectExec(`SELECT set_config\(\$1, \$2, \$3\)`).
		WithArgs(GUCName, tenantID.String(), true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, SetRLSTenant(db, tenantID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_RunAs_SetsGUCOnPostgres(t *testing.T) {
	db, mock, raw := newMockGorm(t)
	defer raw.Close()

	tenantID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(`SELECT set_config\(\$1, \$2, \$3\)`).
		WithArgs(GUCName, tenantID.String(), true).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "fixtures" WHERE tenant_id = \$1`).
		WithArgs(tenantID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))
	mock.ExpectCommit()

	uow := NewUnitOfWork(db)
	err := uow.RunAs(context.Background(), tenantID, func(ctx context.Context) error {
		tx, ok := TxFromContext(ctx)
		require.True(t, ok, "transaction must be carried in the context")

		var rows []fixture
		return tx.Scopes(TenantScope(tenantID)).Find(&rows).Error
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_RunAs_RollsBackOnError(t *testing.T) {
	db, mock, raw := newMockGorm(t)
	defer raw.Close()

	tenantID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(`SELECT set_config\(\$1, \$2, \$3\)`).
		WithArgs(GUCName, tenantID.String(), true).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := NewUnitOfWork(db).RunAs(context.Background(), tenantID, func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_RunAs_RefusesNilTenant(t *testing.T) {
	db, _, raw := newMockGorm(t)
	defer raw.Close()

	err := NewUnitOfWork(db).RunAs(context.Background(), uuid.Nil, func(ctx context.Context) error {
		t.Fatal("callback must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrTenantIDRequired)
}

func TestUnitOfWork_RunAs_SkipsGUCOnSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&fixture{}))

	tenantID := uuid.New()
	err = NewUnitOfWork(db).RunAs(context.Background(), tenantID, func(ctx context.Context) error {
		tx, ok := TxFromContext(ctx)
		require.True(t, ok)
		return tx.Create(&fixture{ID: uuid.New(), TenantID: tenantID, Name: "acme"}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&fixture{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTxFromContext_Empty(t *testing.T) {
	_, ok := TxFromContext(context.Background())
	assert.False(t, ok)
}
