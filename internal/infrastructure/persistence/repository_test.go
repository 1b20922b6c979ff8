package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(AllModels()...))
	return db
}

func TestApplyFilter(t *testing.T) {
	db := setupTestDB(t)
	sortable := map[string]bool{"created_at": true, "name": true}

	t.Run("rejects unknown sort column", func(t *testing.T) {
		query := applyFilter(db.Model(&ContactModel{}), shared.Filter{OrderBy: "1; DROP TABLE contacts"}, sortable)

		stmt := query.Session(&gorm.Session{DryRun: true}).Find(&[]ContactModel{}).Statement
		assert.Contains(t, stmt.SQL.String(), "created_at DESC")
	})

	t.Run("accepts whitelisted column and asc direction", func(t *testing.T) {
		query := applyFilter(db.Model(&ContactModel{}), shared.Filter{OrderBy: "name", OrderDir: "asc"}, sortable)

		stmt := query.Session(&gorm.Session{DryRun: true}).Find(&[]ContactModel{}).Statement
		assert.Contains(t, stmt.SQL.String(), "name ASC")
	})

	t.Run("defaults page size", func(t *testing.T) {
		query := applyFilter(db.Model(&ContactModel{}), shared.Filter{}, sortable)

		stmt := query.Session(&gorm.Session{DryRun: true}).Find(&[]ContactModel{}).Statement
		assert.Contains(t, stmt.SQL.String(), "LIMIT")
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off`, escapeLike("50% off"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c\\d`, escapeLike(`c\d`))
}

func TestSearchPattern(t *testing.T) {
	assert.Equal(t, "%acme%", searchPattern("  acme  "))
}
