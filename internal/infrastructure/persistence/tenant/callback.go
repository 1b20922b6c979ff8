package tenant

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/elevatecrm/backend/internal/infrastructure/logger"
)

// TenantCallback injects the tenant filter into queries through GORM
// callbacks, as a safety net for code paths that bypass the scoped
// repositories. Creates are exempt: the application sets tenant_id on
// new rows itself.
type TenantCallback struct {
	tenantColumn string
	required     bool
}

// NewTenantCallback builds a callback filtering on tenantColumn
// (tenant_id when empty).
func NewTenantCallback(tenantColumn string, required bool) *TenantCallback {
	if tenantColumn == "" {
		tenantColumn = defaultTenantColumn
	}
	return &TenantCallback{tenantColumn: tenantColumn, required: required}
}

// RegisterCallbacks hooks the filter in front of query, row, update
// and delete processing.
func (tc *TenantCallback) RegisterCallbacks(db *gorm.DB) {
	_ = db.Callback().Query().Before("gorm:query").Register("tenant:before_query", tc.apply)
	_ = db.Callback().Row().Before("gorm:row").Register("tenant:before_row", tc.apply)
	_ = db.Callback().Update().Before("gorm:update").Register("tenant:before_update", tc.apply)
	_ = db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", tc.apply)
}

// apply adds the tenant condition unless the statement is unscoped or
// already filters on the tenant column.
func (tc *TenantCallback) apply(db *gorm.DB) {
	stmt := db.Statement
	if stmt.Context == nil || stmt.Unscoped {
		return
	}
	// Tables without the tenant column (companies) are exempt.
	if stmt.Schema != nil && stmt.Schema.LookUpField(tc.tenantColumn) == nil {
		return
	}
	if tc.alreadyFiltered(db) {
		return
	}

	tenantID := logger.GetTenantID(stmt.Context)
	if tenantID == "" {
		if tc.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return
	}
	if _, err := uuid.Parse(tenantID); err != nil {
		_ = db.AddError(ErrInvalidTenantID)
		return
	}

	stmt.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

// alreadyFiltered reports whether the statement's WHERE clause or raw
// SQL mentions the tenant column, so the filter is not stacked twice.
func (tc *TenantCallback) alreadyFiltered(db *gorm.DB) bool {
	if c, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := c.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.mentionsTenant(expr) {
					return true
				}
			}
		}
	}
	if sql := db.Statement.SQL.String(); sql != "" && strings.Contains(sql, tc.tenantColumn) {
		return true
	}
	return false
}

func (tc *TenantCallback) mentionsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.Expr:
		return strings.Contains(e.SQL, tc.tenantColumn)
	case clause.AndConditions:
		for _, sub := range e.Exprs {
			if tc.mentionsTenant(sub) {
				return true
			}
		}
	case clause.OrConditions:
		for _, sub := range e.Exprs {
			if tc.mentionsTenant(sub) {
				return true
			}
		}
	}
	return false
}

// EnableAutoTenantFilter registers the standard tenant_id callbacks
// on db.
func EnableAutoTenantFilter(db *gorm.DB, required bool) {
	NewTenantCallback(defaultTenantColumn, required).RegisterCallbacks(db)
}

// DisableAutoTenantFilter removes the callbacks again. Test helper;
// production code never unhooks tenant filtering.
func DisableAutoTenantFilter(db *gorm.DB) {
	_ = db.Callback().Query().Remove("tenant:before_query")
	_ = db.Callback().Row().Remove("tenant:before_row")
	_ = db.Callback().Update().Remove("tenant:before_update")
	_ = db.Callback().Delete().Remove("tenant:before_delete")
}
