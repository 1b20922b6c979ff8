package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/infrastructure/persistence/tenant"
)

// dbc picks the handle a repository statement runs on. A handle that is
// already a transaction wins (the scopes build repositories over their
// own tx); otherwise the request transaction opened by the unit of work
// is taken from ctx, so statements run on the connection that set the
// row level security GUC.
func dbc(ctx context.Context, db *gorm.DB) *gorm.DB {
	if _, ok := db.Statement.ConnPool.(gorm.TxCommitter); ok {
		return db.WithContext(ctx)
	}
	if tx, ok := tenant.TxFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// applyFilter applies pagination and ordering to a query. Sort columns
// are checked against a whitelist so user input never reaches the ORDER
// BY clause directly.
func applyFilter(db *gorm.DB, filter shared.Filter, sortable map[string]bool) *gorm.DB {
	orderBy := filter.OrderBy
	if orderBy == "" || !sortable[orderBy] {
		orderBy = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "ASC"
	}

	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return db.
		Order(fmt.Sprintf("%s %s", orderBy, dir)).
		Offset(filter.Offset()).
		Limit(pageSize)
}

// translateError maps GORM errors onto domain errors
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// escapeLike escapes LIKE wildcards in user-supplied search terms
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// searchPattern builds a case-insensitive contains pattern. Callers
// compare against LOWER(column) so the same predicate works on both
// Postgres and SQLite.
func searchPattern(term string) string {
	return "%" + escapeLike(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// dayLayouts covers how DATE() aggregation results come back from the
// supported drivers.
var dayLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
}

// parseDay parses the day column of a GROUP BY DATE(...) aggregation
func parseDay(raw string) (time.Time, error) {
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Truncate(24 * time.Hour), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable day value %q", raw)
}
