package tenant

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GUCName is the Postgres session variable the row-level security
// policies read. Policies are written as
//
//	USING (tenant_id = current_setting('app.current_tenant')::uuid)
//
// so every transaction touching tenant tables must set it first.
const GUCName = "app.current_tenant"

// SetRLSTenant sets the tenant GUC on the current transaction. The third
// argument to set_config makes the value transaction-local, so it cannot
// leak into other sessions through the connection pool.
func SetRLSTenant(tx *gorm.DB, tenantID uuid.UUID) error {
	return tx.Exec("SELECT set_config(?, ?, true)", GUCName, tenantID.String()).Error
}

type txContextKey struct{}

// WithTx stores a transaction handle in ctx so repositories reached
// deeper in the call chain run their statements on the same connection.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext returns the transaction placed in ctx by WithTx.
func TxFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx, ok
}

// UnitOfWork opens tenant-bound transactions. On Postgres it sets the
// RLS GUC right after BEGIN, so the row-level security policies apply
// to every statement fn issues; the handle is threaded through the
// context for the repositories to pick up. SQLite (tests) has no GUCs,
// there the application-level tenant scope carries isolation alone.
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork wraps the database handle.
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// RunAs executes fn inside a transaction pinned to tenantID. The
// context passed to fn carries the transaction; a nil tenant is
// refused before any statement runs.
func (u *UnitOfWork) RunAs(ctx context.Context, tenantID uuid.UUID, fn func(ctx context.Context) error) error {
	if tenantID == uuid.Nil {
		return ErrTenantIDRequired
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := SetRLSTenant(tx, tenantID); err != nil {
				return err
			}
		}
		return fn(WithTx(ctx, tx))
	})
}
