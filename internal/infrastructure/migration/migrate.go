// Package migration wraps golang-migrate with the project's logging
// conventions. Schema files live in the migrations/ directory as
// NNNNNN_name.{up,down}.sql pairs.
package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator applies and rolls back schema migrations.
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// New builds a Migrator on top of an existing database handle.
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{m: m, logger: logger}, nil
}

// NewFromURL builds a Migrator that opens its own connection from a
// database URL. Used by the migrate command.
func NewFromURL(databaseURL, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{m: m, logger: logger}, nil
}

// Up applies every pending migration.
func (mg *Migrator) Up() error {
	err := mg.m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		mg.logger.Info("No migrations to apply")
		return nil
	case err != nil:
		return fmt.Errorf("migration up failed: %w", err)
	}
	return mg.logVersion("Migrations applied")
}

// Down rolls back every applied migration.
func (mg *Migrator) Down() error {
	err := mg.m.Down()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		mg.logger.Info("No migrations to roll back")
		return nil
	case err != nil:
		return fmt.Errorf("migration down failed: %w", err)
	}
	mg.logger.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations forward, or rolls back -n when negative.
func (mg *Migrator) Steps(n int) error {
	err := mg.m.Steps(n)
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		mg.logger.Info("No migrations to apply")
		return nil
	case err != nil:
		return fmt.Errorf("migration steps failed: %w", err)
	}
	return mg.logVersion("Migration steps applied")
}

// GoTo migrates up or down until the schema is at the given version.
func (mg *Migrator) GoTo(version uint) error {
	err := mg.m.Migrate(version)
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		mg.logger.Info("Already at target version", zap.Uint("version", version))
		return nil
	case err != nil:
		return fmt.Errorf("migration to version %d failed: %w", version, err)
	}
	mg.logger.Info("Migrated to version", zap.Uint("version", version))
	return nil
}

// Version reports the current schema version. A fresh database reports
// version 0 and no error.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without running migrations.
// Only for recovering a dirty schema after a failed migration.
func (mg *Migrator) Force(version int) error {
	mg.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Drop removes everything in the connected database, data included.
func (mg *Migrator) Drop() error {
	mg.logger.Warn("Dropping database, all data will be lost")
	if err := mg.m.Drop(); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	return nil
}

// Close releases the source and database handles.
func (mg *Migrator) Close() error {
	sourceErr, dbErr := mg.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}

func (mg *Migrator) logVersion(msg string) error {
	version, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	mg.logger.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
