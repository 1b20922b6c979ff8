package persistence

import (
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/elevatecrm/backend/internal/infrastructure/config"
)

// Database owns the Postgres connection shared by the repositories.
type Database struct {
	DB *gorm.DB
}

// NewDatabase connects with GORM's logging silenced. Production wiring
// goes through NewDatabaseWithCustomLogger instead.
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return NewDatabaseWithCustomLogger(cfg, logger.Default.LogMode(logger.Silent))
}

// NewDatabaseWithCustomLogger connects using the given GORM logger,
// applies the pool settings from cfg, and verifies the connection with
// a ping before returning.
func NewDatabaseWithCustomLogger(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	d := &Database{DB: db}
	pool, err := d.pool()
	if err != nil {
		return nil, err
	}
	configurePool(pool, cfg)

	if err := pool.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return d, nil
}

// configurePool applies the connection pool limits. Lifetime settings
// are configured in minutes.
func configurePool(pool *sql.DB, cfg *config.DatabaseConfig) {
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

func (d *Database) pool() (*sql.DB, error) {
	pool, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	return pool, nil
}

// Ping reports whether the connection is still alive.
func (d *Database) Ping() error {
	pool, err := d.pool()
	if err != nil {
		return err
	}
	return pool.Ping()
}

// Close releases the connection pool.
func (d *Database) Close() error {
	pool, err := d.pool()
	if err != nil {
		return err
	}
	return pool.Close()
}
