// Command migrate applies database schema migrations.
//
// Usage:
//
//	migrate [flags] up              apply all pending migrations
//	migrate [flags] down            roll back one migration
//	migrate [flags] steps N         apply N migrations (negative rolls back)
//	migrate [flags] goto V          migrate to version V
//	migrate [flags] force V         set version V without running migrations
//	migrate [flags] version         print the current version
//	migrate [flags] drop            drop everything in the database
package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/infrastructure/config"
	"github.com/elevatecrm/backend/internal/infrastructure/logger"
	"github.com/elevatecrm/backend/internal/infrastructure/migration"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		path        = flag.String("path", defaultMigrationsPath, "directory containing migration files")
		databaseURL = flag.String("database", "", "database URL (defaults to the configured database)")
	)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	log, err := logger.New(logger.DefaultConfig())
	if err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	url := *databaseURL
	if url == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatal("Failed to load configuration", zap.Error(err))
		}
		url = cfg.Database.DSN()
	}

	migrator, err := migration.NewFromURL(url, *path, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator", zap.Error(err))
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Error("Error closing migrator", zap.Error(err))
		}
	}()

	if err := run(migrator, log, args); err != nil {
		log.Fatal("Migration failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(migrator *migration.Migrator, log *zap.Logger, args []string) error {
	switch args[0] {
	case "up":
		return migrator.Up()

	case "down":
		return migrator.Steps(-1)

	case "steps":
		n, err := intArg(args, "steps N")
		if err != nil {
			return err
		}
		return migrator.Steps(n)

	case "goto":
		v, err := intArg(args, "goto V")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("version cannot be negative: %d", v)
		}
		return migrator.GoTo(uint(v))

	case "force":
		v, err := intArg(args, "force V")
		if err != nil {
			return err
		}
		return migrator.Force(v)

	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		log.Info("Current migration version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
		return nil

	case "drop":
		return migrator.Drop()

	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func intArg(args []string, form string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: %s", form)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", args[1], err)
	}
	return n, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [flags] <command>

Commands:
  up         apply all pending migrations
  down       roll back one migration
  steps N    apply N migrations (negative N rolls back)
  goto V     migrate to version V
  force V    set version V without running migrations
  version    print the current version
  drop       drop everything in the database

Flags:
`)
	flag.PrintDefaults()
}
