// Command migrate applies the SQL schema migrations for the validator
// record store. It wraps golang-migrate with the project defaults so that
//
//	migrate -command up
//
// brings a fresh database to the current schema.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/maxipay/txvalidator/config"
	"github.com/maxipay/txvalidator/internal/logger"
)

func main() {
	var (
		databaseURL    = flag.String("database", "", "database URL (defaults to DATABASE_URL)")
		migrationsPath = flag.String("path", "migrations", "path to the migrations directory")
		command        = flag.String("command", "up", "migration command: up, down, version, force")
	)
	flag.Parse()

	if err := run(*databaseURL, *migrationsPath, *command, flag.Args()); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(databaseURL, migrationsPath, command string, args []string) error {
	if databaseURL == "" {
		databaseURL = config.FromEnv().DatabaseURL
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL is required: pass -database or set DATABASE_URL")
	}

	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("opening migration source %q: %w", migrationsPath, err)
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Info("schema already up to date")
				return nil
			}
			return fmt.Errorf("applying migrations: %w", err)
		}
		logger.Info("migrations applied")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("rolling back migrations: %w", err)
		}
		logger.Info("migrations rolled back")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
		logger.Info("schema version", "version", version, "dirty", dirty)

	case "force":
		if len(args) < 1 {
			return fmt.Errorf("force requires a version number: -command force <version>")
		}
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version number %q: %w", args[0], err)
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("forcing version %d: %w", version, err)
		}
		logger.Info("schema version forced", "version", version)

	default:
		return fmt.Errorf("unknown command %q (use: up, down, version, force)", command)
	}
	return nil
}
