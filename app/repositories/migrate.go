package repositories

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationFS embed.FS

// Migrate applies the embedded schema for driver to db. The migrate driver
// shares db, so the returned migrator is deliberately not closed.
func Migrate(db *sql.DB, driver string) error {
	src, err := iofs.New(migrationFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("load migrations for %s: %w", driver, err)
	}

	var target database.Driver
	switch driver {
	case DriverSQLite:
		target, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	case DriverPostgres:
		target, err = pgmigrate.WithInstance(db, &pgmigrate.Config{})
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("prepare %s migrations: %w", driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
