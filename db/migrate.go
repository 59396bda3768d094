package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// The ledger schema ships inside the binary.
//
//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationsTable is where golang-migrate tracks the applied version.
const MigrationsTable = "schema_migrations"

// SchemaVersion is the version MigrateUp leaves the ledger at.
const SchemaVersion uint = 2

// MigrateUp applies all pending up migrations. ErrNoChange is not an error.
//
// IMPORTANT: the migrator takes ownership of conn and closes it when done. Use
// MigrateUpFromPath to let it manage its own connection.
func MigrateUp(conn *sql.DB) error {
	m, err := newMigrator(conn)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// MigrateUpFromPath applies all pending migrations on a fresh connection to path.
func MigrateUpFromPath(path string) error {
	conn, err := NewSQLiteConnectionWithDefaults(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	return MigrateUp(conn)
}

// MigrateDownFromPath rolls back steps migrations, or all of them when steps
// is -1.
func MigrateDownFromPath(path string, steps int) error {
	conn, err := NewSQLiteConnectionWithDefaults(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	m, err := newMigrator(conn)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if steps == -1 {
		err = m.Down()
	} else {
		err = m.Steps(-steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return nil
}

// MigrationVersionFromPath returns the applied version and dirty state.
// A ledger without migrations reports version 0.
func MigrationVersionFromPath(path string) (uint, bool, error) {
	conn, err := NewSQLiteConnectionWithDefaults(path)
	if err != nil {
		return 0, false, fmt.Errorf("failed to open database: %w", err)
	}
	m, err := newMigrator(conn)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// newMigrator pairs the embedded source with conn. Closing the returned
// migrator closes conn.
func newMigrator(conn *sql.DB) (*migrate.Migrate, error) {
	if conn == nil {
		return nil, errors.New("database connection is required")
	}

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(conn, &sqlite.Config{
		MigrationsTable: MigrationsTable,
		DatabaseName:    "main",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
