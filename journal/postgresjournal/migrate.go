package postgresjournal

import (
	"context"
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/AntonStoeckl/library-records/journal"
)

const (
	migrationsDir   = "migrations"
	migrationsTable = "library_schema_migrations"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate brings the schema of the default journal table up to date.
// Running it against an up-to-date database is a no-op. The db itself stays open.
func Migrate(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return journal.ErrNilDatabaseConnection
	}

	source, err := iofs.New(migrationFiles, migrationsDir)
	if err != nil {
		return errors.Join(journal.ErrMigrationFailed, err)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return errors.Join(journal.ErrMigrationFailed, err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		_ = conn.Close()
		return errors.Join(journal.ErrMigrationFailed, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return errors.Join(journal.ErrMigrationFailed, err)
	}
	defer m.Close() //nolint:errcheck

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Join(journal.ErrMigrationFailed, err)
	}

	return nil
}
