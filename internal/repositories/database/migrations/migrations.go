// Package migrations embeds the schema of every supported database and applies it with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// UpPostgres applies all pending migrations to a Postgres database opened with the pgx stdlib driver.
// The migrator takes ownership of db and closes it.
func UpPostgres(db *sql.DB, logger *slog.Logger) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}
	return up("postgres", driver, logger)
}

// UpSQLite applies all pending migrations to a SQLite database opened with modernc.org/sqlite.
// The migrator takes ownership of db and closes it.
func UpSQLite(db *sql.DB, logger *slog.Logger) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create sqlite driver instance for migrations: %w", err)
	}
	return up("sqlite", driver, logger)
}

func up(dir string, driver database.Driver, logger *slog.Logger) (retErr error) {
	source, err := iofs.New(files, dir)
	if err != nil {
		return fmt.Errorf("could not open embedded %s migrations: %w", dir, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dir, driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		if retErr != nil {
			return
		}
		if sourceErr != nil {
			retErr = fmt.Errorf("migration source error: %w", sourceErr)
		} else if dbErr != nil {
			retErr = fmt.Errorf("migration database error: %w", dbErr)
		}
	}()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.", slog.String("database", dir))
	} else {
		version, dirty, verr := m.Version()
		if verr != nil {
			return fmt.Errorf("failed to read migration version: %w", verr)
		}
		if dirty {
			return fmt.Errorf("database left dirty at migration version %d", version)
		}
		logger.Info("Database migrations applied successfully.", slog.String("database", dir), slog.Uint64("version", uint64(version)))
	}
	return nil
}
