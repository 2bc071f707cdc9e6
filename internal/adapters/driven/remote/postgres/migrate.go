package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Registers the postgres:// and postgresql:// database drivers.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/custodia-labs/jobtrack/internal/adapters/driven/remote/postgres/migrations"
)

// Migrator is the subset of *migrate.Migrate the store uses.
type Migrator interface {
	Up() error
	Close() (error, error)
}

// MigrationEngine creates a Migrator for a database URL. Tests replace it
// to avoid touching a real database.
type MigrationEngine func(databaseURL string) (Migrator, error)

// DefaultEngine reads the embedded schema through golang-migrate's iofs source.
func DefaultEngine(databaseURL string) (Migrator, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", src, databaseURL)
}

// Migrate applies every pending migration. An up-to-date schema is not an error.
func Migrate(engine MigrationEngine, databaseURL string) (err error) {
	m, err := engine(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			err = errors.Join(err, fmt.Errorf("migration source: %w", serr))
		}
		if dberr != nil {
			err = errors.Join(err, fmt.Errorf("migration database: %w", dberr))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}
