// ABOUTME: Postgres schema migrations embedded in the binary.
// ABOUTME: Applied with golang-migrate through an iofs source.
package storage

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// NewPostgresMigrator creates a migrate instance for databaseURL.
func NewPostgresMigrator(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(postgresMigrations, "migrations/postgres")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// RunPostgresMigrations applies every pending migration.
// Being already up to date is not an error.
func RunPostgresMigrations(databaseURL string) error {
	m, err := NewPostgresMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
