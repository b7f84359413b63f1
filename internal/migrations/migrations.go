// Package migrations applies the contacts schema with golang-migrate.
// SQL files are embedded per driver under postgres/ and mysql/.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stevenscomputer/site/internal/config"
)

//go:embed postgres/*.sql mysql/*.sql
var files embed.FS

// Files returns the embedded migrations for driver.
func Files(driver string) (fs.FS, error) {
	switch driver {
	case config.DriverPostgres, config.DriverMySQL:
		return fs.Sub(files, driver)
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
}

func newMigrate(cfg config.DatabaseConfig) (*migrate.Migrate, error) {
	fsys, err := Files(cfg.Driver)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.MigrationURL())
	if err != nil {
		return nil, fmt.Errorf("open migration target: %w", err)
	}
	return m, nil
}

// Up applies every pending migration. Having nothing to apply is not an error.
func Up(cfg config.DatabaseConfig) error {
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("all migrations already applied")
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}
	slog.Info("migrations completed")
	return nil
}

// Down rolls back the most recent migration.
func Down(cfg config.DatabaseConfig) error {
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	slog.Info("rolled back one migration")
	return nil
}

// Version returns the applied schema version and whether it is dirty.
func Version(cfg config.DatabaseConfig) (uint, bool, error) {
	m, err := newMigrate(cfg)
	if err != nil {
		return 0, false, err
	}
	defer closeMigrate(m)

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func closeMigrate(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		slog.Warn("close migrator", "source_error", srcErr, "database_error", dbErr)
	}
}
