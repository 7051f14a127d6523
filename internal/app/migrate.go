package app

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	migrations "github.com/riskibarqy/squad-roster/db"
	"github.com/riskibarqy/squad-roster/internal/config"
	"github.com/riskibarqy/squad-roster/internal/platform/logging"
)

// Migrate applies every pending embedded migration for the configured
// driver. It uses its own connection, closed on return.
func Migrate(cfg config.Config, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.Default()
	}

	m, err := NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(m, logger)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug("schema up to date", "driver", cfg.DBDriver)
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.Info("migrations applied", "driver", cfg.DBDriver, "version", version)
	return nil
}

// NewMigrator builds a golang-migrate instance over the embedded scripts of
// cfg.DBDriver. Callers own the returned migrator and must Close it.
func NewMigrator(cfg config.Config) (*migrate.Migrate, error) {
	fsys, err := migrations.Migrations(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	dsn := normalizeDBURL(cfg.DBDriver, cfg.DBURL, cfg.DBDisablePreparedBinary)
	conn, err := sql.Open(cfg.DBDriver, dsn)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	var driver database.Driver
	switch cfg.DBDriver {
	case config.DriverPostgres:
		driver, err = migratepostgres.WithInstance(conn, &migratepostgres.Config{})
	case config.DriverSQLite:
		driver, err = migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}
	if err != nil {
		_ = conn.Close()
		_ = src.Close()
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, cfg.DBDriver, driver)
	if err != nil {
		_ = driver.Close()
		_ = src.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate, logger *logging.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("close migration source", "error", srcErr)
	}
	if dbErr != nil {
		logger.Warn("close migration db", "error", dbErr)
	}
}
