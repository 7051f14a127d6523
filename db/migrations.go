// Package db embeds the schema migrations, one directory per driver.
package db

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed migrations
var migrations embed.FS

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Migrations returns the golang-migrate source tree for driver.
func Migrations(driver string) (fs.FS, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverPostgres:
		return fs.Sub(migrations, "migrations/postgres")
	case DriverSQLite, "sqlite":
		return fs.Sub(migrations, "migrations/sqlite3")
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// UpScripts returns the up migrations for driver in version order. Used to
// prepare throwaway databases without a migrator.
func UpScripts(driver string) ([]string, error) {
	src, err := Migrations(driver)
	if err != nil {
		return nil, err
	}
	names, err := fs.Glob(src, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	out := make([]string, 0, len(names))
	for _, name := range names {
		raw, err := fs.ReadFile(src, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, string(raw))
	}
	return out, nil
}
