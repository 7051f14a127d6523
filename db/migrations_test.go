package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_EveryUpHasADown(t *testing.T) {
	for _, driver := range []string{DriverPostgres, DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			src, err := Migrations(driver)
			require.NoError(t, err)

			ups, err := fs.Glob(src, "*.up.sql")
			require.NoError(t, err)
			downs, err := fs.Glob(src, "*.down.sql")
			require.NoError(t, err)

			assert.Len(t, ups, 3)
			assert.Len(t, downs, len(ups))
		})
	}
}

func TestUpScripts_OrderedByVersion(t *testing.T) {
	scripts, err := UpScripts(DriverSQLite)
	require.NoError(t, err)
	require.Len(t, scripts, 3)
	assert.Contains(t, scripts[0], "CREATE TABLE IF NOT EXISTS staff")
	assert.Contains(t, scripts[2], "CREATE TABLE IF NOT EXISTS accounts")
}

func TestMigrations_UnknownDriver(t *testing.T) {
	_, err := Migrations("mysql")
	require.Error(t, err)
}
