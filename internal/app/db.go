package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/squad-roster/internal/config"
)

const pingTimeout = 5 * time.Second

// OpenDB opens a traced sqlx handle for the configured driver and checks the
// connection.
func OpenDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBDriver, cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open(cfg.DBDriver, dsn,
		otelsql.WithDBSystem(dbSystem(cfg.DBDriver)),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	// SQLite allows a single writer.
	if cfg.DBDriver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.DBDriver, err)
	}

	return db, nil
}

func dbSystem(driver string) string {
	if driver == config.DriverPostgres {
		return "postgresql"
	}
	return "sqlite"
}
