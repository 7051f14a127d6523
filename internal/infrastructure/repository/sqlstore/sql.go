// Package sqlstore implements the domain repositories on sqlx. The same
// queries run on Postgres and SQLite: both accept $n placeholders and
// INSERT ... RETURNING.
package sqlstore

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/squad-roster/internal/domain/account"
	"github.com/riskibarqy/squad-roster/internal/domain/squad"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
	"github.com/riskibarqy/squad-roster/internal/domain/team"
	"github.com/riskibarqy/squad-roster/internal/platform/dates"
	"github.com/riskibarqy/squad-roster/internal/platform/logging"
	"github.com/riskibarqy/squad-roster/internal/validation"
)

var (
	_ staff.Repository   = (*StaffRepository)(nil)
	_ squad.Repository   = (*SquadRepository)(nil)
	_ account.Repository = (*AccountRepository)(nil)
	_ team.Repository    = (*TeamRepository)(nil)
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

type options struct {
	now     func() time.Time
	checker *validation.Checker
	logger  *logging.Logger
}

// Option customizes a repository.
type Option func(*options)

// WithClock sets the clock used for timestamps and call-up date rules.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithChecker(checker *validation.Checker) Option {
	return func(o *options) {
		if checker != nil {
			o.checker = checker
		}
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, logger: logging.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.checker == nil {
		o.checker = validation.New(o.now)
	}
	return o
}

func (o options) stamp() time.Time {
	return dates.Stamp(o.now())
}

// rollback is deferred right after BeginTxx; after Commit it is a no-op.
func rollback(tx *sqlx.Tx) {
	_ = tx.Rollback()
}

func nullDate(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: dates.Day(t), Valid: true}
}

func fromNullDate(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return dates.Day(t.Time)
}

func fromStamp(t time.Time) time.Time {
	return dates.Stamp(t)
}
