package sqlstore

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	migrations "github.com/riskibarqy/squad-roster/db"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
	"github.com/riskibarqy/squad-roster/internal/platform/logging"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestDB opens a private in-memory SQLite database with the schema applied.
// One connection only, so the database lives as long as the handle.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := sqlx.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	scripts, err := migrations.UpScripts(migrations.DriverSQLite)
	require.NoError(t, err)
	for _, script := range scripts {
		_, err := db.Exec(script)
		require.NoError(t, err)
	}

	return db
}

func countWhere(t *testing.T, db *sqlx.DB, query string, args ...any) int {
	t.Helper()

	var n int
	require.NoError(t, db.Get(&n, query, args...))
	return n
}

func testOptions(clock *testClock) []Option {
	return []Option{WithClock(clock.Now), WithLogger(logging.NewNop())}
}

func newPlayer(first string, number int, pos staff.Position) staff.Player {
	return staff.Player{
		Base: staff.Base{
			FirstName:     first,
			LastName:      "Tester",
			BirthDate:     time.Date(1998, 3, 14, 0, 0, 0, 0, time.UTC),
			JoinDate:      time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC),
			Salary:        250000.5,
			OriginCountry: "España",
		},
		Position:      pos,
		SquadNumber:   number,
		Height:        1.81,
		Weight:        76.5,
		Goals:         3,
		MatchesPlayed: 40,
	}
}

func newCoach(first string) staff.Coach {
	return staff.Coach{
		Base: staff.Base{
			FirstName:     first,
			LastName:      "Coach",
			BirthDate:     time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
			JoinDate:      time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC),
			Salary:        900000,
			OriginCountry: "Italia",
		},
		Specialization: staff.SpecializationHead,
	}
}
