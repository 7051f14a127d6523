package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/squad-roster/internal/config"
	"github.com/riskibarqy/squad-roster/internal/domain/account"
	"github.com/riskibarqy/squad-roster/internal/domain/squad"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
	"github.com/riskibarqy/squad-roster/internal/domain/team"
	"github.com/riskibarqy/squad-roster/internal/infrastructure/credential"
	"github.com/riskibarqy/squad-roster/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/squad-roster/internal/platform/cache"
	"github.com/riskibarqy/squad-roster/internal/platform/logging"
	"github.com/riskibarqy/squad-roster/internal/usecase"
)

// App holds the wired repositories and services over one database.
type App struct {
	cfg    config.Config
	db     *sqlx.DB
	logger *logging.Logger

	Staff    *sqlstore.StaffRepository
	Squads   *sqlstore.SquadRepository
	Accounts *sqlstore.AccountRepository
	Teams    *sqlstore.TeamRepository
}

// New migrates the schema, opens the database and builds the repositories.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if err := Migrate(cfg, logger); err != nil {
		return nil, err
	}
	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []sqlstore.Option{sqlstore.WithLogger(logger)}
	staffRepo := sqlstore.NewStaffRepository(db, cache.NewStore[int64, staff.Member](cfg.CacheTTL), opts...)
	squadRepo := sqlstore.NewSquadRepository(db, cache.NewStore[int64, squad.Call](cfg.CacheTTL), staffRepo, opts...).
		WithFormation(formation(cfg))

	return &App{
		cfg:      cfg,
		db:       db,
		logger:   logger,
		Staff:    staffRepo,
		Squads:   squadRepo,
		Accounts: sqlstore.NewAccountRepository(db, credential.NewBcryptHasher(cfg.BcryptCost), opts...),
		Teams:    sqlstore.NewTeamRepository(db, opts...),
	}, nil
}

// Interchange builds the import/export service acting as session.
// formation applies the configured lineup rules to the default quotas.
func formation(cfg config.Config) squad.Formation {
	f := squad.DefaultFormation()
	f.RequireGoalkeeper = cfg.SquadRequireGoalkeeper
	return f
}

func (a *App) Interchange(session account.Session) *usecase.InterchangeService {
	return usecase.NewInterchangeService(a.Staff, session, usecase.InterchangeConfig{
		Workers:    a.cfg.ImportWorkers,
		ScratchDir: a.cfg.ScratchDir,
	}, a.logger)
}

// Seed creates the default accounts and team on an empty database. Existing
// data is left alone.
func (a *App) Seed(ctx context.Context) error {
	created, err := a.Accounts.SeedDefaults(ctx, []account.Account{
		{Username: a.cfg.SeedAdminUsername, Password: a.cfg.SeedAdminPassword, Role: account.RoleAdmin},
		{Username: a.cfg.SeedUserUsername, Password: a.cfg.SeedUserPassword, Role: account.RoleUser},
	})
	if err != nil {
		return fmt.Errorf("seed accounts: %w", err)
	}

	seed := a.cfg.SeedTeam
	t, teamCreated, err := a.Teams.SeedDefault(ctx, team.Team{
		Name:           seed.Name,
		FoundationDate: seed.Founded,
		City:           seed.City,
		Stadium:        seed.Stadium,
		Country:        seed.Country,
	})
	if err != nil {
		return fmt.Errorf("seed team: %w", err)
	}

	if created > 0 || teamCreated {
		a.logger.Info("defaults seeded", "accounts", created, "team_created", teamCreated, "team_id", t.ID)
	}
	return nil
}

// Login authenticates username and returns a session acting as that
// account.
func (a *App) Login(ctx context.Context, username, password string) (Session, error) {
	acc, ok, err := a.Accounts.Authenticate(ctx, username, password)
	if err != nil {
		return Session{}, fmt.Errorf("authenticate: %w", err)
	}
	if !ok {
		return Session{}, ErrBadCredentials
	}
	return Session{AccountID: acc.ID, Role: acc.Role}, nil
}

var ErrBadCredentials = errors.New("invalid username or password")

func (a *App) Close() error {
	return a.db.Close()
}
