package sqlstore

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/team"
	"github.com/riskibarqy/squad-roster/internal/platform/dates"
	qb "github.com/riskibarqy/squad-roster/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
	options
}

func NewTeamRepository(db *sqlx.DB, opts ...Option) *TeamRepository {
	return &TeamRepository{db: db, options: buildOptions(opts)}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	return r.selectTeams(ctx)
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	if id < 0 {
		return team.Team{}, false, apperr.InvalidID("id", id)
	}

	teams, err := r.selectTeams(ctx, qb.Eq("id", id))
	if err != nil || len(teams) == 0 {
		return team.Team{}, false, err
	}
	return teams[0], true, nil
}

func (r *TeamRepository) Save(ctx context.Context, t team.Team) (team.Team, error) {
	t.ID = 0
	t = normalizeTeam(t)
	if err := t.Validate(); err != nil {
		return team.Team{}, err
	}

	now := r.stamp()
	t.CreatedAt = now
	t.UpdatedAt = now

	query, args, err := qb.InsertInto("teams").
		Columns("name", "foundation_date", "crest_url", "city", "stadium", "country", "created_at", "updated_at").
		Values(t.Name, nullDate(t.FoundationDate), t.CrestURL, t.City, t.Stadium, t.Country, t.CreatedAt, t.UpdatedAt).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return team.Team{}, apperr.Storage(err, "build insert team query")
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&t.ID); err != nil {
		return team.Team{}, apperr.Storage(err, "insert team")
	}

	return t, nil
}

func (r *TeamRepository) Update(ctx context.Context, id int64, t team.Team) (team.Team, bool, error) {
	existing, found, err := r.GetByID(ctx, id)
	if err != nil || !found {
		return team.Team{}, false, err
	}

	t.ID = id
	t = normalizeTeam(t)
	if err := t.Validate(); err != nil {
		return team.Team{}, false, err
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = r.stamp()

	query, args, err := qb.Update("teams").
		Set("name", t.Name).
		Set("foundation_date", nullDate(t.FoundationDate)).
		Set("crest_url", t.CrestURL).
		Set("city", t.City).
		Set("stadium", t.Stadium).
		Set("country", t.Country).
		Set("updated_at", t.UpdatedAt).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, apperr.Storage(err, "build update team query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return team.Team{}, false, apperr.Storage(err, "update team")
	}

	return t, true, nil
}

func (r *TeamRepository) Delete(ctx context.Context, id int64) (team.Team, bool, error) {
	existing, found, err := r.GetByID(ctx, id)
	if err != nil || !found {
		return team.Team{}, false, err
	}

	query, args, err := qb.DeleteFrom("teams").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return team.Team{}, false, apperr.Storage(err, "build delete team query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return team.Team{}, false, apperr.Storage(err, "delete team")
	}

	return existing, true, nil
}

func (r *TeamRepository) SeedDefault(ctx context.Context, t team.Team) (team.Team, bool, error) {
	count, err := countRows(ctx, r.db, "teams")
	if err != nil {
		return team.Team{}, false, err
	}
	if count > 0 {
		return team.Team{}, false, nil
	}

	saved, err := r.Save(ctx, t)
	if err != nil {
		return team.Team{}, false, apperr.Storage(err, "seed default team")
	}
	r.logger.InfoContext(ctx, "seeded default team", "team_id", saved.ID, "name", saved.Name)
	return saved, true, nil
}

func (r *TeamRepository) selectTeams(ctx context.Context, conditions ...qb.Condition) ([]team.Team, error) {
	query, args, err := qb.Select(teamColumns...).From("teams").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, apperr.Storage(err, "build select teams query")
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperr.Storage(err, "select teams")
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ID:             row.ID,
			Name:           row.Name,
			FoundationDate: fromNullDate(row.FoundationDate),
			CrestURL:       row.CrestURL,
			City:           row.City,
			Stadium:        row.Stadium,
			Country:        row.Country,
			CreatedAt:      fromStamp(row.CreatedAt),
			UpdatedAt:      fromStamp(row.UpdatedAt),
		})
	}
	return out, nil
}

func normalizeTeam(t team.Team) team.Team {
	t.Name = strings.TrimSpace(t.Name)
	t.FoundationDate = dates.Day(t.FoundationDate)
	return t
}
