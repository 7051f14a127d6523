package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/squad"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
	"github.com/riskibarqy/squad-roster/internal/platform/cache"
	"github.com/riskibarqy/squad-roster/internal/platform/dates"
	qb "github.com/riskibarqy/squad-roster/internal/platform/querybuilder"
)

// SquadRepository stores call-ups in squad_calls and their players in
// squad_call_players. Player and coach ids are resolved through the staff
// repository.
type SquadRepository struct {
	db        *sqlx.DB
	cache     *cache.Store[int64, squad.Call]
	staff     staff.Repository
	formation squad.Formation
	options
}

func NewSquadRepository(db *sqlx.DB, store *cache.Store[int64, squad.Call], staffRepo staff.Repository, opts ...Option) *SquadRepository {
	if store == nil {
		store = cache.NewStore[int64, squad.Call](0)
	}
	return &SquadRepository{
		db:        db,
		cache:     store,
		staff:     staffRepo,
		formation: squad.DefaultFormation(),
		options:   buildOptions(opts),
	}
}

// WithFormation replaces the per-position starter quotas used by ValidateCall.
func (r *SquadRepository) WithFormation(f squad.Formation) *SquadRepository {
	r.formation = f
	return r
}

func (r *SquadRepository) List(ctx context.Context) ([]squad.Call, error) {
	calls, err := r.selectCalls(ctx)
	if err != nil {
		return nil, err
	}
	for _, call := range calls {
		r.cache.Set(call.ID, call.Clone())
	}
	return calls, nil
}

func (r *SquadRepository) ListByTeam(ctx context.Context, teamID int64) ([]squad.Call, error) {
	if teamID < 0 {
		return nil, apperr.InvalidID("team_id", teamID)
	}
	return r.selectCalls(ctx, qb.Eq("team_id", teamID))
}

func (r *SquadRepository) GetByID(ctx context.Context, id int64) (squad.Call, bool, error) {
	if id < 0 {
		return squad.Call{}, false, apperr.InvalidID("id", id)
	}
	if id == 0 {
		return squad.Call{}, false, nil
	}

	call, found, err := r.cache.GetOrLoad(ctx, id, func(ctx context.Context) (squad.Call, bool, error) {
		calls, err := r.selectCalls(ctx, qb.Eq("id", id))
		if err != nil || len(calls) == 0 {
			return squad.Call{}, false, err
		}
		return calls[0], true, nil
	})
	if err != nil || !found {
		return squad.Call{}, false, err
	}
	return call.Clone(), true, nil
}

// Save inserts a new call-up. A call with a positive id is an update.
func (r *SquadRepository) Save(ctx context.Context, call squad.Call) (squad.Call, error) {
	if call.ID > 0 {
		updated, found, err := r.Update(ctx, call.ID, call)
		if err != nil {
			return squad.Call{}, err
		}
		if !found {
			return squad.Call{}, apperr.Storagef("squad call %d does not exist", call.ID)
		}
		return updated, nil
	}

	now := r.stamp()
	call.CreatedAt = now
	call.UpdatedAt = now
	if err := r.checker.Validate(call); err != nil {
		return squad.Call{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return squad.Call{}, apperr.Storage(err, "begin tx for squad call save")
	}
	defer rollback(tx)

	query, args, err := qb.InsertInto("squad_calls").
		Columns("call_date", "description", "team_id", "coach_id", "created_at", "updated_at").
		Values(dates.Day(call.Date), call.Description, call.TeamID, call.CoachID, call.CreatedAt, call.UpdatedAt).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return squad.Call{}, apperr.Storage(err, "build insert squad call query")
	}

	var id int64
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return squad.Call{}, apperr.Storage(err, "insert squad call")
	}
	if err := replacePlayers(ctx, tx, id, call); err != nil {
		return squad.Call{}, err
	}
	if err := tx.Commit(); err != nil {
		return squad.Call{}, apperr.Storage(err, "commit squad call save tx")
	}

	return r.reload(ctx, id)
}

func (r *SquadRepository) Update(ctx context.Context, id int64, call squad.Call) (squad.Call, bool, error) {
	existing, found, err := r.GetByID(ctx, id)
	if err != nil || !found {
		return squad.Call{}, false, err
	}

	call.ID = id
	call.CreatedAt = existing.CreatedAt
	call.UpdatedAt = r.stamp()
	if err := r.checker.Validate(call); err != nil {
		return squad.Call{}, false, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return squad.Call{}, false, apperr.Storage(err, "begin tx for squad call update")
	}
	defer rollback(tx)

	query, args, err := qb.Update("squad_calls").
		Set("call_date", dates.Day(call.Date)).
		Set("description", call.Description).
		Set("team_id", call.TeamID).
		Set("coach_id", call.CoachID).
		Set("updated_at", call.UpdatedAt).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return squad.Call{}, false, apperr.Storage(err, "build update squad call query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return squad.Call{}, false, apperr.Storage(err, "update squad call")
	}
	if err := replacePlayers(ctx, tx, id, call); err != nil {
		return squad.Call{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return squad.Call{}, false, apperr.Storage(err, "commit squad call update tx")
	}

	updated, err := r.reload(ctx, id)
	if err != nil {
		return squad.Call{}, false, err
	}
	return updated, true, nil
}

func (r *SquadRepository) Delete(ctx context.Context, id int64) (squad.Call, bool, error) {
	existing, found, err := r.GetByID(ctx, id)
	if err != nil || !found {
		return squad.Call{}, false, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return squad.Call{}, false, apperr.Storage(err, "begin tx for squad call delete")
	}
	defer rollback(tx)

	if err := deleteCallPlayers(ctx, tx, id); err != nil {
		return squad.Call{}, false, err
	}
	if err := execDelete(ctx, tx, "squad_calls", id); err != nil {
		return squad.Call{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return squad.Call{}, false, apperr.Storage(err, "commit squad call delete tx")
	}

	r.cache.Delete(id)
	return existing, true, nil
}

func (r *SquadRepository) ClearCache() {
	r.cache.Clear()
}

func (r *SquadRepository) CalledUp(ctx context.Context, call squad.Call) ([]staff.Player, error) {
	return r.resolvePlayers(ctx, call.PlayerIDs)
}

func (r *SquadRepository) Starters(ctx context.Context, call squad.Call) ([]staff.Player, error) {
	return r.resolvePlayers(ctx, call.StarterIDs)
}

func (r *SquadRepository) Substitutes(ctx context.Context, call squad.Call) ([]staff.Player, error) {
	return r.resolvePlayers(ctx, call.SubstituteIDs())
}

func (r *SquadRepository) NotCalledUp(ctx context.Context, call squad.Call) ([]staff.Player, error) {
	members, err := r.staff.List(ctx)
	if err != nil {
		return nil, err
	}

	called := make(map[int64]struct{}, len(call.PlayerIDs))
	for _, id := range call.PlayerIDs {
		called[id] = struct{}{}
	}

	out := make([]staff.Player, 0, len(members))
	for _, p := range staff.Players(members) {
		if _, ok := called[p.ID]; ok {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// ValidateCall applies the call-up rules, checks that the coach id names a
// coach and that the resolved starters fit the formation quotas.
func (r *SquadRepository) ValidateCall(ctx context.Context, call squad.Call) bool {
	if err := r.checker.Validate(call); err != nil {
		r.logger.DebugContext(ctx, "squad call rejected", "call_id", call.ID, "error", err)
		return false
	}

	coach, found, err := r.staff.GetByID(ctx, call.CoachID)
	if err != nil || !found || coach.Kind() != staff.KindCoach {
		r.logger.DebugContext(ctx, "squad call rejected: coach does not resolve", "call_id", call.ID, "coach_id", call.CoachID)
		return false
	}

	starters, err := r.Starters(ctx, call)
	if err != nil {
		r.logger.WarnContext(ctx, "resolve starters failed", "call_id", call.ID, "error", err)
		return false
	}
	positions := make([]staff.Position, 0, len(starters))
	for _, p := range starters {
		positions = append(positions, p.Position)
	}
	if err := squad.ValidateFormation(positions, r.formation); err != nil {
		r.logger.DebugContext(ctx, "squad call rejected", "call_id", call.ID, "error", err)
		return false
	}

	return true
}

// resolvePlayers looks ids up in order and drops those that no longer
// resolve to a player.
func (r *SquadRepository) resolvePlayers(ctx context.Context, ids []int64) ([]staff.Player, error) {
	out := make([]staff.Player, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		member, found, err := r.staff.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		p, ok := member.(staff.Player)
		if !found || !ok {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *SquadRepository) reload(ctx context.Context, id int64) (squad.Call, error) {
	r.cache.Delete(id)
	call, found, err := r.GetByID(ctx, id)
	if err != nil {
		return squad.Call{}, err
	}
	if !found {
		return squad.Call{}, apperr.Storagef("squad call %d vanished after write", id)
	}
	return call, nil
}

// selectCalls loads the call rows, then every association row for them in
// one query, ordered by date then id.
func (r *SquadRepository) selectCalls(ctx context.Context, conditions ...qb.Condition) ([]squad.Call, error) {
	query, args, err := qb.Select(squadCallColumns...).From("squad_calls").
		Where(conditions...).
		OrderBy("call_date", "id").
		ToSQL()
	if err != nil {
		return nil, apperr.Storage(err, "build select squad calls query")
	}

	var rows []squadCallTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperr.Storage(err, "select squad calls")
	}
	if len(rows) == 0 {
		return []squad.Call{}, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	grouped, err := r.selectCallPlayers(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]squad.Call, 0, len(rows))
	for _, row := range rows {
		call := squad.Call{
			ID:          row.ID,
			Date:        dates.Day(row.CallDate),
			Description: row.Description,
			TeamID:      row.TeamID,
			CoachID:     row.CoachID,
			PlayerIDs:   []int64{},
			StarterIDs:  []int64{},
			CreatedAt:   fromStamp(row.CreatedAt),
			UpdatedAt:   fromStamp(row.UpdatedAt),
		}
		for _, link := range grouped[row.ID] {
			call.PlayerIDs = append(call.PlayerIDs, link.PlayerID)
			if link.IsStarter {
				call.StarterIDs = append(call.StarterIDs, link.PlayerID)
			}
		}
		out = append(out, call)
	}
	return out, nil
}

func (r *SquadRepository) selectCallPlayers(ctx context.Context, callIDs []int64) (map[int64][]squadCallPlayerTableModel, error) {
	query, args, err := qb.Select("call_id", "player_id", "is_starter", "slot").From("squad_call_players").
		Where(qb.InInt64("call_id", callIDs)).
		OrderBy("call_id", "slot", "player_id").
		ToSQL()
	if err != nil {
		return nil, apperr.Storage(err, "build select squad call players query")
	}

	var rows []squadCallPlayerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperr.Storage(err, "select squad call players")
	}

	grouped := make(map[int64][]squadCallPlayerTableModel, len(callIDs))
	for _, row := range rows {
		grouped[row.CallID] = append(grouped[row.CallID], row)
	}
	return grouped, nil
}

// replacePlayers is the only way association rows are written: all rows of
// the call are deleted and the new set inserted, inside the caller's tx.
func replacePlayers(ctx context.Context, tx *sqlx.Tx, callID int64, call squad.Call) error {
	if err := deleteCallPlayers(ctx, tx, callID); err != nil {
		return err
	}
	if len(call.PlayerIDs) == 0 {
		return nil
	}

	builder := qb.InsertInto("squad_call_players").Columns("call_id", "player_id", "is_starter", "slot")
	for slot, playerID := range call.PlayerIDs {
		builder.Values(callID, playerID, call.IsStarter(playerID), slot)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return apperr.Storage(err, "build insert squad call players query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperr.Storage(err, fmt.Sprintf("insert squad call players call=%d", callID))
	}
	return nil
}

func deleteCallPlayers(ctx context.Context, tx *sqlx.Tx, callID int64) error {
	query, args, err := qb.DeleteFrom("squad_call_players").Where(qb.Eq("call_id", callID)).ToSQL()
	if err != nil {
		return apperr.Storage(err, "build delete squad call players query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperr.Storage(err, "delete squad call players")
	}
	return nil
}
