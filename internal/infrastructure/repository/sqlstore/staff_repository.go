package sqlstore

import (
	"context"
	"sync/atomic"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
	"github.com/riskibarqy/squad-roster/internal/platform/cache"
	"github.com/riskibarqy/squad-roster/internal/platform/dates"
	qb "github.com/riskibarqy/squad-roster/internal/platform/querybuilder"
)

// StaffRepository stores each member as a staff row plus one players or
// coaches row sharing its id. The cache is write-through: storage is
// written first and stays authoritative.
type StaffRepository struct {
	db    *sqlx.DB
	cache *cache.Store[int64, staff.Member]
	// loadedAll is set once List has filled the cache with every member.
	loadedAll atomic.Bool
	options
}

func NewStaffRepository(db *sqlx.DB, store *cache.Store[int64, staff.Member], opts ...Option) *StaffRepository {
	if store == nil {
		store = cache.NewStore[int64, staff.Member](0)
	}
	return &StaffRepository{
		db:      db,
		cache:   store,
		options: buildOptions(opts),
	}
}

func (r *StaffRepository) List(ctx context.Context) ([]staff.Member, error) {
	if r.loadedAll.Load() {
		if cached, complete := r.cache.Values(); complete {
			staff.SortByID(cached)
			return cached, nil
		}
	}

	coaches, err := r.selectCoaches(ctx)
	if err != nil {
		return nil, err
	}
	players, err := r.selectPlayers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]staff.Member, 0, len(coaches)+len(players))
	for _, c := range coaches {
		out = append(out, c)
	}
	for _, p := range players {
		out = append(out, p)
	}

	r.cache.Clear()
	for _, m := range out {
		r.cache.Set(m.Common().ID, m)
	}
	r.loadedAll.Store(true)
	r.logger.DebugContext(ctx, "staff cache reloaded", "coaches", len(coaches), "players", len(players))

	staff.SortByID(out)
	return out, nil
}

// ListCoaches always reads storage; the cache is dropped first.
func (r *StaffRepository) ListCoaches(ctx context.Context) ([]staff.Coach, error) {
	r.ClearCache()

	coaches, err := r.selectCoaches(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range coaches {
		r.cache.Set(c.ID, c)
	}
	return coaches, nil
}

func (r *StaffRepository) GetByID(ctx context.Context, id int64) (staff.Member, bool, error) {
	if id < 0 {
		return nil, false, apperr.InvalidID("id", id)
	}
	if id == 0 {
		return nil, false, nil
	}

	return r.cache.GetOrLoad(ctx, id, func(ctx context.Context) (staff.Member, bool, error) {
		return r.load(ctx, id)
	})
}

func (r *StaffRepository) Save(ctx context.Context, member staff.Member) (staff.Member, error) {
	if member == nil {
		return nil, apperr.IllegalArgumentf("staff member is required")
	}
	return r.insert(ctx, member, false)
}

// Restore inserts member under its own id, so squad calls that reference it
// keep resolving. The id must be positive and not yet stored.
func (r *StaffRepository) Restore(ctx context.Context, member staff.Member) (staff.Member, error) {
	if member == nil {
		return nil, apperr.IllegalArgumentf("staff member is required")
	}
	if id := member.Common().ID; id <= 0 {
		return nil, apperr.IllegalArgumentf("restore needs a positive id, got %d", id)
	}
	return r.insert(ctx, member, true)
}

func (r *StaffRepository) insert(ctx context.Context, member staff.Member, keepID bool) (staff.Member, error) {
	now := r.stamp()
	base := member.Common()
	if !keepID {
		base.ID = 0
	}
	base.CreatedAt = now
	base.UpdatedAt = now
	member = staff.WithBase(member, normalizeBase(base))

	if err := r.checker.Validate(member); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Storage(err, "begin tx for staff save")
	}
	defer rollback(tx)

	id, err := insertStaff(ctx, tx, member)
	if err != nil {
		return nil, err
	}
	base.ID = id
	member = staff.WithBase(member, normalizeBase(base))

	if err := insertVariant(ctx, tx, member); err != nil {
		return nil, err
	}
	if keepID {
		if err := syncStaffSequence(ctx, tx); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Storage(err, "commit staff save tx")
	}

	r.cache.Set(id, member)
	return member, nil
}

func (r *StaffRepository) Update(ctx context.Context, id int64, member staff.Member) (staff.Member, bool, error) {
	if member == nil {
		return nil, false, apperr.IllegalArgumentf("staff member is required")
	}

	existing, found, err := r.GetByID(ctx, id)
	if err != nil || !found {
		return nil, false, err
	}
	if existing.Kind() != member.Kind() {
		return nil, false, apperr.Field("kind", string(member.Kind()), "cannot change a "+string(existing.Kind())+" into another kind")
	}

	base := member.Common()
	base.ID = id
	base.CreatedAt = existing.Common().CreatedAt
	base.UpdatedAt = r.stamp()
	member = staff.WithBase(member, normalizeBase(base))

	if err := r.checker.Validate(member); err != nil {
		return nil, false, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, apperr.Storage(err, "begin tx for staff update")
	}
	defer rollback(tx)

	if err := updateStaff(ctx, tx, member); err != nil {
		return nil, false, err
	}
	if err := updateVariant(ctx, tx, member); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, apperr.Storage(err, "commit staff update tx")
	}

	r.cache.Set(id, member)
	return member, true, nil
}

func (r *StaffRepository) Delete(ctx context.Context, id int64) (staff.Member, bool, error) {
	existing, found, err := r.GetByID(ctx, id)
	if err != nil || !found {
		return nil, false, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, apperr.Storage(err, "begin tx for staff delete")
	}
	defer rollback(tx)

	if err := execDelete(ctx, tx, variantTable(existing.Kind()), id); err != nil {
		return nil, false, err
	}
	if err := execDelete(ctx, tx, "staff", id); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, apperr.Storage(err, "commit staff delete tx")
	}

	r.cache.Delete(id)
	return existing, true, nil
}

func (r *StaffRepository) ClearCache() {
	r.loadedAll.Store(false)
	r.cache.Clear()
}

// load reads the parent row, then the variant row picked by its kind.
func (r *StaffRepository) load(ctx context.Context, id int64) (staff.Member, bool, error) {
	query, args, err := qb.Select("s.kind").From("staff s").Where(qb.Eq("s.id", id)).ToSQL()
	if err != nil {
		return nil, false, apperr.Storage(err, "build select staff kind query")
	}

	var rawKind string
	if err := r.db.GetContext(ctx, &rawKind, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, apperr.Storage(err, "select staff kind")
	}

	kind, ok := staff.ParseKind(rawKind)
	if !ok {
		return nil, false, apperr.Field("kind", rawKind, "unknown staff kind in storage")
	}

	switch kind {
	case staff.KindPlayer:
		players, err := r.selectPlayers(ctx, qb.Eq("s.id", id))
		if err != nil || len(players) == 0 {
			return nil, false, err
		}
		return players[0], true, nil
	default:
		coaches, err := r.selectCoaches(ctx, qb.Eq("s.id", id))
		if err != nil || len(coaches) == 0 {
			return nil, false, err
		}
		return coaches[0], true, nil
	}
}

func (r *StaffRepository) selectPlayers(ctx context.Context, conditions ...qb.Condition) ([]staff.Player, error) {
	columns := append(append([]string(nil), staffColumns...),
		"p.position", "p.squad_number", "p.height", "p.weight", "p.goals", "p.matches_played")
	query, args, err := qb.Select(columns...).From("staff s").
		Join("players p ON p.id = s.id").
		Where(conditions...).
		OrderBy("s.id").
		ToSQL()
	if err != nil {
		return nil, apperr.Storage(err, "build select players query")
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperr.Storage(err, "select players")
	}

	out := make([]staff.Player, 0, len(rows))
	for _, row := range rows {
		p, err := playerFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *StaffRepository) selectCoaches(ctx context.Context, conditions ...qb.Condition) ([]staff.Coach, error) {
	columns := append(append([]string(nil), staffColumns...), "c.specialization")
	query, args, err := qb.Select(columns...).From("staff s").
		Join("coaches c ON c.id = s.id").
		Where(conditions...).
		OrderBy("s.id").
		ToSQL()
	if err != nil {
		return nil, apperr.Storage(err, "build select coaches query")
	}

	var rows []coachTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperr.Storage(err, "select coaches")
	}

	out := make([]staff.Coach, 0, len(rows))
	for _, row := range rows {
		c, err := coachFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func insertStaff(ctx context.Context, tx *sqlx.Tx, member staff.Member) (int64, error) {
	b := member.Common()
	columns := []string{"first_name", "last_name", "birth_date", "join_date", "salary", "origin_country", "kind", "image_url", "created_at", "updated_at"}
	values := []any{b.FirstName, b.LastName, nullDate(b.BirthDate), nullDate(b.JoinDate), b.Salary, b.OriginCountry, string(member.Kind()), b.ImageURL, b.CreatedAt, b.UpdatedAt}
	if b.ID > 0 {
		columns = append([]string{"id"}, columns...)
		values = append([]any{b.ID}, values...)
	}
	query, args, err := qb.InsertInto("staff").
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return 0, apperr.Storage(err, "build insert staff query")
	}

	var id int64
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, apperr.Storage(err, "insert staff")
	}
	return id, nil
}

// syncStaffSequence moves the Postgres id sequence past explicitly inserted
// ids. SQLite AUTOINCREMENT tracks them on its own.
func syncStaffSequence(ctx context.Context, tx *sqlx.Tx) error {
	if tx.DriverName() != "postgres" {
		return nil
	}
	if _, err := tx.ExecContext(ctx, "SELECT setval(pg_get_serial_sequence('staff', 'id'), (SELECT MAX(id) FROM staff))"); err != nil {
		return apperr.Storage(err, "sync staff id sequence")
	}
	return nil
}

func insertVariant(ctx context.Context, tx *sqlx.Tx, member staff.Member) error {
	var builder *qb.InsertBuilder
	switch m := member.(type) {
	case staff.Player:
		builder = qb.InsertInto("players").
			Columns("id", "position", "squad_number", "height", "weight", "goals", "matches_played").
			Values(m.ID, string(m.Position), m.SquadNumber, m.Height, m.Weight, m.Goals, m.MatchesPlayed)
	case staff.Coach:
		builder = qb.InsertInto("coaches").
			Columns("id", "specialization").
			Values(m.ID, string(m.Specialization))
	default:
		return apperr.IllegalArgumentf("unsupported staff member %T", member)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return apperr.Storage(err, "build insert "+variantTable(member.Kind())+" query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperr.Storage(err, "insert "+variantTable(member.Kind()))
	}
	return nil
}

func updateStaff(ctx context.Context, tx *sqlx.Tx, member staff.Member) error {
	b := member.Common()
	query, args, err := qb.Update("staff").
		Set("first_name", b.FirstName).
		Set("last_name", b.LastName).
		Set("birth_date", nullDate(b.BirthDate)).
		Set("join_date", nullDate(b.JoinDate)).
		Set("salary", b.Salary).
		Set("origin_country", b.OriginCountry).
		Set("image_url", b.ImageURL).
		Set("updated_at", b.UpdatedAt).
		Where(qb.Eq("id", b.ID)).
		ToSQL()
	if err != nil {
		return apperr.Storage(err, "build update staff query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperr.Storage(err, "update staff")
	}
	return nil
}

func updateVariant(ctx context.Context, tx *sqlx.Tx, member staff.Member) error {
	var builder *qb.UpdateBuilder
	switch m := member.(type) {
	case staff.Player:
		builder = qb.Update("players").
			Set("position", string(m.Position)).
			Set("squad_number", m.SquadNumber).
			Set("height", m.Height).
			Set("weight", m.Weight).
			Set("goals", m.Goals).
			Set("matches_played", m.MatchesPlayed).
			Where(qb.Eq("id", m.ID))
	case staff.Coach:
		builder = qb.Update("coaches").
			Set("specialization", string(m.Specialization)).
			Where(qb.Eq("id", m.ID))
	default:
		return apperr.IllegalArgumentf("unsupported staff member %T", member)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return apperr.Storage(err, "build update "+variantTable(member.Kind())+" query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperr.Storage(err, "update "+variantTable(member.Kind()))
	}
	return nil
}

func execDelete(ctx context.Context, tx *sqlx.Tx, table string, id int64) error {
	query, args, err := qb.DeleteFrom(table).Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return apperr.Storage(err, "build delete "+table+" query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperr.Storage(err, "delete "+table)
	}
	return nil
}

func variantTable(kind staff.Kind) string {
	if kind == staff.KindCoach {
		return "coaches"
	}
	return "players"
}

// normalizeBase rounds dates and stamps to what storage keeps, so the value
// returned by a write equals the value a later read produces.
func normalizeBase(b staff.Base) staff.Base {
	b.BirthDate = dates.Day(b.BirthDate)
	b.JoinDate = dates.Day(b.JoinDate)
	b.CreatedAt = fromStamp(b.CreatedAt)
	b.UpdatedAt = fromStamp(b.UpdatedAt)
	return b
}

func baseFromRow(row staffTableModel) staff.Base {
	return staff.Base{
		ID:            row.ID,
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		BirthDate:     fromNullDate(row.BirthDate),
		JoinDate:      fromNullDate(row.JoinDate),
		Salary:        row.Salary,
		OriginCountry: row.OriginCountry,
		ImageURL:      row.ImageURL,
		CreatedAt:     fromStamp(row.CreatedAt),
		UpdatedAt:     fromStamp(row.UpdatedAt),
	}
}

func playerFromRow(row playerTableModel) (staff.Player, error) {
	position, ok := staff.ParsePosition(row.Position)
	if !ok {
		return staff.Player{}, apperr.Field("position", row.Position, "unknown position in storage")
	}
	return staff.Player{
		Base:          baseFromRow(row.staffTableModel),
		Position:      position,
		SquadNumber:   row.SquadNumber,
		Height:        row.Height,
		Weight:        row.Weight,
		Goals:         row.Goals,
		MatchesPlayed: row.MatchesPlayed,
	}, nil
}

func coachFromRow(row coachTableModel) (staff.Coach, error) {
	specialization, ok := staff.ParseSpecialization(row.Specialization)
	if !ok {
		return staff.Coach{}, apperr.Field("specialization", row.Specialization, "unknown specialization in storage")
	}
	return staff.Coach{
		Base:           baseFromRow(row.staffTableModel),
		Specialization: specialization,
	}, nil
}
