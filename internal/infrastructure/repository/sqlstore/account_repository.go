package sqlstore

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/squad-roster/internal/domain/account"
	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	qb "github.com/riskibarqy/squad-roster/internal/platform/querybuilder"
)

// AccountRepository persists logins. Raw passwords are hashed with the
// injected Hasher and never stored or returned.
type AccountRepository struct {
	db     *sqlx.DB
	hasher account.Hasher
	options
}

func NewAccountRepository(db *sqlx.DB, hasher account.Hasher, opts ...Option) *AccountRepository {
	return &AccountRepository{
		db:      db,
		hasher:  hasher,
		options: buildOptions(opts),
	}
}

func (r *AccountRepository) List(ctx context.Context) ([]account.Account, error) {
	return r.selectAccounts(ctx)
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (account.Account, bool, error) {
	if id < 0 {
		return account.Account{}, false, apperr.InvalidID("id", id)
	}
	return r.first(ctx, qb.Eq("id", id))
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (account.Account, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return account.Account{}, false, nil
	}
	return r.first(ctx, qb.Eq("username", username))
}

func (r *AccountRepository) Save(ctx context.Context, acc account.Account) (account.Account, error) {
	acc.ID = 0
	acc.Username = strings.TrimSpace(acc.Username)
	if err := r.checker.Validate(acc); err != nil {
		return account.Account{}, err
	}
	if err := r.ensureUsernameFree(ctx, acc.Username, 0); err != nil {
		return account.Account{}, err
	}

	digest, err := r.hasher.Hash(acc.Password)
	if err != nil {
		return account.Account{}, apperr.Storage(err, "hash password")
	}

	now := r.stamp()
	acc.Password = ""
	acc.PasswordDigest = digest
	acc.CreatedAt = now
	acc.UpdatedAt = now

	query, args, err := qb.InsertInto("accounts").
		Columns("username", "password_digest", "role", "created_at", "updated_at").
		Values(acc.Username, acc.PasswordDigest, string(acc.Role), acc.CreatedAt, acc.UpdatedAt).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return account.Account{}, apperr.Storage(err, "build insert account query")
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&acc.ID); err != nil {
		return account.Account{}, apperr.Storage(err, "insert account")
	}

	return acc, nil
}

// Update replaces username, password and role. The raw password is required.
func (r *AccountRepository) Update(ctx context.Context, id int64, acc account.Account) (account.Account, bool, error) {
	existing, found, err := r.GetByID(ctx, id)
	if err != nil || !found {
		return account.Account{}, false, err
	}

	acc.ID = id
	acc.Username = strings.TrimSpace(acc.Username)
	if err := r.checker.Validate(acc); err != nil {
		return account.Account{}, false, err
	}
	if err := r.ensureUsernameFree(ctx, acc.Username, id); err != nil {
		return account.Account{}, false, err
	}

	digest, err := r.hasher.Hash(acc.Password)
	if err != nil {
		return account.Account{}, false, apperr.Storage(err, "hash password")
	}

	acc.Password = ""
	acc.PasswordDigest = digest
	acc.CreatedAt = existing.CreatedAt
	acc.UpdatedAt = r.stamp()

	query, args, err := qb.Update("accounts").
		Set("username", acc.Username).
		Set("password_digest", acc.PasswordDigest).
		Set("role", string(acc.Role)).
		Set("updated_at", acc.UpdatedAt).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return account.Account{}, false, apperr.Storage(err, "build update account query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return account.Account{}, false, apperr.Storage(err, "update account")
	}

	return acc, true, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) (account.Account, bool, error) {
	existing, found, err := r.GetByID(ctx, id)
	if err != nil || !found {
		return account.Account{}, false, err
	}

	query, args, err := qb.DeleteFrom("accounts").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return account.Account{}, false, apperr.Storage(err, "build delete account query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return account.Account{}, false, apperr.Storage(err, "delete account")
	}

	return existing, true, nil
}

// Authenticate reports false for an unknown username or a wrong password;
// neither case is an error.
func (r *AccountRepository) Authenticate(ctx context.Context, username, password string) (account.Account, bool, error) {
	acc, found, err := r.GetByUsername(ctx, username)
	if err != nil || !found {
		return account.Account{}, false, err
	}
	if !r.hasher.Verify(password, acc.PasswordDigest) {
		return account.Account{}, false, nil
	}
	return acc, true, nil
}

func (r *AccountRepository) SeedDefaults(ctx context.Context, defaults []account.Account) (int, error) {
	count, err := countRows(ctx, r.db, "accounts")
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	seeded := 0
	for _, acc := range defaults {
		saved, err := r.Save(ctx, acc)
		if err != nil {
			return seeded, apperr.Storage(err, "seed account "+acc.Username)
		}
		seeded++
		r.logger.InfoContext(ctx, "seeded default account", "username", saved.Username, "role", string(saved.Role))
	}
	return seeded, nil
}

func (r *AccountRepository) ensureUsernameFree(ctx context.Context, username string, ownID int64) error {
	other, found, err := r.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if found && other.ID != ownID {
		return apperr.Field("username", username, "is already taken")
	}
	return nil
}

func (r *AccountRepository) first(ctx context.Context, conditions ...qb.Condition) (account.Account, bool, error) {
	accounts, err := r.selectAccounts(ctx, conditions...)
	if err != nil || len(accounts) == 0 {
		return account.Account{}, false, err
	}
	return accounts[0], true, nil
}

func (r *AccountRepository) selectAccounts(ctx context.Context, conditions ...qb.Condition) ([]account.Account, error) {
	query, args, err := qb.Select(accountColumns...).From("accounts").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, apperr.Storage(err, "build select accounts query")
	}

	var rows []accountTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperr.Storage(err, "select accounts")
	}

	out := make([]account.Account, 0, len(rows))
	for _, row := range rows {
		role, ok := account.ParseRole(row.Role)
		if !ok {
			return nil, apperr.Field("role", row.Role, "unknown role in storage")
		}
		out = append(out, account.Account{
			ID:             row.ID,
			Username:       row.Username,
			PasswordDigest: row.PasswordDigest,
			Role:           role,
			CreatedAt:      fromStamp(row.CreatedAt),
			UpdatedAt:      fromStamp(row.UpdatedAt),
		})
	}
	return out, nil
}

func countRows(ctx context.Context, db *sqlx.DB, table string) (int64, error) {
	query, args, err := qb.Select("COUNT(*)").From(table).ToSQL()
	if err != nil {
		return 0, apperr.Storage(err, "build count "+table+" query")
	}

	var count int64
	if err := db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, apperr.Storage(err, "count "+table)
	}
	return count, nil
}
