package account

import "context"

type Repository interface {
	List(ctx context.Context) ([]Account, error)
	GetByID(ctx context.Context, id int64) (Account, bool, error)
	GetByUsername(ctx context.Context, username string) (Account, bool, error)
	Save(ctx context.Context, acc Account) (Account, error)
	Update(ctx context.Context, id int64, acc Account) (Account, bool, error)
	Delete(ctx context.Context, id int64) (Account, bool, error)
	Authenticate(ctx context.Context, username, password string) (Account, bool, error)
	// SeedDefaults inserts defaults only when no account exists yet.
	SeedDefaults(ctx context.Context, defaults []Account) (int, error)
}
