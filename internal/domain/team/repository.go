package team

import "context"

type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	Save(ctx context.Context, t Team) (Team, error)
	Update(ctx context.Context, id int64, t Team) (Team, bool, error)
	Delete(ctx context.Context, id int64) (Team, bool, error)
	// SeedDefault saves t only when no team exists; the bool reports whether it did.
	SeedDefault(ctx context.Context, t Team) (Team, bool, error)
}
