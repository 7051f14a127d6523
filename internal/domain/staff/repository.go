package staff

import "context"

// Repository persists members across the staff parent table and the
// players/coaches variant tables.
type Repository interface {
	List(ctx context.Context) ([]Member, error)
	ListCoaches(ctx context.Context) ([]Coach, error)
	GetByID(ctx context.Context, id int64) (Member, bool, error)
	Save(ctx context.Context, member Member) (Member, error)
	// Restore inserts member under its own positive id.
	Restore(ctx context.Context, member Member) (Member, error)
	Update(ctx context.Context, id int64, member Member) (Member, bool, error)
	Delete(ctx context.Context, id int64) (Member, bool, error)
	ClearCache()
}
