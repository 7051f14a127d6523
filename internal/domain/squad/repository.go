package squad

import (
	"context"

	"github.com/riskibarqy/squad-roster/internal/domain/staff"
)

// Repository persists call-ups together with their player association rows.
type Repository interface {
	List(ctx context.Context) ([]Call, error)
	ListByTeam(ctx context.Context, teamID int64) ([]Call, error)
	GetByID(ctx context.Context, id int64) (Call, bool, error)
	Save(ctx context.Context, call Call) (Call, error)
	Update(ctx context.Context, id int64, call Call) (Call, bool, error)
	Delete(ctx context.Context, id int64) (Call, bool, error)
	ClearCache()

	// Derived views. Ids that no longer resolve to a player are skipped.
	CalledUp(ctx context.Context, call Call) ([]staff.Player, error)
	Starters(ctx context.Context, call Call) ([]staff.Player, error)
	Substitutes(ctx context.Context, call Call) ([]staff.Player, error)
	NotCalledUp(ctx context.Context, call Call) ([]staff.Player, error)

	// ValidateCall reports whether call satisfies every call-up rule,
	// including the formation quotas, without returning the reason.
	ValidateCall(ctx context.Context, call Call) bool
}
