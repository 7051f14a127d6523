package squad

import (
	"time"
)

const (
	MaxPlayers  = 18
	MaxStarters = 11
)

// Call is a dated selection of players for a match; StarterIDs is the
// starting lineup and must be drawn from PlayerIDs.
type Call struct {
	ID          int64
	Date        time.Time
	Description string
	TeamID      int64
	CoachID     int64
	PlayerIDs   []int64
	StarterIDs  []int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Call) IsStarter(playerID int64) bool {
	for _, id := range c.StarterIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// SubstituteIDs returns PlayerIDs minus StarterIDs, in PlayerIDs order.
func (c Call) SubstituteIDs() []int64 {
	starters := make(map[int64]struct{}, len(c.StarterIDs))
	for _, id := range c.StarterIDs {
		starters[id] = struct{}{}
	}
	out := make([]int64, 0, len(c.PlayerIDs))
	for _, id := range c.PlayerIDs {
		if _, ok := starters[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Clone copies the id slices so cached values cannot be mutated by callers.
func (c Call) Clone() Call {
	copied := c
	copied.PlayerIDs = append([]int64(nil), c.PlayerIDs...)
	copied.StarterIDs = append([]int64(nil), c.StarterIDs...)
	return copied
}
