package squad

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/squad-roster/internal/domain/staff"
)

var (
	ErrFormationQuota    = errors.New("formation quota exceeded")
	ErrUnknownPosition   = errors.New("unknown player position")
	ErrTooManyStarters   = errors.New("too many starters")
	ErrMissingGoalkeeper = errors.New("starting lineup has no goalkeeper")
)

// Formation caps how many starters may play each position.
type Formation struct {
	MaxByPosition     map[staff.Position]int
	RequireGoalkeeper bool
}

func DefaultFormation() Formation {
	return Formation{
		MaxByPosition: map[staff.Position]int{
			staff.PositionGoalkeeper: 1,
			staff.PositionDefender:   5,
			staff.PositionMidfielder: 5,
			staff.PositionForward:    3,
		},
	}
}

// ValidateFormation checks starter positions against the quotas. A full
// lineup must also include a goalkeeper when RequireGoalkeeper is set.
func ValidateFormation(positions []staff.Position, f Formation) error {
	if len(positions) > MaxStarters {
		return fmt.Errorf("%w: max=%d got=%d", ErrTooManyStarters, MaxStarters, len(positions))
	}

	counter := make(map[staff.Position]int, len(f.MaxByPosition))
	for _, pos := range positions {
		if _, ok := staff.AllPositions[pos]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPosition, pos)
		}
		counter[pos]++
		if maxAllowed, ok := f.MaxByPosition[pos]; ok && counter[pos] > maxAllowed {
			return fmt.Errorf("%w: pos=%s max=%d", ErrFormationQuota, pos, maxAllowed)
		}
	}

	if f.RequireGoalkeeper && len(positions) == MaxStarters && counter[staff.PositionGoalkeeper] == 0 {
		return ErrMissingGoalkeeper
	}

	return nil
}
