package validation

import (
	"fmt"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/squad"
	"github.com/riskibarqy/squad-roster/internal/platform/dates"
)

type callValidator struct{ c *Checker }

func (v callValidator) Validate(value any) error {
	switch call := value.(type) {
	case squad.Call:
		return v.call(call)
	case *squad.Call:
		return v.call(*call)
	default:
		return mismatch("squad call", value)
	}
}

func (v callValidator) call(call squad.Call) error {
	if err := checkID("id", call.ID); err != nil {
		return err
	}
	if err := v.c.checkText("description", call.Description, "required", "must not be empty"); err != nil {
		return err
	}
	if call.Date.IsZero() {
		return apperr.Field("date", "", "is required")
	}
	if dates.Day(call.Date).Before(dates.Day(v.c.now())) {
		return apperr.Field("date", dates.Format(call.Date), "must not be in the past")
	}
	if err := v.c.check("team_id", call.TeamID, "gt=0", "must be positive"); err != nil {
		return err
	}
	if err := v.c.check("coach_id", call.CoachID, "gt=0", "must be positive"); err != nil {
		return err
	}
	if err := v.c.check("players", call.PlayerIDs, fmt.Sprintf("max=%d", squad.MaxPlayers), fmt.Sprintf("at most %d players", squad.MaxPlayers)); err != nil {
		return err
	}
	if err := v.c.check("starters", call.StarterIDs, fmt.Sprintf("max=%d", squad.MaxStarters), fmt.Sprintf("at most %d starters", squad.MaxStarters)); err != nil {
		return err
	}
	if err := v.c.check("players", call.PlayerIDs, "unique", "must not contain duplicates"); err != nil {
		return err
	}
	if err := v.c.check("starters", call.StarterIDs, "unique", "must not contain duplicates"); err != nil {
		return err
	}

	called := make(map[int64]struct{}, len(call.PlayerIDs))
	for _, id := range call.PlayerIDs {
		called[id] = struct{}{}
	}
	for _, id := range call.StarterIDs {
		if _, ok := called[id]; !ok {
			return apperr.Field("starters", fmt.Sprint(id), "starter is not among the called-up players")
		}
	}

	return nil
}
