package validation

import (
	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
)

type staffValidator struct{ c *Checker }

func (v staffValidator) Validate(value any) error {
	switch b := value.(type) {
	case staff.Base:
		return v.base(b)
	case *staff.Base:
		return v.base(*b)
	default:
		return mismatch("staff", value)
	}
}

func (v staffValidator) base(b staff.Base) error {
	if err := checkID("id", b.ID); err != nil {
		return err
	}
	if err := v.c.checkText("first_name", b.FirstName, "required", "must not be empty"); err != nil {
		return err
	}
	if err := v.c.checkText("last_name", b.LastName, "required", "must not be empty"); err != nil {
		return err
	}
	return v.c.check("salary", b.Salary, "gte=0", "must not be negative")
}

type playerValidator struct{ c *Checker }

func (v playerValidator) Validate(value any) error {
	switch p := value.(type) {
	case staff.Player:
		return v.player(p)
	case *staff.Player:
		return v.player(*p)
	default:
		return mismatch("player", value)
	}
}

func (v playerValidator) player(p staff.Player) error {
	if err := (staffValidator{v.c}).base(p.Base); err != nil {
		return err
	}
	if _, ok := staff.AllPositions[p.Position]; !ok {
		return apperr.Field("position", string(p.Position), "unknown position")
	}
	if err := v.c.check("squad_number", p.SquadNumber, "min=1,max=99", "must be between 1 and 99"); err != nil {
		return err
	}
	if err := v.c.check("height", p.Height, "gt=0", "must be greater than zero"); err != nil {
		return err
	}
	if err := v.c.check("weight", p.Weight, "gt=0", "must be greater than zero"); err != nil {
		return err
	}
	if err := v.c.check("goals", p.Goals, "gte=0", "must not be negative"); err != nil {
		return err
	}
	return v.c.check("matches_played", p.MatchesPlayed, "gte=0", "must not be negative")
}

type coachValidator struct{ c *Checker }

func (v coachValidator) Validate(value any) error {
	switch c := value.(type) {
	case staff.Coach:
		return v.coach(c)
	case *staff.Coach:
		return v.coach(*c)
	default:
		return mismatch("coach", value)
	}
}

func (v coachValidator) coach(c staff.Coach) error {
	if err := (staffValidator{v.c}).base(c.Base); err != nil {
		return err
	}
	if _, ok := staff.AllSpecializations[c.Specialization]; !ok {
		return apperr.Field("specialization", string(c.Specialization), "unknown specialization")
	}
	return nil
}
