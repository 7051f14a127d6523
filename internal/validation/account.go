package validation

import (
	"github.com/riskibarqy/squad-roster/internal/domain/account"
	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
)

type accountValidator struct{ c *Checker }

func (v accountValidator) Validate(value any) error {
	switch a := value.(type) {
	case account.Account:
		return v.account(a)
	case *account.Account:
		return v.account(*a)
	default:
		return mismatch("account", value)
	}
}

// Password length is checked on the raw secret, before hashing.
func (v accountValidator) account(a account.Account) error {
	if err := checkID("id", a.ID); err != nil {
		return err
	}
	if err := v.c.checkText("username", a.Username, "required", "must not be empty"); err != nil {
		return err
	}
	if err := v.c.checkText("username", a.Username, "min=3", "must have at least 3 characters"); err != nil {
		return err
	}
	if err := v.c.check("password", a.Password, "required", "must not be empty"); err != nil {
		return apperr.Field("password", "", "must not be empty")
	}
	if err := v.c.check("password", a.Password, "min=6", "must have at least 6 characters"); err != nil {
		return apperr.Field("password", "", "must have at least 6 characters")
	}
	if _, ok := account.ParseRole(string(a.Role)); !ok {
		return apperr.Field("role", string(a.Role), "unknown role")
	}
	return nil
}
