// Package validation holds the per-entity rule checkers run before any write.
// Dispatch is a closed switch over the supported entity types.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/squad-roster/internal/domain/account"
	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/squad"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
)

// Validator returns nil for a valid value, a not-found-class error for a
// negative id and a storage-class FieldError for any other violation.
type Validator interface {
	Validate(value any) error
}

// Checker resolves validators. Its clock decides what "today" means for
// call-up dates.
type Checker struct {
	now   func() time.Time
	rules *validator.Validate
}

func New(now func() time.Time) *Checker {
	if now == nil {
		now = time.Now
	}
	return &Checker{now: now, rules: validator.New()}
}

var defaultChecker = New(time.Now)

// For returns the validator for value's runtime type.
func For(value any) (Validator, error) {
	return defaultChecker.For(value)
}

// Validate resolves the validator for value and runs it.
func Validate(value any) error {
	return defaultChecker.Validate(value)
}

func (c *Checker) For(value any) (Validator, error) {
	switch value.(type) {
	case staff.Player, *staff.Player:
		return playerValidator{c}, nil
	case staff.Coach, *staff.Coach:
		return coachValidator{c}, nil
	case staff.Base, *staff.Base:
		return staffValidator{c}, nil
	case account.Account, *account.Account:
		return accountValidator{c}, nil
	case squad.Call, *squad.Call:
		return callValidator{c}, nil
	default:
		return nil, apperr.IllegalArgumentf("no validator for %T", value)
	}
}

func (c *Checker) Validate(value any) error {
	v, err := c.For(value)
	if err != nil {
		return err
	}
	return v.Validate(value)
}

// check runs a validator tag against value and turns a failure into a
// FieldError carrying reason.
func (c *Checker) check(field string, value any, tag, reason string) error {
	if err := c.rules.Var(value, tag); err != nil {
		return apperr.Field(field, fmt.Sprint(value), reason)
	}
	return nil
}

func (c *Checker) checkText(field, value string, tag, reason string) error {
	return c.check(field, strings.TrimSpace(value), tag, reason)
}

func checkID(field string, id int64) error {
	if id < 0 {
		return apperr.InvalidID(field, id)
	}
	return nil
}

func mismatch(expected string, value any) error {
	return apperr.IllegalArgumentf("%s validator cannot check %T", expected, value)
}
