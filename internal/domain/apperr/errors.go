// Package apperr defines the error kinds shared by validators, codecs and
// repositories. Errors are marked with their kind, so errors.Is keeps working
// after any amount of wrapping.
package apperr

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var (
	// ErrNotFound marks structurally invalid identifiers (e.g. negative ids).
	// A lookup that finds nothing is not an error.
	ErrNotFound = crerr.New("not found")
	// ErrStorage marks rule violations, decode failures and backing-store failures.
	ErrStorage = crerr.New("storage failure")
	// ErrIllegalArgument marks values outside a closed set of supported types.
	ErrIllegalArgument = crerr.New("illegal argument")
)

// FieldError names the offending field and its raw value.
type FieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s (value %q)", e.Field, e.Reason, e.Value)
}

// Field returns a storage-class FieldError.
func Field(field, value, reason string) error {
	return crerr.Mark(&FieldError{Field: field, Value: value, Reason: reason}, ErrStorage)
}

// InvalidID returns a not-found-class FieldError for a nonsensical identifier.
func InvalidID(field string, id int64) error {
	return crerr.Mark(&FieldError{
		Field:  field,
		Value:  fmt.Sprint(id),
		Reason: "must not be negative",
	}, ErrNotFound)
}

func Storagef(format string, args ...any) error {
	return crerr.Mark(crerr.Newf(format, args...), ErrStorage)
}

func IllegalArgumentf(format string, args ...any) error {
	return crerr.Mark(crerr.Newf(format, args...), ErrIllegalArgument)
}

// Storage wraps a backing-store failure as storage-class. Nil stays nil.
func Storage(err error, msg string) error {
	if err == nil {
		return nil
	}
	wrapped := crerr.Wrap(err, msg)
	if crerr.Is(err, ErrStorage) {
		return wrapped
	}
	return crerr.Mark(wrapped, ErrStorage)
}

func IsNotFound(err error) bool {
	return crerr.Is(err, ErrNotFound)
}

func IsStorage(err error) bool {
	return crerr.Is(err, ErrStorage)
}

func IsIllegalArgument(err error) bool {
	return crerr.Is(err, ErrIllegalArgument)
}

// AsField extracts the FieldError carried by err, if any.
func AsField(err error) (*FieldError, bool) {
	var fe *FieldError
	if crerr.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
