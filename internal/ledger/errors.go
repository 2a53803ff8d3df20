package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any state change.
	ErrValidation = errors.New("invalid input")

	// ErrAlreadyApplied is returned by Apply on a paid transaction.
	ErrAlreadyApplied = errors.New("transaction already applied")

	// ErrNotApplied is returned by Unapply on an unpaid transaction.
	ErrNotApplied = errors.New("transaction not applied")

	// ErrProtected is returned when deleting a record that still has dependents.
	ErrProtected = errors.New("record still has dependents")
)

// Validationf wraps ErrValidation with a formatted reason.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func validationf(format string, args ...interface{}) error {
	return Validationf(format, args...)
}
