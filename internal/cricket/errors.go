package cricket

import (
	"errors"
	"fmt"
)

// Every error returned by this package wraps exactly one of these, so callers can classify
// failures with errors.Is.
var (
	ErrInitialization    = errors.New("match not initialized")
	ErrValidation        = errors.New("invalid argument")
	ErrSelectionConflict = errors.New("selection conflict")
	ErrMissingArgument   = errors.New("missing argument")
)

func initErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInitialization, fmt.Sprintf(format, args...))
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func conflictErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSelectionConflict, fmt.Sprintf(format, args...))
}

func missingErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMissingArgument, fmt.Sprintf(format, args...))
}

// ErrorCode names the kind of a failure for clients: "initialization", "validation",
// "selection_conflict" or "missing_argument". Other errors return "".
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInitialization):
		return "initialization"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrSelectionConflict):
		return "selection_conflict"
	case errors.Is(err, ErrMissingArgument):
		return "missing_argument"
	default:
		return ""
	}
}
