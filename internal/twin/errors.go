package twin

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("twin: validation failed")
	// ErrMissingField is matched by every *MissingFieldError.
	ErrMissingField = errors.New("twin: missing required field")
)

// ValidationError reports a draft rejected by the gate. Err is the gate's
// own error, so callers can still errors.As into validator.ValidationErrors.
type ValidationError struct {
	Kind string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("twin: %s draft is invalid: %v", e.Kind, e.Err)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

// MissingFieldError reports a twin that cannot be built because a source
// field it requires is absent.
type MissingFieldError struct {
	Kind  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("twin: %s requires %s", e.Kind, e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }
