package component

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField marks a required builder parameter that was not
	// supplied.
	ErrMissingField = errors.New("missing field")

	// ErrTypeMismatch marks an input that is not the expected shape or
	// kind, e.g. nil where a parameter mapping was required.
	ErrTypeMismatch = errors.New("unexpected type")

	// ErrComponentSolve marks a failure inside a component's solve,
	// including failures propagated from host-supplied code.
	ErrComponentSolve = errors.New("component solve failed")
)

// RequireParameters validates a builder's parameter mapping. A nil
// mapping is a type mismatch; otherwise every absent required name
// contributes a missing-field error so callers see all of them at once.
func RequireParameters(params map[string]float64, required ...string) error {
	if params == nil {
		return fmt.Errorf("%w: nil cannot be converted to a parameter mapping", ErrTypeMismatch)
	}
	var errs []error
	for _, name := range required {
		if _, ok := params[name]; !ok {
			errs = append(errs, fmt.Errorf("%w `%s`", ErrMissingField, name))
		}
	}
	return errors.Join(errs...)
}
