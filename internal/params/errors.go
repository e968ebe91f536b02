package params

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownParameter indicates a key that is not part of the parameter set.
	ErrUnknownParameter = errors.New("params: unknown parameter")

	// ErrUnknownTheme indicates a theme name missing from the preset table.
	ErrUnknownTheme = errors.New("params: unknown theme")

	// ErrInvalidParameter indicates a value outside its documented range.
	ErrInvalidParameter = errors.New("params: invalid parameter value")
)

// InvalidParameterError reports a rejected value for a single key.
type InvalidParameterError struct {
	Key    string
	Value  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("params: invalid %s %q: %s", e.Key, e.Value, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}
