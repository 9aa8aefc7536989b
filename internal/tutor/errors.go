package tutor

import (
	"errors"
	"fmt"
)

// FeatureUnavailableError reports that a backing repository failed. Callers
// render an empty state for the feature instead of failing the whole view.
type FeatureUnavailableError struct {
	Feature string
	Err     error
}

func (e *FeatureUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Feature, e.Err)
}

func (e *FeatureUnavailableError) Unwrap() error { return e.Err }

// IsFeatureUnavailable reports whether err is or wraps a *FeatureUnavailableError.
func IsFeatureUnavailable(err error) bool {
	var fe *FeatureUnavailableError
	return errors.As(err, &fe)
}

func unavailable(feature string, err error) error {
	return &FeatureUnavailableError{Feature: feature, Err: err}
}

// InvalidInputError reports a request that can never succeed as given.
type InvalidInputError struct {
	Field string
	Err   error
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// IsInvalidInput reports whether err is or wraps an *InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}

func invalidInput(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Err: fmt.Errorf(format, args...)}
}
