package model

import "fmt"

// ValidationError reports malformed input: an invalid argument, an unknown item,
// or a response payload that does not have the expected shape.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
	Err    error // optional sentinel, e.g. catalog.ErrItemNotFound
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }
