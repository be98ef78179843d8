package session

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned when an operation needs a signed-in session.
var ErrNoSession = errors.New("no active session")

// AuthError reports a failed sign-in: rejected credentials or a success
// response without an authorization token.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "authentication failed: " + e.Reason
	}
	return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ConnectionError reports a presence channel that could not be opened or used.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("presence %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
