// ABOUTME: Error values returned by session operations.
// ABOUTME: Sentinels for lifecycle errors and a typed error for bad input.
package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned when an operation needs an active workout and there is none.
	ErrNoSession = errors.New("no workout in progress")
	// ErrSessionActive is returned by Start when a workout is already in progress.
	ErrSessionActive = errors.New("a workout is already in progress")
	// ErrSetNotFound is returned when a set ID does not match any logged set.
	ErrSetNotFound = errors.New("set not found")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
