package store

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrNotOwner is returned when a mutation targets a course owned by a
// different user.
var ErrNotOwner = errors.New("course owned by another user")

// ValidationError carries the ordered constraint messages for a write the
// store rejected. It covers the two recoverable constraint categories
// (field rules and uniqueness); anything else propagates unwrapped.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}
