package repository

import (
	"errors"
	"fmt"
)

// ErrPostNotFound is returned by mutations addressed to a post that does not exist.
var ErrPostNotFound = errors.New("post not found")

// ValidationError reports malformed input rejected before any store call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ReferenceError reports a dangling reference (author or parent) rejected before insert.
type ReferenceError struct {
	Field string
	ID    string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %q does not reference an existing record", e.Field, e.ID)
}

// AuthorizationError reports an actor that may not perform a mutation.
// Anonymous is set when there was no authenticated actor at all.
type AuthorizationError struct {
	ActorID   string
	Action    string
	Anonymous bool
}

func (e *AuthorizationError) Error() string {
	if e.Anonymous {
		return fmt.Sprintf("authentication required to %s", e.Action)
	}
	return fmt.Sprintf("user %s is not allowed to %s", e.ActorID, e.Action)
}

// StoreError carries the executor's failure message verbatim.
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

func storeError(message string) error {
	return &StoreError{Message: message}
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)
