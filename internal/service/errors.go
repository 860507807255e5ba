package service

import (
	"errors"

	"discussx/internal/models"
	"discussx/internal/repository"
)

var (
	ErrTableNotFound      = errors.New("table not found")
	ErrStorageUnavailable = errors.New("object storage is not configured")
)

// requireActor turns an anonymous caller into an AuthorizationError.
func requireActor(actor *models.AuthenticatedUser, action string) error {
	if actor == nil {
		return &repository.AuthorizationError{Action: action, Anonymous: true}
	}
	return nil
}
