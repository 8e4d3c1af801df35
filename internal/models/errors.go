package models

import "errors"

// Domain errors shared by the repository, service and handler layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidPage        = errors.New("page must be a positive integer")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
