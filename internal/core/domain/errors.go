package domain

import "errors"

// Common domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrOwnerNotFound          = errors.New("owner cannot be found")
	ErrConcurrentModification = errors.New("record was modified concurrently")
	ErrInvalidInput           = errors.New("invalid input")
	ErrForbidden              = errors.New("forbidden")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
)
