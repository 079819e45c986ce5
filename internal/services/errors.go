package services

import "errors"

// Terminal failure modes of the credential lifecycle. Handlers map these to
// status codes; nothing here is retried internally.
var (
	ErrConflict              = errors.New("username or email already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUnauthenticated       = errors.New("not authenticated")
	ErrNotFound              = errors.New("not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrUserNotFound          = errors.New("user not found")
)
