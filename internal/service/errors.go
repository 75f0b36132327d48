package service

import (
	"errors"

	"todoapi/internal/auth"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already registered")
	// ErrInvalidToken is shared with the auth middleware, which maps it to 401.
	ErrInvalidToken = auth.ErrInvalidToken
)
