package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidInput   = errors.New("invalid input")

	// Session and hole state errors.
	ErrAlreadyEnded = errors.New("session is already ended")
	ErrSessionEnded = errors.New("session has ended")
	ErrNoActiveHole = errors.New("no active hole")
	ErrHoleClosed   = errors.New("hole is already completed")
)
