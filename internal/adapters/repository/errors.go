package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("participant not found")
	ErrDuplicateName = errors.New("participant name already exists")
	ErrInvalidName   = errors.New("participant name must not be empty")
	ErrInvalidLimit  = errors.New("invalid history limit")
	ErrUnavailable   = errors.New("store unavailable")
)
