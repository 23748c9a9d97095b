package apperrors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidFormat = errors.New("invalid format")
	ErrTooLarge      = errors.New("too large")
)
