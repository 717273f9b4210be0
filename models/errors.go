package models

import "errors"

// Domain errors. Handlers map these to HTTP statuses; services wrap them
// with context via fmt.Errorf and %w.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrForbidden  = errors.New("access denied")
	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("scheduling conflict")
	ErrDuplicate  = errors.New("resource already exists")
)
