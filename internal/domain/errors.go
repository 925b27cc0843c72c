package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrBadRequest      = errors.New("bad request")
	ErrTooManyRequests = errors.New("too many requests")
	ErrDuplicateEmail  = errors.New("duplicated email")
	ErrInvalidEmail    = errors.New("email not exist")
	ErrInternal        = errors.New("internal error")
)
