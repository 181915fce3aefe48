// Package apperr defines the error taxonomy shared across the portal.
//
// Handlers map these to HTTP statuses; nothing below the handler layer
// retries or swallows them.
package apperr

import "errors"

var (
	ErrBadRequest   = errors.New("bad request")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrStorage      = errors.New("storage failure")
	ErrInternal     = errors.New("internal error")
)
