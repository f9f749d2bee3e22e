package services

import "errors"

// Error taxonomy surfaced to the HTTP layer. Handlers map these with
// errors.Is onto status codes: ErrInvalidInput 400, ErrNotFound 404,
// ErrUnauthorized 401, ErrConflict 409; anything else is a 500.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("not authorized")
	ErrConflict     = errors.New("conflict")
)
