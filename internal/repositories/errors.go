package repositories

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStale is returned when a conditional update matched no rows, i.e.
	// the record changed (or disappeared) since it was read.
	ErrStale = errors.New("record changed concurrently")
)
