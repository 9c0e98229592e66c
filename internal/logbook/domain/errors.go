package logbook

import "errors"

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("logbook: not found")
	// ErrInvalidEntry is returned when a submission fails validation.
	ErrInvalidEntry = errors.New("logbook: invalid entry")
)
