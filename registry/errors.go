package registry

import "errors"

var (
	// ErrInvalidArgument is returned when a caller passes a nil entity, a zero date or a non-positive capacity.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateEntry is returned when an equal entity is already stored.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrCapacityExceeded is returned when inserting into a full registry.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrNotFound is returned when no stored entity equals the given one.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyReturned is returned when returning a loan that was returned before.
	// It always comes joined with ErrNotFound.
	ErrAlreadyReturned = errors.New("loan already returned")
)
