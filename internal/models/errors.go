package models

import "errors"

// Domain errors. Client-caused kinds are returned as values and are
// never retried by the booking engine itself.
var (
	// ErrInvalidRange means checkout is not strictly after checkin.
	ErrInvalidRange = errors.New("check-out must be after check-in")

	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRoomUnavailable means the candidate stay overlaps an existing
	// booking for the room, detected either by the conflict check or by
	// the storage backstop.
	ErrRoomUnavailable = errors.New("room unavailable for this period")

	// ErrDuplicate means a unique constraint was violated (room number,
	// client document, user login).
	ErrDuplicate = errors.New("already exists")

	// ErrStorage marks a transient storage failure. Nothing was
	// committed; the caller may retry the whole operation.
	ErrStorage = errors.New("storage failure")

	// ErrInvariantViolation means the committed booking set for a room
	// contains an overlap. This must never happen and is surfaced
	// loudly instead of being silently repaired.
	ErrInvariantViolation = errors.New("booking calendar invariant violated")
)
