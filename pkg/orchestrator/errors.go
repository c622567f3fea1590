package orchestrator

import "errors"

var (
	// ErrInvalidClass is returned when an unknown priority class is used.
	ErrInvalidClass = errors.New("orchestrator: invalid priority class")

	// ErrItemNotFound is returned when rescheduling an item that is not
	// pending (unknown id, or already dispatched).
	ErrItemNotFound = errors.New("orchestrator: queue item not found")

	// ErrStopped is returned when enqueueing after the loop was stopped.
	ErrStopped = errors.New("orchestrator: stopped")

	// ErrEmptyName is returned when a channel or event name is empty.
	ErrEmptyName = errors.New("orchestrator: channel and event names must be non-empty")
)
