package navigation

import (
	"errors"
	"fmt"
)

var (
	// ErrTransitionInProgress is returned when a transition is requested
	// directly while another one is still running. Queue-mediated requests
	// never observe this: dispatch is serialized behind the same flag.
	ErrTransitionInProgress = errors.New("navigation: transition already in progress")

	// ErrInvalidRegistration is returned when registering a surface with an
	// empty id or nil element.
	ErrInvalidRegistration = errors.New("navigation: registration requires an id and an element")

	// ErrNotStarted is returned when requesting transitions before Start.
	ErrNotStarted = errors.New("navigation: coordinator not started")
)

// ErrNotFound indicates a transition target that was never registered.
type ErrNotFound struct {
	Kind string // "page" or "view"
	ID   string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("navigation: %s %q not registered", e.Kind, e.ID)
}

// ErrAlreadyRegistered indicates a duplicate surface id on one axis.
type ErrAlreadyRegistered struct {
	Kind string
	ID   string
}

func (e ErrAlreadyRegistered) Error() string {
	return fmt.Sprintf("navigation: %s %q already registered", e.Kind, e.ID)
}
