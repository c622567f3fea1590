package fsm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when a transition is defined with an
	// empty state or event name.
	ErrInvalidTransition = errors.New("fsm: transition states and event must be non-empty")

	// ErrInvalidEvent is returned when Fire is called with an empty event.
	ErrInvalidEvent = errors.New("fsm: event must be non-empty")
)

// ErrNoTransition indicates no transition is defined for the current
// state/event combination.
type ErrNoTransition struct {
	State State
	Event Event
}

func (e ErrNoTransition) Error() string {
	return fmt.Sprintf("fsm: no transition from state %q for event %q", e.State, e.Event)
}

// ErrTransitionRejected indicates every candidate transition was blocked by
// its guards.
type ErrTransitionRejected struct {
	State State
	Event Event
}

func (e ErrTransitionRejected) Error() string {
	return fmt.Sprintf("fsm: transition from state %q for event %q rejected by guards", e.State, e.Event)
}
