package orchestrator

import (
	"time"

	"github.com/google/uuid"
)

// PriorityClass buckets queued items into coarse dispatch-order classes.
type PriorityClass string

const (
	// ClassScheduled items carry an explicit eligibility time and dispatch
	// ahead of everything else once that time arrives.
	ClassScheduled PriorityClass = "scheduled"
	// ClassImmediate items dispatch before animation and default work.
	ClassImmediate PriorityClass = "immediate"
	// ClassAnimation items carry animation-driving events.
	ClassAnimation PriorityClass = "animation"
	// ClassDefault is the lowest class.
	ClassDefault PriorityClass = "default"
)

// Valid checks whether the class is one of the four known buckets.
func (p PriorityClass) Valid() bool {
	switch p {
	case ClassScheduled, ClassImmediate, ClassAnimation, ClassDefault:
		return true
	}
	return false
}

// rank maps the fixed total order scheduled > immediate > animation >
// default onto ascending integers; lower dispatches first.
func (p PriorityClass) rank() int {
	switch p {
	case ClassScheduled:
		return 0
	case ClassImmediate:
		return 1
	case ClassAnimation:
		return 2
	default:
		return 3
	}
}

// Reserved channel and event names for navigation transition requests.
// Enqueues for these pairs coalesce (see Enqueue).
const (
	NavigationChannel          = "navigation"
	EventRequestPageTransition = "request-page-transition"
	EventRequestViewTransition = "request-view-transition"
)

// Item is a unit of queued work: one event to publish on one channel.
type Item struct {
	ID         uuid.UUID
	Channel    string
	Event      string
	Class      PriorityClass
	Payload    any
	EligibleAt time.Time
	Expiry     time.Time // zero means no expiry
	seq        uint64
}
