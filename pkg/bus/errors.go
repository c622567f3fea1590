package bus

import "fmt"

// ErrNoListeners is returned by Publish when an event has no live handlers.
// It marks a wiring contract violation between subsystems, not a fatal
// condition: the publish is dropped and the caller decides how loudly to
// report it.
type ErrNoListeners struct {
	Channel string
	Event   string
}

func (e ErrNoListeners) Error() string {
	return fmt.Sprintf("bus: no listeners for event %q on channel %q", e.Event, e.Channel)
}

// ErrHandlerPanic reports a handler that panicked during dispatch. The
// panic is recovered at the publish boundary; this error is delivered to
// the channel's violation callback instead of propagating.
type ErrHandlerPanic struct {
	Channel string
	Event   string
	Value   any
}

func (e ErrHandlerPanic) Error() string {
	return fmt.Sprintf("bus: handler for event %q on channel %q panicked: %v", e.Event, e.Channel, e.Value)
}
