// Package bus provides named publish/subscribe channels for in-process
// coordination between kiosk subsystems.
//
// A Channel carries any number of event names. Handlers for an event are
// invoked synchronously, in registration order, when the event is
// published. Each subscription returns a Token that cancels exactly that
// handler. Publishing an event that currently has no live handlers is a
// contract violation: it is reported (typed error plus the channel's
// violation callback) and the publish is abandoned — it is never queued or
// retried.
//
// Handler panics are recovered at the publish boundary and reported; they
// never propagate to the publisher, and the remaining handlers still run.
// Channels perform no I/O.
package bus
