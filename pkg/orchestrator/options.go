package orchestrator

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Option configures an Orchestrator.
type Option func(*options)

type options struct {
	clock        clockwork.Clock
	logger       *slog.Logger
	tickInterval time.Duration
	onViolation  func(error)
}

// WithClock sets the clock driving Run's ticker and eligibility checks.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the logger for dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTickInterval sets the cadence of the scheduling loop started by Run.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.tickInterval = d
		}
	}
}

// WithViolationHandler sets a callback receiving contract violations from
// the orchestrator and every channel it creates.
func WithViolationHandler(fn func(error)) Option {
	return func(o *options) {
		if fn != nil {
			o.onViolation = fn
		}
	}
}

// EnqueueOption configures a single queued item.
type EnqueueOption func(*Item)

// WithEligibleAt sets the earliest time a scheduled item may dispatch. For
// other classes it only influences ordering within the class.
func WithEligibleAt(at time.Time) EnqueueOption {
	return func(it *Item) { it.EligibleAt = at }
}

// WithExpiry discards the item if it is still queued past the given time.
func WithExpiry(at time.Time) EnqueueOption {
	return func(it *Item) { it.Expiry = at }
}
