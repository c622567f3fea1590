package idle

import (
	"errors"
	"time"

	"github.com/kioskware/kioskit/pkg/activation"
	"github.com/kioskware/kioskit/pkg/navigation"
)

// DefaultMaintenanceEvery is the fixed cadence of the maintenance timer
// started on activation.
const DefaultMaintenanceEvery = 10 * time.Minute

// Validation errors. Registration with an invalid config fails
// synchronously and is never retried.
var (
	ErrViewRequired         = errors.New("idle: config requires a view id")
	ErrTimeoutRequired      = errors.New("idle: timeout must be positive")
	ErrInvalidExitBehavior  = errors.New("idle: exit behavior must be reset or return")
	ErrStartingViewRequired = errors.New("idle: reset exit behavior requires a starting view id")
)

// Activity describes one qualifying user interaction.
type Activity struct {
	Kind   string // e.g. "pointerdown", "keydown"
	Target string // host-defined identifier of the interaction target
}

// Config registers the idle machine. It is immutable after registration;
// re-registering tears down and rebuilds all listener and timer state.
type Config struct {
	// ViewID is the view activated after the idle timeout.
	ViewID string
	// Timeout is the silence period before activation.
	Timeout time.Duration
	// ExitBehavior picks the view to land on at deactivation.
	ExitBehavior activation.ExitBehavior
	// StartingViewID is the landing view for ExitReset.
	StartingViewID string
	// Transition is the config used for both entry and exit transitions.
	Transition navigation.Config
	// Exclude filters out activity that must not reset the idle timer or
	// trigger deactivation.
	Exclude func(Activity) bool
	// Blocker, checked when the idle timer fires, vetoes activation; the
	// timer restarts instead.
	Blocker func() bool
	// OnActivate and OnDeactivate are optional side-effect callbacks.
	OnActivate   func()
	OnDeactivate func()
	// MaintenanceEvery overrides the fixed maintenance cadence.
	MaintenanceEvery time.Duration
	// MaintenanceAfter is the threshold the elapsed-since-lastMaintenance
	// comparison uses; zero disables maintenance.
	MaintenanceAfter time.Duration
	// OnMaintenance runs when a maintenance check finds the threshold
	// elapsed.
	OnMaintenance func()
}

// Validate checks the registration invariants.
func (c Config) Validate() error {
	if c.ViewID == "" {
		return ErrViewRequired
	}
	if c.Timeout <= 0 {
		return ErrTimeoutRequired
	}
	if !c.ExitBehavior.Valid() {
		return ErrInvalidExitBehavior
	}
	if c.ExitBehavior == activation.ExitReset && c.StartingViewID == "" {
		return ErrStartingViewRequired
	}
	return nil
}
