package gesture

import (
	"errors"
	"time"

	"github.com/kioskware/kioskit/pkg/activation"
	"github.com/kioskware/kioskit/pkg/navigation"
)

// Defaults applied by Register when the corresponding field is zero.
const (
	DefaultCornerRadius   = 120.0
	DefaultStepTimeout    = 3 * time.Second
	DefaultDebounceWindow = 50 * time.Millisecond
)

// Validation errors. Registration with an invalid config fails
// synchronously and is never retried.
var (
	ErrViewRequired         = errors.New("gesture: config requires a view id")
	ErrInvalidExitBehavior  = errors.New("gesture: exit behavior must be reset or return")
	ErrStartingViewRequired = errors.New("gesture: reset exit behavior requires a starting view id")
	ErrInvalidCornerRadius  = errors.New("gesture: corner radius must be positive")
	ErrInvalidStepTimeout   = errors.New("gesture: step timeout must be positive")
)

// Point is one pointer-down event in viewport coordinates.
type Point struct {
	X, Y                 float64
	ViewportW, ViewportH float64
}

// Config registers the gesture machine. It is immutable after registration;
// re-registering tears down and rebuilds all listener and sequence state.
type Config struct {
	// ViewID is the hidden view activated on sequence completion.
	ViewID string
	// ExitBehavior picks the view to land on at deactivation.
	ExitBehavior activation.ExitBehavior
	// StartingViewID is the landing view for ExitReset.
	StartingViewID string
	// Transition is the config used for both entry and exit transitions.
	Transition navigation.Config
	// CornerRadius is the side length of each square corner zone, measured
	// from the corresponding viewport corner. Zero means DefaultCornerRadius.
	CornerRadius float64
	// StepTimeout is the maximum gap between accepted steps. Zero means
	// DefaultStepTimeout.
	StepTimeout time.Duration
	// DebounceWindow discards events this close to the previously accepted
	// one. Zero means DefaultDebounceWindow.
	DebounceWindow time.Duration
	// OnActivate and OnDeactivate are optional side-effect callbacks.
	OnActivate   func()
	OnDeactivate func()
}

// Validate checks the registration invariants. Zero-valued numeric fields
// are legal (defaults apply); negative values are not.
func (c Config) Validate() error {
	if c.ViewID == "" {
		return ErrViewRequired
	}
	if !c.ExitBehavior.Valid() {
		return ErrInvalidExitBehavior
	}
	if c.ExitBehavior == activation.ExitReset && c.StartingViewID == "" {
		return ErrStartingViewRequired
	}
	if c.CornerRadius < 0 {
		return ErrInvalidCornerRadius
	}
	if c.StepTimeout < 0 || c.DebounceWindow < 0 {
		return ErrInvalidStepTimeout
	}
	return nil
}

// zone identifies which corner zone, if any, a point falls in.
type zone int

const (
	zoneNone zone = iota
	zoneTopLeft
	zoneTopRight
	zoneBottomRight
)

// sequence is the expected zone per step.
var sequence = [3]zone{zoneTopLeft, zoneTopRight, zoneBottomRight}

func classify(p Point, radius float64) zone {
	switch {
	case p.X <= radius && p.Y <= radius:
		return zoneTopLeft
	case p.X >= p.ViewportW-radius && p.Y <= radius:
		return zoneTopRight
	case p.X >= p.ViewportW-radius && p.Y >= p.ViewportH-radius:
		return zoneBottomRight
	}
	return zoneNone
}
