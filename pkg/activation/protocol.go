package activation

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kioskware/kioskit/pkg/bus"
	"github.com/kioskware/kioskit/pkg/fsm"
	"github.com/kioskware/kioskit/pkg/navigation"
	"github.com/kioskware/kioskit/pkg/statestore"
)

// ExitBehavior selects the view to land on when an activation ends.
type ExitBehavior string

const (
	// ExitReset always returns to the configured starting view.
	ExitReset ExitBehavior = "reset"
	// ExitReturn goes back to the view that was active before activation.
	ExitReturn ExitBehavior = "return"
)

// Valid checks the behavior is one of the two known values.
func (b ExitBehavior) Valid() bool {
	return b == ExitReset || b == ExitReturn
}

// Protocol states and events.
const (
	StateInactive = fsm.State("inactive")
	StateActive   = fsm.State("active")

	EventActivate   = fsm.Event("activate")
	EventDeactivate = fsm.Event("deactivate")
)

// Channel event names shared by both activation machines.
const (
	EventRegister    = "register"
	EventForce       = "activate"
	EventRelease     = "deactivate"
	EventActivated   = "activated"
	EventDeactivated = "deactivated"
)

// ActivatedEvent is the payload published on activation.
type ActivatedEvent struct {
	ViewID         string
	PreviousViewID string
}

// DeactivatedEvent is the payload published on deactivation.
type DeactivatedEvent struct {
	TargetViewID string
	ExitBehavior ExitBehavior
}

// ErrNoExitTarget is returned when deactivating with nowhere to land: the
// exit behavior needs a target view and none was ever captured or
// configured.
var ErrNoExitTarget = errors.New("activation: no exit target view")

// Navigator is the slice of the navigation coordinator the protocol needs.
type Navigator interface {
	CurrentViewID() string
	TransitionView(viewID string, cfg navigation.Config) error
}

// Params configures a Protocol.
type Params struct {
	Navigator      Navigator
	Store          *statestore.Store
	Channel        *bus.Channel
	Logger         *slog.Logger
	StoreKey       string // statestore flag key, e.g. "idle.isActive"
	ViewID         string // activation target view
	StartingViewID string // exit target for ExitReset
	ExitBehavior   ExitBehavior
	Transition     navigation.Config
	OnActivate     func()
	OnDeactivate   func()
}

// Protocol carries the Inactive/Active machine and its side effects. No
// internal lock is held while host callbacks, view transitions, or channel
// publishes run, so those may freely call back into the protocol.
type Protocol struct {
	machine *fsm.Machine
	p       Params

	mu         sync.Mutex
	lastActive string
}

// NewProtocol builds a protocol in the Inactive state. Params validation is
// the owning machine's job; the protocol trusts its inputs.
func NewProtocol(p Params) *Protocol {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	m := fsm.New(StateInactive)
	// Definitions with non-empty literal names cannot fail.
	_ = m.AddTransition(StateInactive, StateActive, EventActivate, nil, nil)
	_ = m.AddTransition(StateActive, StateInactive, EventDeactivate, nil, nil)

	proto := &Protocol{machine: m, p: p}
	proto.setFlag(false)
	return proto
}

// Active reports whether the protocol is in the Active state.
func (pr *Protocol) Active() bool {
	return pr.machine.Current() == StateActive
}

// LastActiveView returns the view captured at the most recent activation.
func (pr *Protocol) LastActiveView() string {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.lastActive
}

// Activate enters the Active state and transitions to the target view. It
// is idempotent: activating while Active does nothing. If the view
// transition fails, Active is rolled back and the error returned.
func (pr *Protocol) Activate() error {
	// Capture the departing view before the state flips, unless we are
	// already sitting on the target.
	current := pr.p.Navigator.CurrentViewID()
	pr.mu.Lock()
	if current != pr.p.ViewID {
		pr.lastActive = current
	}
	previous := pr.lastActive
	pr.mu.Unlock()

	if err := pr.machine.Fire(EventActivate); err != nil {
		var no fsm.ErrNoTransition
		if errors.As(err, &no) {
			return nil // already Active
		}
		return fmt.Errorf("activation: %w", err)
	}
	pr.setFlag(true)

	if err := pr.p.Navigator.TransitionView(pr.p.ViewID, pr.p.Transition); err != nil {
		pr.machine.Restore(StateInactive)
		pr.setFlag(false)
		return fmt.Errorf("activation: transition to %q: %w", pr.p.ViewID, err)
	}

	pr.publish(EventActivated, ActivatedEvent{ViewID: pr.p.ViewID, PreviousViewID: previous})
	if pr.p.OnActivate != nil {
		pr.p.OnActivate()
	}
	return nil
}

// Deactivate leaves the Active state and transitions to the exit target
// chosen by the exit behavior. It is idempotent while Inactive. A failed
// exit transition rolls the Active flag back and returns the error; the
// caller decides whether to log or surface it.
func (pr *Protocol) Deactivate() error {
	if !pr.Active() {
		return nil
	}

	if pr.p.OnDeactivate != nil {
		pr.p.OnDeactivate()
	}

	if err := pr.machine.Fire(EventDeactivate); err != nil {
		var no fsm.ErrNoTransition
		if errors.As(err, &no) {
			return nil // already Inactive
		}
		return fmt.Errorf("activation: %w", err)
	}
	pr.setFlag(false)

	target := pr.exitTarget()
	if target == "" {
		pr.machine.Restore(StateActive)
		pr.setFlag(true)
		return ErrNoExitTarget
	}

	if err := pr.p.Navigator.TransitionView(target, pr.p.Transition); err != nil {
		pr.machine.Restore(StateActive)
		pr.setFlag(true)
		return fmt.Errorf("activation: exit transition to %q: %w", target, err)
	}

	pr.publish(EventDeactivated, DeactivatedEvent{TargetViewID: target, ExitBehavior: pr.p.ExitBehavior})
	return nil
}

// Reset forces the protocol back to Inactive without side effects. Used
// when a machine is re-registered.
func (pr *Protocol) Reset() {
	pr.machine.Reset()
	pr.mu.Lock()
	pr.lastActive = ""
	pr.mu.Unlock()
	pr.setFlag(false)
}

func (pr *Protocol) exitTarget() string {
	if pr.p.ExitBehavior == ExitReset {
		return pr.p.StartingViewID
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.lastActive != "" {
		return pr.lastActive
	}
	return pr.p.StartingViewID
}

func (pr *Protocol) publish(event string, payload any) {
	if pr.p.Channel == nil {
		return
	}
	if err := pr.p.Channel.Publish(event, payload); err != nil {
		// The channel reported the missing-listener violation already.
		pr.p.Logger.Debug("activation event had no listeners", "event", event)
	}
}

func (pr *Protocol) setFlag(active bool) {
	if pr.p.Store != nil && pr.p.StoreKey != "" {
		pr.p.Store.Set(pr.p.StoreKey, active)
	}
}
