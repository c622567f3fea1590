package fsm

import (
	"fmt"
	"sync"
)

// State identifies a state by name.
type State string

// Event identifies an event by name.
type Event string

// Guard decides whether a transition may be taken.
type Guard func(from State, event Event) bool

// Action runs side effects before the state change. A non-nil error aborts
// the transition and the machine stays in its current state.
type Action func(from, to State, event Event) error

// Observer is notified after every successful transition.
type Observer func(from, to State, event Event)

type transition struct {
	to      State
	guards  []Guard
	actions []Action
}

// Machine is a thread-safe guarded state machine.
// Transition lookup is O(1) via a nested map keyed by state then event.
type Machine struct {
	mu          sync.Mutex
	initial     State
	current     State
	transitions map[State]map[Event][]transition
	observers   []Observer
}

// New creates a machine starting in the given state.
func New(initial State) *Machine {
	return &Machine{
		initial:     initial,
		current:     initial,
		transitions: make(map[State]map[Event][]transition),
	}
}

// AddTransition defines a transition from one state to another on an event.
// Multiple transitions for the same (from, event) pair are evaluated in
// definition order; the first one whose guards all pass is taken.
func (m *Machine) AddTransition(from, to State, event Event, guards []Guard, actions []Action) error {
	if from == "" || to == "" || event == "" {
		return ErrInvalidTransition
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transitions[from]; !ok {
		m.transitions[from] = make(map[Event][]transition)
	}
	m.transitions[from][event] = append(m.transitions[from][event], transition{
		to:      to,
		guards:  guards,
		actions: actions,
	})
	return nil
}

// OnChange registers an observer invoked after each successful transition.
func (m *Machine) OnChange(fn Observer) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Fire attempts to transition on the given event. Actions run before the
// state change; an action error aborts the transition. Observers run after
// the state change, outside the machine's lock, so they may query or fire
// the machine again.
func (m *Machine) Fire(event Event) error {
	if event == "" {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	from := m.current

	t, err := m.selectLocked(from, event)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	for _, action := range t.actions {
		if action == nil {
			continue
		}
		if err := action(from, t.to, event); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("fsm: action failed: %w", err)
		}
	}

	m.current = t.to
	observers := make([]Observer, len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	for _, fn := range observers {
		fn(from, t.to, event)
	}
	return nil
}

// CanFire reports whether the event would cause a transition from the
// current state, evaluating guards but not actions.
func (m *Machine) CanFire(event Event) bool {
	if event == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.selectLocked(m.current, event)
	return err == nil
}

// Reset returns the machine to its initial state without running guards,
// actions, or observers.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

// Restore forces the machine into a state without running guards, actions,
// or observers. It exists for rollback paths where a side effect attached
// to a completed transition later fails and the prior state must be
// reinstated.
func (m *Machine) Restore(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
}

func (m *Machine) selectLocked(from State, event Event) (transition, error) {
	byEvent, ok := m.transitions[from]
	if !ok {
		return transition{}, ErrNoTransition{State: from, Event: event}
	}
	candidates, ok := byEvent[event]
	if !ok || len(candidates) == 0 {
		return transition{}, ErrNoTransition{State: from, Event: event}
	}

	for _, t := range candidates {
		passed := true
		for _, guard := range t.guards {
			if guard != nil && !guard(from, event) {
				passed = false
				break
			}
		}
		if passed {
			return t, nil
		}
	}
	return transition{}, ErrTransitionRejected{State: from, Event: event}
}
