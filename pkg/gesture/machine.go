package gesture

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kioskware/kioskit/pkg/activation"
	"github.com/kioskware/kioskit/pkg/bus"
	"github.com/kioskware/kioskit/pkg/orchestrator"
	"github.com/kioskware/kioskit/pkg/statestore"
)

// ChannelName is the gesture machine's channel in the orchestrator registry.
const ChannelName = "gesture-activation"

// StateKeyActive is the statestore flag mirroring the Active state.
const StateKeyActive = "gesture.isActive"

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the machine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the clock (defaults to the orchestrator's).
func WithClock(clock clockwork.Clock) Option {
	return func(m *Machine) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// Machine is the corner-sequence activation machine. Sequence state is
// evaluated lazily against the clock on each pointer event, so no timer is
// armed between steps.
type Machine struct {
	orch   *orchestrator.Orchestrator
	nav    activation.Navigator
	store  *statestore.Store
	clock  clockwork.Clock
	logger *slog.Logger

	mu             sync.Mutex
	cfg            Config
	registered     bool
	proto          *activation.Protocol
	channel        *bus.Channel
	tokens         []bus.Token
	step           int
	lastAcceptedAt time.Time
}

// New creates an unregistered gesture machine. Nothing happens until
// Register.
func New(orch *orchestrator.Orchestrator, nav activation.Navigator, store *statestore.Store, opts ...Option) *Machine {
	m := &Machine{
		orch:   orch,
		nav:    nav,
		store:  store,
		clock:  orch.Clock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register validates the config, tears down any prior registration, and
// starts listening for pointer events at step zero.
func (m *Machine) Register(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.CornerRadius == 0 {
		cfg.CornerRadius = DefaultCornerRadius
	}
	if cfg.StepTimeout == 0 {
		cfg.StepTimeout = DefaultStepTimeout
	}
	if cfg.DebounceWindow == 0 {
		cfg.DebounceWindow = DefaultDebounceWindow
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()

	m.cfg = cfg
	m.registered = true
	m.channel = m.orch.CreateChannel(ChannelName)
	m.proto = activation.NewProtocol(activation.Params{
		Navigator:      m.nav,
		Store:          m.store,
		Channel:        m.channel,
		Logger:         m.logger,
		StoreKey:       StateKeyActive,
		ViewID:         cfg.ViewID,
		StartingViewID: cfg.StartingViewID,
		ExitBehavior:   cfg.ExitBehavior,
		Transition:     cfg.Transition,
		OnActivate:     cfg.OnActivate,
		OnDeactivate:   cfg.OnDeactivate,
	})

	m.tokens = []bus.Token{
		m.channel.Subscribe(activation.EventRegister, func(detail any) {
			next, ok := detail.(Config)
			if !ok {
				m.logger.Warn("malformed gesture register payload", "payload", detail)
				return
			}
			if err := m.Register(next); err != nil {
				m.logger.Error("gesture re-registration failed", "error", err)
			}
		}),
		m.channel.Subscribe(activation.EventForce, func(any) {
			if err := m.Activate(); err != nil {
				m.logger.Error("forced gesture activation failed", "error", err)
			}
		}),
		m.channel.Subscribe(activation.EventRelease, func(any) {
			if err := m.Deactivate(); err != nil {
				m.logger.Error("gesture deactivation failed", "error", err)
			}
		}),
	}
	return nil
}

// Active reports whether the machine is in the Active state.
func (m *Machine) Active() bool {
	m.mu.Lock()
	proto := m.proto
	m.mu.Unlock()
	return proto != nil && proto.Active()
}

// Step returns the current sequence position (0, 1, or 2).
func (m *Machine) Step() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// PointerDown feeds one pointer event into the recognizer. Duplicate events
// within the debounce window of the previously accepted step are discarded.
// A gap longer than the step timeout resets the sequence before the point
// is evaluated. Completing the third corner activates the hidden view.
func (m *Machine) PointerDown(p Point) {
	m.mu.Lock()
	if !m.registered || m.proto.Active() {
		m.mu.Unlock()
		return
	}

	now := m.clock.Now()
	if !m.lastAcceptedAt.IsZero() && now.Sub(m.lastAcceptedAt) < m.cfg.DebounceWindow {
		m.mu.Unlock()
		return
	}
	if m.step > 0 && now.Sub(m.lastAcceptedAt) > m.cfg.StepTimeout {
		m.step = 0
	}

	z := classify(p, m.cfg.CornerRadius)
	if z == zoneNone {
		// Outside all zones: abandon a sequence in flight, ignore otherwise.
		m.step = 0
		m.mu.Unlock()
		return
	}
	if z != sequence[m.step] {
		m.step = 0
		m.mu.Unlock()
		return
	}

	m.step++
	m.lastAcceptedAt = now
	if m.step < len(sequence) {
		m.mu.Unlock()
		return
	}
	m.step = 0
	proto := m.proto
	m.mu.Unlock()

	if err := proto.Activate(); err != nil {
		m.logger.Error("gesture activation failed", "error", err)
	}
}

// Activate enters the Active state programmatically, bypassing the
// recognizer.
func (m *Machine) Activate() error {
	m.mu.Lock()
	proto := m.proto
	m.step = 0
	m.mu.Unlock()
	if proto == nil {
		return nil
	}
	return proto.Activate()
}

// Deactivate leaves the Active state, landing per the exit behavior.
// Idempotent while Inactive.
func (m *Machine) Deactivate() error {
	m.mu.Lock()
	proto := m.proto
	m.mu.Unlock()
	if proto == nil {
		return nil
	}
	return proto.Deactivate()
}

// Unregister tears down listeners and resets sequence and state.
func (m *Machine) Unregister() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
}

func (m *Machine) teardownLocked() {
	for _, token := range m.tokens {
		token.Cancel()
	}
	m.tokens = nil
	if m.proto != nil {
		m.proto.Reset()
		m.proto = nil
	}
	m.step = 0
	m.lastAcceptedAt = time.Time{}
	m.registered = false
}
