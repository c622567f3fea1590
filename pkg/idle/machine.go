package idle

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

// ChannelName is the idle machine's channel in the orchestrator registry.
const ChannelName = "idle-activation"

// Statestore keys. StateKeyLastMaintenance is shared with the host so
// external maintenance can also refresh it.
const (
	StateKeyActive          = "idle.isActive"
	StateKeyLastMaintenance = "lastMaintenance"
)

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

// Machine is the idle-timeout activation machine. It owns its own timer
// and sequence state and holds only a read/subscribe relationship to
// navigation state.
type Machine struct {
	orch   *orchestrator.Orchestrator
	nav    activation.Navigator
	store  *statestore.Store
	clock  clockwork.Clock
	logger *slog.Logger

	mu          sync.Mutex
	cfg         Config
	registered  bool
	hidden      bool
	proto       *activation.Protocol
	channel     *bus.Channel
	tokens      []bus.Token
	idleTimer   clockwork.Timer
	maintTicker clockwork.Ticker
	maintStop   chan struct{}
}

// New creates an unregistered idle machine. Nothing happens until Register.
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
// arms the idle timer. Validation failures are fatal to setup: they are
// returned synchronously and nothing is (re)armed.
func (m *Machine) Register(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.MaintenanceEvery <= 0 {
		cfg.MaintenanceEvery = DefaultMaintenanceEvery
	}

	m.mu.Lock()
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
				m.logger.Warn("malformed idle register payload", "payload", detail)
				return
			}
			if err := m.Register(next); err != nil {
				m.logger.Error("idle re-registration failed", "error", err)
			}
		}),
		m.channel.Subscribe(activation.EventForce, func(any) {
			if err := m.ForceActivate(); err != nil {
				m.logger.Error("forced idle activation failed", "error", err)
			}
		}),
		m.channel.Subscribe(activation.EventRelease, func(any) {
			if err := m.Deactivate(); err != nil {
				m.logger.Error("idle deactivation failed", "error", err)
			}
		}),
	}

	m.restartIdleTimerLocked()
	m.mu.Unlock()
	return nil
}

// Active reports whether the machine is in the Active state.
func (m *Machine) Active() bool {
	m.mu.Lock()
	proto := m.proto
	m.mu.Unlock()
	return proto != nil && proto.Active()
}

// Activity feeds one user interaction into the machine. Excluded activity
// is ignored entirely. While Inactive, qualifying activity restarts the
// idle timer; while Active, it triggers deactivation.
func (m *Machine) Activity(ev Activity) {
	m.mu.Lock()
	if !m.registered {
		m.mu.Unlock()
		return
	}
	if m.cfg.Exclude != nil && m.cfg.Exclude(ev) {
		m.mu.Unlock()
		return
	}
	proto := m.proto
	if !proto.Active() {
		m.restartIdleTimerLocked()
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	if err := m.Deactivate(); err != nil {
		// The Active flag was rolled back; the next activity retries.
		m.logger.Error("idle deactivation failed", "error", err)
	}
}

// ForceActivate enters the Active state immediately, bypassing the idle
// timer and the blocker.
func (m *Machine) ForceActivate() error {
	m.mu.Lock()
	proto := m.proto
	m.mu.Unlock()
	if proto == nil {
		return nil
	}
	return m.activate(proto)
}

// Deactivate leaves the Active state, landing per the exit behavior, and
// restarts the idle timer on success. Idempotent while Inactive.
func (m *Machine) Deactivate() error {
	m.mu.Lock()
	proto := m.proto
	if proto == nil || !proto.Active() {
		m.mu.Unlock()
		return nil
	}
	m.stopMaintenanceLocked()
	m.mu.Unlock()

	if err := proto.Deactivate(); err != nil {
		return err
	}

	m.mu.Lock()
	m.restartIdleTimerLocked()
	m.mu.Unlock()
	return nil
}

// HostHidden pauses the idle timer while the host surface is not visible.
func (m *Machine) HostHidden() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hidden = true
	if m.idleTimer != nil {
		m.idleTimer.Stop()
	}
}

// HostVisible resumes by restarting the idle timer fresh.
func (m *Machine) HostVisible() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hidden = false
	m.restartIdleTimerLocked()
}

// Unregister tears down timers and listeners and resets the state.
func (m *Machine) Unregister() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
}

// activateIfDue fires from the idle timer. State may have changed between
// arming and firing, so everything is re-checked.
func (m *Machine) activateIfDue() {
	m.mu.Lock()
	if !m.registered || m.hidden {
		m.mu.Unlock()
		return
	}
	proto := m.proto
	blocker := m.cfg.Blocker
	if proto.Active() {
		m.mu.Unlock()
		return
	}
	if blocker != nil && blocker() {
		// Vetoed: restart the silence window instead of activating.
		m.restartIdleTimerLocked()
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	if err := m.activate(proto); err != nil {
		m.logger.Error("idle activation failed", "error", err)
		m.mu.Lock()
		m.restartIdleTimerLocked()
		m.mu.Unlock()
	}
}

func (m *Machine) activate(proto *activation.Protocol) error {
	if err := proto.Activate(); err != nil {
		return err
	}

	m.mu.Lock()
	m.startMaintenanceLocked()
	m.mu.Unlock()

	m.runMaintenanceCheck()
	return nil
}

// runMaintenanceCheck compares the elapsed time since the shared
// lastMaintenance timestamp against the configured threshold. It only acts
// while Active.
func (m *Machine) runMaintenanceCheck() {
	m.mu.Lock()
	cfg := m.cfg
	proto := m.proto
	m.mu.Unlock()

	if proto == nil || !proto.Active() {
		return
	}
	if cfg.MaintenanceAfter <= 0 || cfg.OnMaintenance == nil {
		return
	}

	last := lastMaintenance(m.store)
	if m.clock.Since(last) < cfg.MaintenanceAfter {
		return
	}
	cfg.OnMaintenance()
	m.store.Set(StateKeyLastMaintenance, m.clock.Now())
}

func (m *Machine) restartIdleTimerLocked() {
	if m.idleTimer != nil {
		m.idleTimer.Stop()
	}
	if !m.registered || m.hidden {
		return
	}
	m.idleTimer = m.clock.AfterFunc(m.cfg.Timeout, m.activateIfDue)
}

func (m *Machine) startMaintenanceLocked() {
	m.stopMaintenanceLocked()
	ticker := m.clock.NewTicker(m.cfg.MaintenanceEvery)
	stop := make(chan struct{})
	m.maintTicker = ticker
	m.maintStop = stop

	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				m.runMaintenanceCheck()
			}
		}
	}()
}

func (m *Machine) stopMaintenanceLocked() {
	if m.maintTicker != nil {
		m.maintTicker.Stop()
		m.maintTicker = nil
	}
	if m.maintStop != nil {
		close(m.maintStop)
		m.maintStop = nil
	}
}

func (m *Machine) teardownLocked() {
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}
	m.stopMaintenanceLocked()
	for _, token := range m.tokens {
		token.Cancel()
	}
	m.tokens = nil
	if m.proto != nil {
		m.proto.Reset()
		m.proto = nil
	}
	m.registered = false
}

func lastMaintenance(store *statestore.Store) time.Time {
	v, ok := store.Get(StateKeyLastMaintenance)
	if !ok {
		return time.Time{}
	}
	ts, _ := v.(time.Time)
	return ts
}
