package navigation

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/kioskware/kioskit/pkg/bus"
	"github.com/kioskware/kioskit/pkg/fsm"
	"github.com/kioskware/kioskit/pkg/orchestrator"
	"github.com/kioskware/kioskit/pkg/statestore"
)

// Channel and event names owned by the coordinator.
const (
	ChannelName = orchestrator.NavigationChannel

	EventRegisterPage  = "register-page"
	EventRegisterView  = "register-view"
	EventPageChanged   = "page-changed"
	EventViewChanged   = "view-changed"
	EventViewReentered = "view-re-entered"
)

// Statestore keys owned by the coordinator.
const (
	StateKeyCurrentPage   = "navigation.currentPageId"
	StateKeyCurrentView   = "navigation.currentViewId"
	StateKeyTransitioning = "navigation.isTransitioning"
)

// Coordinator states.
const (
	StateIdle          = fsm.State("idle")
	StateTransitioning = fsm.State("transitioning")

	eventBegin  = fsm.Event("begin-transition")
	eventFinish = fsm.Event("finish-transition")
)

// PageRequest is the request-page-transition payload.
type PageRequest struct {
	PageID string
	Config Config
}

// ViewRequest is the request-view-transition payload.
type ViewRequest struct {
	ViewID string
	Config Config
}

// PageChange is the page-changed payload.
type PageChange struct {
	NewPageID      string
	PreviousPageID string
}

// ViewChange is the view-changed payload.
type ViewChange struct {
	NewViewID      string
	PreviousViewID string
}

// ViewReentry is the view-re-entered payload.
type ViewReentry struct {
	ViewID string
}

type axis struct {
	kind         string
	changedEvent string
	stateKey     string
}

var (
	axisPage = axis{kind: "page", changedEvent: EventPageChanged, stateKey: StateKeyCurrentPage}
	axisView = axis{kind: "view", changedEvent: EventViewChanged, stateKey: StateKeyCurrentView}
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the coordinator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock sets the clock used by the default animator's fallback timers.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Coordinator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithAnimator substitutes the animation-playback collaborator.
func WithAnimator(a Animator) Option {
	return func(c *Coordinator) {
		if a != nil {
			c.animator = a
		}
	}
}

// Coordinator owns the page and view registries and the navigation state.
// It is the only component that mutates navigation.* statestore keys.
type Coordinator struct {
	orch     *orchestrator.Orchestrator
	store    *statestore.Store
	channel  *bus.Channel
	machine  *fsm.Machine
	animator Animator
	logger   *slog.Logger
	clock    clockwork.Clock

	mu          sync.Mutex
	pages       map[string]Element
	views       map[string]Element
	pageOrder   []string
	viewOrder   []string
	currentPage string
	currentView string
	tokens      []bus.Token
	started     bool
}

// New creates a coordinator bound to an orchestrator and a shared state
// store. Call Start to attach it to the navigation channel.
func New(orch *orchestrator.Orchestrator, store *statestore.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		orch:   orch,
		store:  store,
		logger: slog.Default(),
		clock:  orch.Clock(),
		pages:  make(map[string]Element),
		views:  make(map[string]Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.animator == nil {
		c.animator = NewAnimator(c.clock, c.logger)
	}

	m := fsm.New(StateIdle)
	_ = m.AddTransition(StateIdle, StateTransitioning, eventBegin, nil, nil)
	_ = m.AddTransition(StateTransitioning, StateIdle, eventFinish, nil, nil)
	m.OnChange(func(from, to fsm.State, ev fsm.Event) {
		c.store.Set(StateKeyTransitioning, to == StateTransitioning)
	})
	c.machine = m
	c.store.Set(StateKeyTransitioning, false)

	return c
}

// Start creates the navigation channel and subscribes the coordinator to
// its request and registration events. Idempotent.
func (c *Coordinator) Start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	ch := c.orch.CreateChannel(ChannelName)

	tokens := []bus.Token{
		ch.Subscribe(orchestrator.EventRequestPageTransition, func(detail any) {
			req, ok := detail.(PageRequest)
			if !ok {
				c.logger.Warn("malformed page transition request", "payload", detail)
				return
			}
			if err := c.TransitionPage(req.PageID, req.Config); err != nil {
				c.logger.Error("page transition failed", "pageId", req.PageID, "error", err)
			}
		}),
		ch.Subscribe(orchestrator.EventRequestViewTransition, func(detail any) {
			req, ok := detail.(ViewRequest)
			if !ok {
				c.logger.Warn("malformed view transition request", "payload", detail)
				return
			}
			if err := c.TransitionView(req.ViewID, req.Config); err != nil {
				c.logger.Error("view transition failed", "viewId", req.ViewID, "error", err)
			}
		}),
		ch.Subscribe(EventRegisterPage, func(detail any) {
			if s, ok := detail.(Surface); ok {
				if err := c.RegisterPage(s.ID, s.El); err != nil {
					c.logger.Error("page registration failed", "pageId", s.ID, "error", err)
				}
			}
		}),
		ch.Subscribe(EventRegisterView, func(detail any) {
			if s, ok := detail.(Surface); ok {
				if err := c.RegisterView(s.ID, s.El); err != nil {
					c.logger.Error("view registration failed", "viewId", s.ID, "error", err)
				}
			}
		}),
	}

	c.mu.Lock()
	c.channel = ch
	c.tokens = tokens
	c.mu.Unlock()
}

// Stop detaches the coordinator from the navigation channel.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	tokens := c.tokens
	c.tokens = nil
	c.started = false
	c.mu.Unlock()

	for _, token := range tokens {
		token.Cancel()
	}
}

// RegisterPage adds a page. The first registered page becomes current and
// visible; every other surface starts hidden.
func (c *Coordinator) RegisterPage(id string, el Element) error {
	if id == "" || el == nil {
		return ErrInvalidRegistration
	}

	c.mu.Lock()
	if _, dup := c.pages[id]; dup {
		c.mu.Unlock()
		return ErrAlreadyRegistered{Kind: "page", ID: id}
	}
	c.pages[id] = el
	c.pageOrder = append(c.pageOrder, id)
	first := len(c.pageOrder) == 1
	if first {
		c.currentPage = id
	}
	c.mu.Unlock()

	if first {
		el.SetVisible(true)
		c.store.Set(StateKeyCurrentPage, id)
	} else {
		el.SetVisible(false)
	}
	return nil
}

// RegisterView adds a view. Views start hidden; none becomes current until
// a transition lands on it.
func (c *Coordinator) RegisterView(id string, el Element) error {
	if id == "" || el == nil {
		return ErrInvalidRegistration
	}

	c.mu.Lock()
	if _, dup := c.views[id]; dup {
		c.mu.Unlock()
		return ErrAlreadyRegistered{Kind: "view", ID: id}
	}
	c.views[id] = el
	c.viewOrder = append(c.viewOrder, id)
	c.mu.Unlock()

	el.SetVisible(false)
	return nil
}

// RequestPageTransition enqueues a page transition through the
// orchestrator; it never executes synchronously, so coalescing and priority
// ordering apply no matter the current state.
func (c *Coordinator) RequestPageTransition(pageID string, cfg Config, class orchestrator.PriorityClass) (uuid.UUID, error) {
	if !c.isStarted() {
		return uuid.Nil, ErrNotStarted
	}
	return c.orch.Enqueue(ChannelName, orchestrator.EventRequestPageTransition,
		class, PageRequest{PageID: pageID, Config: cfg})
}

// RequestViewTransition enqueues a view transition through the orchestrator.
func (c *Coordinator) RequestViewTransition(viewID string, cfg Config, class orchestrator.PriorityClass) (uuid.UUID, error) {
	if !c.isStarted() {
		return uuid.Nil, ErrNotStarted
	}
	return c.orch.Enqueue(ChannelName, orchestrator.EventRequestViewTransition,
		class, ViewRequest{ViewID: viewID, Config: cfg})
}

// TransitionPage performs a page transition immediately. Dispatch handlers
// and awaiting callers (the activation machines) use this; user-input paths
// should prefer RequestPageTransition.
func (c *Coordinator) TransitionPage(pageID string, cfg Config) error {
	return c.transition(axisPage, pageID, cfg)
}

// TransitionView performs a view transition immediately.
func (c *Coordinator) TransitionView(viewID string, cfg Config) error {
	return c.transition(axisView, viewID, cfg)
}

// CurrentPageID returns the active page id ("" before the first page).
func (c *Coordinator) CurrentPageID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

// CurrentViewID returns the active view id ("" before the first transition).
func (c *Coordinator) CurrentViewID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentView
}

// IsTransitioning reports whether a transition is in flight.
func (c *Coordinator) IsTransitioning() bool {
	return c.machine.Current() == StateTransitioning
}

// Pages lists registered page ids in registration order.
func (c *Coordinator) Pages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.pageOrder))
	copy(out, c.pageOrder)
	return out
}

// Views lists registered view ids in registration order.
func (c *Coordinator) Views() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.viewOrder))
	copy(out, c.viewOrder)
	return out
}

// OnCurrentPageChange observes the current page id. Returns a cancellation
// token.
func (c *Coordinator) OnCurrentPageChange(fn statestore.Observer) statestore.Token {
	return c.store.Subscribe(StateKeyCurrentPage, fn)
}

// OnCurrentViewChange observes the current view id.
func (c *Coordinator) OnCurrentViewChange(fn statestore.Observer) statestore.Token {
	return c.store.Subscribe(StateKeyCurrentView, fn)
}

// OnTransitioningChange observes the transitioning flag.
func (c *Coordinator) OnTransitioningChange(fn statestore.Observer) statestore.Token {
	return c.store.Subscribe(StateKeyTransitioning, fn)
}

func (c *Coordinator) isStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// transition runs the full protocol for one axis. The transitioning state
// is entered before any visual work and is guaranteed to be cleared on
// every exit path; errors from the animation protocol propagate to the
// caller after that cleanup.
func (c *Coordinator) transition(ax axis, targetID string, cfg Config) error {
	c.mu.Lock()
	registry := c.pages
	current := c.currentPage
	if ax.kind == "view" {
		registry = c.views
		current = c.currentView
	}
	target, ok := registry[targetID]
	if !ok {
		c.mu.Unlock()
		return ErrNotFound{Kind: ax.kind, ID: targetID}
	}

	if targetID == current {
		c.mu.Unlock()
		// Re-entering the current view is announced; re-entering the
		// current page is silent. No animation hooks run either way.
		if ax.kind == "view" {
			c.publish(EventViewReentered, ViewReentry{ViewID: targetID})
		}
		return nil
	}

	var previous Element
	if current != "" {
		previous = registry[current]
	}
	c.mu.Unlock()

	if err := c.machine.Fire(eventBegin); err != nil {
		var busy fsm.ErrNoTransition
		if errors.As(err, &busy) {
			return ErrTransitionInProgress
		}
		return err
	}
	defer func() {
		_ = c.machine.Fire(eventFinish)
	}()

	cfg = NormalizeConfig(cfg, c.logger)

	// Reveal the target in its not-yet-visible start state.
	c.animator.Prepare(target, cfg)
	target.SetVisible(true)

	if previous != nil {
		if err := c.animator.AnimateOut(previous, cfg); err != nil {
			return err
		}
		previous.SetVisible(false)
	}

	// A failure past this point leaves the previous element hidden; its
	// visibility is deliberately not restored.
	if err := c.animator.AnimateIn(target, cfg); err != nil {
		return err
	}

	c.mu.Lock()
	if ax.kind == "view" {
		c.currentView = targetID
	} else {
		c.currentPage = targetID
	}
	c.mu.Unlock()

	c.store.Set(ax.stateKey, targetID)

	if ax.kind == "view" {
		c.publish(ax.changedEvent, ViewChange{NewViewID: targetID, PreviousViewID: current})
	} else {
		c.publish(ax.changedEvent, PageChange{NewPageID: targetID, PreviousPageID: current})
	}
	return nil
}

func (c *Coordinator) publish(event string, payload any) {
	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	if ch == nil {
		return
	}
	if err := ch.Publish(event, payload); err != nil {
		// The channel reported the missing-listener violation already.
		c.logger.Debug("navigation event had no listeners", "event", event)
	}
}
