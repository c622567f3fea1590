package bus

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Handler receives the detail value attached to a published event.
type Handler func(detail any)

// Token cancels a single subscription. Cancel is idempotent.
type Token struct {
	id     uuid.UUID
	cancel func()
}

// Cancel revokes the subscription the token belongs to.
func (t Token) Cancel() {
	if t.cancel != nil {
		t.cancel()
	}
}

// ID returns the unique subscription id.
func (t Token) ID() uuid.UUID { return t.id }

type registration struct {
	id   uuid.UUID
	fn   Handler
	once bool
	live bool
}

// Option configures a Channel.
type Option func(*Channel)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Channel) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithViolationHandler sets a callback invoked for contract violations
// (publishing with no listeners, handler panics).
func WithViolationHandler(fn func(error)) Option {
	return func(c *Channel) {
		if fn != nil {
			c.onViolation = fn
		}
	}
}

// Channel is a named publish/subscribe endpoint. All methods are safe for
// concurrent use; dispatch itself is synchronous and in registration order.
type Channel struct {
	name        string
	mu          sync.Mutex
	handlers    map[string][]*registration
	logger      *slog.Logger
	onViolation func(error)
}

// New creates a channel with the given name.
func New(name string, opts ...Option) *Channel {
	c := &Channel{
		name:     name,
		handlers: make(map[string][]*registration),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.name }

// Subscribe registers a handler for an event. Handlers registered for the
// same event are all invoked on publish, in registration order.
func (c *Channel) Subscribe(event string, h Handler) Token {
	return c.subscribe(event, h, false)
}

// SubscribeOnce registers a handler that cancels itself after its first
// invocation. The returned token may still cancel it before delivery.
func (c *Channel) SubscribeOnce(event string, h Handler) Token {
	return c.subscribe(event, h, true)
}

func (c *Channel) subscribe(event string, h Handler, once bool) Token {
	reg := &registration{id: uuid.New(), fn: h, once: once, live: h != nil}

	c.mu.Lock()
	c.handlers[event] = append(c.handlers[event], reg)
	c.mu.Unlock()

	return Token{
		id: reg.id,
		cancel: func() {
			c.mu.Lock()
			reg.live = false
			c.compactLocked(event)
			c.mu.Unlock()
		},
	}
}

// Cancel revokes the earliest-registered still-live handler for the event.
// It reports whether a handler was cancelled.
func (c *Channel) Cancel(event string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, reg := range c.handlers[event] {
		if reg.live {
			reg.live = false
			c.compactLocked(event)
			return true
		}
	}
	return false
}

// HandlerCount returns the number of live handlers for the event.
func (c *Channel) HandlerCount(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, reg := range c.handlers[event] {
		if reg.live {
			n++
		}
	}
	return n
}

// Publish invokes all live handlers for the event synchronously, in
// registration order, passing detail to each. With zero live handlers it
// reports the violation and returns ErrNoListeners without dispatching.
//
// The handler set is snapshotted when the publish starts: handlers added
// during dispatch (including from inside a handler) are not invoked until
// the next publish, while handlers cancelled mid-dispatch are skipped.
func (c *Channel) Publish(event string, detail any) error {
	c.mu.Lock()
	regs := c.handlers[event]
	snapshot := make([]*registration, 0, len(regs))
	for _, reg := range regs {
		if reg.live {
			snapshot = append(snapshot, reg)
			if reg.once {
				reg.live = false
			}
		}
	}
	if len(snapshot) == 0 {
		c.mu.Unlock()
		err := ErrNoListeners{Channel: c.name, Event: event}
		c.report(err)
		return err
	}
	c.compactLocked(event)
	c.mu.Unlock()

	for _, reg := range snapshot {
		if !reg.once {
			// Re-check liveness so a handler cancelled earlier in this
			// dispatch round is skipped.
			c.mu.Lock()
			live := reg.live
			c.mu.Unlock()
			if !live {
				continue
			}
		}
		c.invoke(event, reg, detail)
	}
	return nil
}

func (c *Channel) invoke(event string, reg *registration, detail any) {
	defer func() {
		if r := recover(); r != nil {
			c.report(ErrHandlerPanic{Channel: c.name, Event: event, Value: r})
		}
	}()
	reg.fn(detail)
}

func (c *Channel) report(err error) {
	c.logger.Warn("bus contract violation", "channel", c.name, "error", err)
	if c.onViolation != nil {
		c.onViolation(err)
	}
}

// compactLocked drops cancelled registrations once they outnumber live
// ones, keeping the slice from growing without bound under subscribe and
// cancel churn.
func (c *Channel) compactLocked(event string) {
	regs := c.handlers[event]
	dead := 0
	for _, reg := range regs {
		if !reg.live {
			dead++
		}
	}
	if dead <= len(regs)/2 {
		return
	}
	kept := regs[:0]
	for _, reg := range regs {
		if reg.live {
			kept = append(kept, reg)
		}
	}
	if len(kept) == 0 {
		delete(c.handlers, event)
		return
	}
	c.handlers[event] = kept
}
