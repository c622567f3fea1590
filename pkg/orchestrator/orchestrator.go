package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/kioskware/kioskit/pkg/bus"
)

// DefaultTickInterval approximates a per-frame cadence.
const DefaultTickInterval = 16 * time.Millisecond

// Orchestrator owns the channel registry and the pending-work queue.
// All methods are safe for concurrent use.
type Orchestrator struct {
	mu       sync.Mutex
	channels map[string]*bus.Channel
	queue    []*Item
	seq      uint64
	stopped  bool
	stopCh   chan struct{}
	stopOnce sync.Once

	clock        clockwork.Clock
	logger       *slog.Logger
	tickInterval time.Duration
	onViolation  func(error)
}

// New creates an orchestrator with an empty channel registry and queue.
func New(opts ...Option) *Orchestrator {
	o := &options{
		clock:        clockwork.NewRealClock(),
		logger:       slog.Default(),
		tickInterval: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Orchestrator{
		channels:     make(map[string]*bus.Channel),
		stopCh:       make(chan struct{}),
		clock:        o.clock,
		logger:       o.logger,
		tickInterval: o.tickInterval,
		onViolation:  o.onViolation,
	}
}

// Clock returns the orchestrator's clock so collaborating components can
// share a single time source.
func (o *Orchestrator) Clock() clockwork.Clock { return o.clock }

// CreateChannel returns the channel registered under name, creating it on
// first use. Creation is idempotent by name: repeated calls return the
// same instance.
func (o *Orchestrator) CreateChannel(name string) *bus.Channel {
	o.mu.Lock()
	defer o.mu.Unlock()

	if ch, ok := o.channels[name]; ok {
		return ch
	}
	opts := []bus.Option{bus.WithLogger(o.logger)}
	if o.onViolation != nil {
		opts = append(opts, bus.WithViolationHandler(o.onViolation))
	}
	ch := bus.New(name, opts...)
	o.channels[name] = ch
	return ch
}

// LookupChannel returns the channel registered under name, if any.
func (o *Orchestrator) LookupChannel(name string) (*bus.Channel, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ch, ok := o.channels[name]
	return ch, ok
}

// Enqueue appends a work item to the queue tail and returns its id.
//
// The reserved navigation request pairs coalesce: all queued items with the
// identical (channel, event) pair are removed before the new item is
// appended. No other pairs coalesce.
func (o *Orchestrator) Enqueue(channel, event string, class PriorityClass, payload any, opts ...EnqueueOption) (uuid.UUID, error) {
	if channel == "" || event == "" {
		return uuid.Nil, ErrEmptyName
	}
	if !class.Valid() {
		return uuid.Nil, ErrInvalidClass
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stopped {
		return uuid.Nil, ErrStopped
	}

	item := &Item{
		ID:         uuid.New(),
		Channel:    channel,
		Event:      event,
		Class:      class,
		Payload:    payload,
		EligibleAt: o.clock.Now(),
	}
	for _, opt := range opts {
		opt(item)
	}

	if coalesces(channel, event) {
		kept := o.queue[:0]
		for _, queued := range o.queue {
			if queued.Channel == channel && queued.Event == event {
				o.logger.Debug("coalesced stale navigation request",
					"channel", channel, "event", event, "id", queued.ID)
				continue
			}
			kept = append(kept, queued)
		}
		o.queue = kept
	}

	o.seq++
	item.seq = o.seq
	o.queue = append(o.queue, item)
	return item.ID, nil
}

// Reschedule changes the eligibility time of a still-pending item. Items
// already dispatched (or never enqueued) report ErrItemNotFound.
func (o *Orchestrator) Reschedule(id uuid.UUID, eligibleAt time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, item := range o.queue {
		if item.ID == id {
			item.EligibleAt = eligibleAt
			return nil
		}
	}
	return ErrItemNotFound
}

// Pending returns the number of queued items, eligible or not.
func (o *Orchestrator) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

// Stopped reports whether Stop was called.
func (o *Orchestrator) Stopped() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopped
}

// Tick dispatches every currently-eligible item, best first, publishing
// each to its channel. Missing channels and listener-less events are
// reported and skipped; Tick itself never fails.
func (o *Orchestrator) Tick() {
	for {
		item := o.takeNext()
		if item == nil {
			return
		}
		o.dispatch(item)
	}
}

// Run drives Tick on the clock's ticker until the context is done or Stop
// is called. It always returns the context error or nil after Stop.
func (o *Orchestrator) Run(ctx context.Context) error {
	ticker := o.clock.NewTicker(o.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-o.stopCh:
			return nil
		case <-ticker.Chan():
			o.Tick()
		}
	}
}

// Stop halts the scheduling loop permanently. Items already dispatched are
// unaffected; items still queued will never dispatch. Stop is idempotent.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	o.stopped = true
	o.mu.Unlock()
	o.stopOnce.Do(func() { close(o.stopCh) })
}

// takeNext removes and returns the best eligible item, or nil. Expired
// items encountered during selection are dropped.
func (o *Orchestrator) takeNext() *Item {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stopped || len(o.queue) == 0 {
		return nil
	}

	now := o.clock.Now()

	kept := o.queue[:0]
	var best *Item
	bestIdx := -1
	for _, item := range o.queue {
		if !item.Expiry.IsZero() && now.After(item.Expiry) {
			o.logger.Debug("discarded expired queue item",
				"channel", item.Channel, "event", item.Event, "id", item.ID)
			continue
		}
		kept = append(kept, item)
		if item.Class == ClassScheduled && now.Before(item.EligibleAt) {
			continue
		}
		if best == nil || beats(item, best) {
			best = item
			bestIdx = len(kept) - 1
		}
	}
	o.queue = kept

	if best == nil {
		return nil
	}
	o.queue = append(o.queue[:bestIdx], o.queue[bestIdx+1:]...)
	return best
}

func (o *Orchestrator) dispatch(item *Item) {
	o.mu.Lock()
	ch, ok := o.channels[item.Channel]
	o.mu.Unlock()

	if !ok {
		o.logger.Warn("dispatch skipped: channel not registered",
			"channel", item.Channel, "event", item.Event, "id", item.ID)
		return
	}

	if err := ch.Publish(item.Event, item.Payload); err != nil {
		// The channel already reported the violation; keep the loop moving.
		var noListeners bus.ErrNoListeners
		if errors.As(err, &noListeners) {
			o.logger.Debug("dispatch dropped: no listeners",
				"channel", item.Channel, "event", item.Event, "id", item.ID)
			return
		}
		o.logger.Warn("dispatch failed",
			"channel", item.Channel, "event", item.Event, "id", item.ID, "error", err)
	}
}

// beats reports whether a should dispatch before b: lower class rank first,
// then earlier eligibility, then original enqueue order. The comparison is
// stable so equal keys preserve enqueue order.
func beats(a, b *Item) bool {
	if ra, rb := a.Class.rank(), b.Class.rank(); ra != rb {
		return ra < rb
	}
	if !a.EligibleAt.Equal(b.EligibleAt) {
		return a.EligibleAt.Before(b.EligibleAt)
	}
	return a.seq < b.seq
}

func coalesces(channel, event string) bool {
	return channel == NavigationChannel &&
		(event == EventRequestPageTransition || event == EventRequestViewTransition)
}
