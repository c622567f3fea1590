package navigation

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// FallbackSlack is added to a transition's duration to form the fallback
// timer that bounds every animated transition. Whichever of the element's
// transition-finished signal and this timer fires first resolves the
// animation, so a stalled rendering layer never blocks navigation.
const FallbackSlack = 50 * time.Millisecond

// Animator plays the enter/exit halves of a transition against an element.
// The production implementation wraps the rendering layer's keyframe
// helper; it is an interface so hosts and tests can substitute their own.
type Animator interface {
	// Prepare puts the element into the enter start state before it is
	// revealed.
	Prepare(el Element, cfg Config)
	AnimateOut(el Element, cfg Config) error
	AnimateIn(el Element, cfg Config) error
}

type phase string

const (
	phaseEnter phase = "enter"
	phaseExit  phase = "exit"
)

// classAnimator implements Animator with CSS-class conventions: a start
// class ("fade-enter") applied before the run and an active class
// ("fade-enter-active") triggering the element's own transition. Both are
// cleared when the animation resolves.
type classAnimator struct {
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewAnimator returns the default class-based animator.
func NewAnimator(clock clockwork.Clock, logger *slog.Logger) Animator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &classAnimator{clock: clock, logger: logger}
}

func (a *classAnimator) Prepare(el Element, cfg Config) {
	if cfg.Type == TransitionSnap {
		return
	}
	el.AddClass(a.className(cfg, phaseEnter))
}

func (a *classAnimator) AnimateOut(el Element, cfg Config) error {
	return a.run(el, cfg, phaseExit)
}

func (a *classAnimator) AnimateIn(el Element, cfg Config) error {
	return a.run(el, cfg, phaseEnter)
}

func (a *classAnimator) run(el Element, cfg Config, ph phase) error {
	if cfg.Type == TransitionSnap {
		// Final state immediately, nothing to wait for.
		return nil
	}

	if cfg.Type == TransitionCustom {
		for property, value := range cfg.CustomStyle {
			el.SetStyle(property, value)
		}
	}

	base := a.className(cfg, ph)
	active := base + "-active"

	done := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(done) }) }

	cancel := el.OnTransitionEnd(finish)
	timer := a.clock.AfterFunc(cfg.Duration+FallbackSlack, func() {
		a.logger.Debug("transition-finished signal missed, fallback timer fired",
			"type", cfg.Type, "phase", string(ph))
		finish()
	})

	el.AddClass(base)
	el.AddClass(active)

	<-done
	cancel()
	timer.Stop()

	el.RemoveClass(active)
	el.RemoveClass(base)
	return nil
}

func (a *classAnimator) className(cfg Config, ph phase) string {
	name := string(cfg.Type)
	if cfg.Direction != "" {
		name += "-" + cfg.Direction
	}
	return name + "-" + string(ph)
}
