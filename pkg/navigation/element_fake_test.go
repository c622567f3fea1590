package navigation_test

import (
	"strings"
	"sync"
)

// fakeElement records every mutation the coordinator and animator make. If
// signalOnActive is set it fires its transition-end callback as soon as an
// "-active" class lands, mimicking a rendering layer that completes
// transitions instantly.
type fakeElement struct {
	mu             sync.Mutex
	signalOnActive bool

	added      []string
	removed    []string
	visibility []bool
	styles     map[string]string
	endFn      func()
}

func newFakeElement(signalOnActive bool) *fakeElement {
	return &fakeElement{signalOnActive: signalOnActive, styles: make(map[string]string)}
}

func (e *fakeElement) AddClass(name string) {
	e.mu.Lock()
	e.added = append(e.added, name)
	fn := e.endFn
	e.mu.Unlock()

	if e.signalOnActive && strings.HasSuffix(name, "-active") && fn != nil {
		fn()
	}
}

func (e *fakeElement) RemoveClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removed = append(e.removed, name)
}

func (e *fakeElement) SetVisible(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visibility = append(e.visibility, visible)
}

func (e *fakeElement) SetStyle(property, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.styles[property] = value
}

func (e *fakeElement) OnTransitionEnd(fn func()) (cancel func()) {
	e.mu.Lock()
	e.endFn = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		e.endFn = nil
		e.mu.Unlock()
	}
}

func (e *fakeElement) lastVisible() (bool, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.visibility) == 0 {
		return false, false
	}
	return e.visibility[len(e.visibility)-1], true
}

func (e *fakeElement) addedClasses() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.added))
	copy(out, e.added)
	return out
}

func (e *fakeElement) removedClasses() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.removed))
	copy(out, e.removed)
	return out
}

func (e *fakeElement) style(property string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.styles[property]
}
