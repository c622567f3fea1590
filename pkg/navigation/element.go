package navigation

// Element is the rendering collaborator's handle for one page or view. The
// coordination core only needs class/style mutation, visibility, and a
// transition-finished signal; everything else about rendering stays on the
// other side of this boundary.
type Element interface {
	AddClass(name string)
	RemoveClass(name string)
	SetVisible(visible bool)
	SetStyle(property, value string)

	// OnTransitionEnd registers a callback fired when the element's current
	// visual transition finishes. The returned cancel detaches the callback;
	// it must be safe to call after the callback fired.
	OnTransitionEnd(fn func()) (cancel func())
}

// Surface pairs a stable id with its visual element. It is the payload of
// the register-page and register-view channel events.
type Surface struct {
	ID string
	El Element
}
