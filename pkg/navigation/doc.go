// Package navigation tracks the currently active page and view of a kiosk
// application and serializes every transition behind one exclusive flag.
//
// Transition requests never execute synchronously from the request call:
// RequestPageTransition and RequestViewTransition enqueue through the
// orchestrator, so coalescing and priority ordering apply uniformly. The
// coordinator subscribes to the navigation channel and performs the
// transitions when they dispatch.
//
// Performing a transition drives the enter/exit animation protocol against
// the rendering layer's Element handles: the target is revealed in its
// start state, the previous element animates out and is hidden, the target
// animates in, and a changed event is published. Every non-snap animation
// is bounded by a fallback timer slightly past its configured duration, so
// a rendering layer that never signals completion cannot stall navigation.
//
// The transitioning flag is cleared on every exit path, including failures.
// One deliberate asymmetry survives from the protocol's history: when the
// enter animation fails after the previous element was hidden, the previous
// element's visibility is not restored.
package navigation
