// Package fsm provides a small guarded finite state machine used by the
// coordination components (navigation, idle activation, gesture sequence).
//
// A Machine holds a transition table keyed by (state, event). Each
// transition carries optional guards and actions: all guards must pass for
// a transition to be taken, and actions run before the state change — an
// action error aborts the transition and leaves the current state intact.
// When several transitions share a (state, event) pair, the first one whose
// guards all pass wins, which allows guard-based branching.
//
// Change observers registered via OnChange are invoked synchronously, in
// registration order, after a successful transition.
package fsm
