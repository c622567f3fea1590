// Package idle implements the idle-timeout activation machine (the
// "screensaver"). After a configured period with no qualifying activity it
// transitions to a designated view; the next qualifying activity exits
// again, landing on a view chosen by the configured exit behavior.
//
// Activity arrives through Machine.Activity, called by the host's input
// layer; an exclude predicate filters out activity that should not count
// (status overlays, the screensaver's own surface). A blocker predicate,
// checked when the idle timer fires, can veto activation — the timer then
// simply restarts.
//
// While Active the machine runs a fixed-cadence maintenance timer. Each
// check compares the elapsed time since the shared lastMaintenance
// timestamp against an optional threshold and invokes the maintenance
// callback when it is due.
//
// Timer callbacks fire independently of the orchestrator's ticks, so every
// callback re-checks the current state before acting.
package idle
