// Package activation implements the shared activate/deactivate protocol
// behind the idle-timeout and gesture-sequence machines.
//
// A Protocol owns an Inactive/Active state machine, a statestore flag, and
// the channel events observers rely on. Activation captures the view that
// was current (the "last active" view), transitions to the configured
// target view, publishes an activated event, and runs the optional side
// effect. Deactivation runs the optional side effect, clears Active,
// transitions to the exit target chosen by the exit behavior, and publishes
// a deactivated event; if that transition fails the Active flag is rolled
// back so the system never lands in an ambiguous state.
package activation
