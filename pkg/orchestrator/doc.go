// Package orchestrator mediates all cross-subsystem communication in a
// kiosk application. It owns a registry of named bus channels and a single
// pending-work queue drained by a tick-driven scheduling loop.
//
// Producers call Enqueue with a channel name, event name, priority class,
// and payload. Each Tick selects the best currently-eligible item —
// partitioned by priority class (scheduled > immediate > animation >
// default), then ascending eligibility time, then enqueue order — and
// publishes it to the matching channel, repeating until no eligible item
// remains. Run drives Tick from an injectable clock so tests control time
// deterministically.
//
// Repeated navigation transition requests coalesce: enqueueing a
// request-page-transition or request-view-transition removes all queued
// items with the identical channel/event pair first, so a burst of user
// input never leaves stale navigation intents behind the freshest one.
//
// The loop never panics. Missing channels, listener-less events, and
// handler panics are reported and skipped; dispatch always makes forward
// progress.
package orchestrator
