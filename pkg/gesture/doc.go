// Package gesture implements the corner-sequence activation machine (the
// "hidden settings" entry). It recognizes an ordered three-point touch
// sequence — top-left, top-right, bottom-right corner zones of the viewport
// — and on completion transitions to a hidden view. There is no idle
// component: entry is exclusively via the gesture or a forced programmatic
// activation.
//
// Pointer events arrive through Machine.PointerDown. A fixed debounce
// window discards duplicate events from one physical touch (synthetic plus
// native firing). A gap longer than the configured step timeout resets the
// sequence before the new point is evaluated. Any point in the wrong zone
// resets progress to step zero; a point outside all zones only resets when
// a sequence is in flight.
//
// Exit uses the same protocol as the idle machine: the configured exit
// behavior picks the landing view, a failed exit transition rolls the
// Active flag back.
package gesture
