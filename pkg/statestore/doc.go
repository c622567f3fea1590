// Package statestore provides the shared state context passed into every
// coordination component. It replaces ambient global state with an explicit
// object: plain Get/Set/Has accessors plus an observer map keyed by state
// key, each entry holding an ordered list of subscriber callbacks invoked
// synchronously on change.
//
// Components own their keys exclusively (only the navigation coordinator
// writes navigation.* keys, and so on); everyone else observes through
// Subscribe. Setting a key to a value equal to the current one is a no-op
// and does not notify.
package statestore
