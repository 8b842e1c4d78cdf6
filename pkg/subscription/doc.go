// Package subscription binds a caller's lifetime to live mutations of a
// synchronized document.
//
// Bind returns immediately with whatever snapshot the store currently holds
// (possibly none) and a Binding whose Updates channel delivers later
// snapshots in strictly increasing version order. Delivery is coalescing: a
// slow consumer observes the latest version, never a backlog of superseded
// ones. Close is idempotent and deregisters the store listener, so the
// store is never left with a dangling listener after unbind.
//
// Each Bind call creates an independent subscription, even when the same
// document id is bound repeatedly; bindings are not shared across
// subscribers.
package subscription
