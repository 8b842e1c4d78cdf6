package store

import (
	"errors"
	"fmt"

	"github.com/pushpin-forge/pushpin/pkg/pushpinurl"
)

var (
	// ErrInvalidMutation is returned when a change request is malformed
	// (nil mutator, or a mutator that reports failure). The document is
	// left unchanged.
	ErrInvalidMutation = errors.New("invalid mutation")

	// ErrNotFound is returned when an operation requires a document the
	// store does not hold. Note that Subscribe deliberately does not
	// return it: subscribing to a document that has not arrived yet is
	// the normal "not yet loaded" case.
	ErrNotFound = errors.New("document not found")
)

// Mutator describes one optimistic mutation. It receives a private copy of
// the document's fields and edits them in place; returning an error rejects
// the whole mutation without applying anything.
type Mutator func(fields map[string]any) error

// ListenerFunc receives each new snapshot of a subscribed document.
type ListenerFunc func(Snapshot)

// UnsubscribeFunc deregisters a listener. Safe to call more than once.
type UnsubscribeFunc func()

// Client is the document store as seen by the resolution layer.
//
// Change is fire-and-forget with respect to replication: it applies the
// mutation locally (or enqueues it) and returns without waiting for remote
// merge. Subscribe is push-based; listeners are invoked with snapshots in
// increasing version order.
type Client interface {
	// Create allocates a new document and returns its identity.
	Create(mimeType string, fields map[string]any) (pushpinurl.DocumentID, error)

	// Latest returns the current snapshot of a document, or false when the
	// store has not obtained the document yet.
	Latest(id pushpinurl.DocumentID) (Snapshot, bool)

	// Subscribe registers a listener for future snapshots of one document.
	// The listener receives no replay of history, only versions produced
	// after registration.
	Subscribe(id pushpinurl.DocumentID, fn ListenerFunc) UnsubscribeFunc

	// Change submits a mutation. Fails with ErrInvalidMutation before
	// anything is applied when the mutator is malformed, and with
	// ErrNotFound when the document is unknown.
	Change(id pushpinurl.DocumentID, m Mutator) error
}

// AllSubscriber is an optional Client capability: a store-wide change feed
// covering every document. The feed bridge requires it.
type AllSubscriber interface {
	SubscribeAll(fn ListenerFunc) UnsubscribeFunc
}

// ApplyMutator runs a mutator against a copy of the given fields and
// returns the edited copy. The original map is never touched, so a failed
// mutation cannot leave a document half-applied.
func ApplyMutator(fields map[string]any, m Mutator) (map[string]any, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil mutator", ErrInvalidMutation)
	}
	next := CloneFields(fields)
	if next == nil {
		next = make(map[string]any)
	}
	if err := m(next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMutation, err)
	}
	return next, nil
}
