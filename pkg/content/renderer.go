package content

import (
	"github.com/pushpin-forge/pushpin/pkg/pushpinurl"
	"github.com/pushpin-forge/pushpin/pkg/store"
)

// Renderer is a mounted renderer instance. Concrete renderers expose their
// own type-specific accessors; the resolution layer only needs to release
// them when the mount goes away.
type Renderer interface {
	// Close releases resources the renderer acquired beyond its primary
	// document binding (the handle that mounted it owns that binding).
	Close() error
}

// Document is the live view of a synchronized document handed to a
// renderer: the latest snapshot, the update stream, and the change
// submission path. subscription.Binding satisfies it.
type Document interface {
	// ID identifies the bound document.
	ID() pushpinurl.DocumentID

	// Snapshot returns the latest delivered snapshot, or false while the
	// store has not obtained the document ("not yet loaded", not an
	// error).
	Snapshot() (store.Snapshot, bool)

	// Updates delivers subsequent snapshots in strictly increasing
	// version order. The channel closes when the binding does.
	Updates() <-chan store.Snapshot

	// Change submits an optimistic mutation, fire-and-forget.
	Change(m store.Mutator) error

	// Close ends the binding. Idempotent.
	Close() error
}

// BindFunc opens an independent subscription to another document. Renderers
// use it for cross-document references (a contact's avatar, a board's
// cards): once a referenced id becomes known from a snapshot, the renderer
// binds to it separately.
type BindFunc func(id pushpinurl.DocumentID) (Document, error)

// RendererFactory constructs a renderer bound to a live document. Factories
// are registered per mount context in a Descriptor's variant map.
type RendererFactory func(doc Document, bind BindFunc) (Renderer, error)
