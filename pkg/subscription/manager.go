package subscription

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/pushpin-forge/pushpin/pkg/pushpinurl"
	"github.com/pushpin-forge/pushpin/pkg/store"
)

// ErrClosed is returned when a mutation is submitted through a binding that
// has been closed. Mutations submitted before close are not retracted;
// close only stops snapshot delivery and further submissions.
var ErrClosed = errors.New("binding is closed")

// Manager creates document bindings against one store client.
type Manager struct {
	client store.Client
	logger hclog.Logger
}

// Option is a functional option for creating a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a subscription manager over a store client.
func NewManager(client store.Client, opts ...Option) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("store client is required")
	}
	m := &Manager{
		client: client,
		logger: hclog.New(&hclog.LoggerOptions{
			Name: "subscription",
		}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Bind opens a live binding to one document. It returns immediately; when
// the store has not obtained the document yet, the binding's Snapshot
// reports absence and the first snapshot arrives through Updates once the
// store produces one.
func (m *Manager) Bind(id pushpinurl.DocumentID) (*Binding, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	b := &Binding{
		id:      id,
		client:  m.client,
		logger:  m.logger.With("id", id),
		updates: make(chan store.Snapshot, 1),
	}

	// Listener registration happens before the initial fetch so a change
	// landing in between cannot be missed; the monotonic guard in deliver
	// drops whichever of the two arrivals is stale.
	b.unsub = m.client.Subscribe(id, b.deliver)
	if snap, ok := m.client.Latest(id); ok {
		b.deliver(snap)
	}

	b.logger.Debug("bound")
	return b, nil
}

// Binding is one subscriber's live view of one document, alive from Bind to
// Close.
type Binding struct {
	id      pushpinurl.DocumentID
	client  store.Client
	logger  hclog.Logger
	unsub   store.UnsubscribeFunc
	updates chan store.Snapshot

	mu     sync.Mutex
	latest store.Snapshot
	has    bool
	closed bool
}

// ID identifies the bound document.
func (b *Binding) ID() pushpinurl.DocumentID {
	return b.id
}

// Snapshot returns the latest delivered snapshot, or false while the store
// has not obtained the document. Absence means "not yet loaded", not an
// error; a subsequent snapshot arrives asynchronously once the store gets
// the document.
func (b *Binding) Snapshot() (store.Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, b.has
}

// Updates delivers snapshots in strictly increasing version order. The
// single-slot channel coalesces: if the consumer lags, a newer snapshot
// replaces the undelivered one. A subscriber bound mid-stream receives the
// document's latest snapshot as its first delivery, never a replay of
// history. The channel closes when the binding does.
func (b *Binding) Updates() <-chan store.Snapshot {
	return b.updates
}

// Change submits an optimistic mutation to the store, fire-and-forget: it
// returns without waiting for merge or replication. A malformed mutator
// fails with store.ErrInvalidMutation and nothing is applied.
func (b *Binding) Change(m store.Mutator) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return b.client.Change(b.id, m)
}

// Close ends the binding. Idempotent; after the first call no further
// snapshots are delivered and the store listener is deregistered.
func (b *Binding) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.unsub()
	close(b.updates)
	b.logger.Debug("unbound")
	return nil
}

// deliver is the store listener. It enforces monotonic delivery: a version
// at or below the latest delivered one is discarded.
func (b *Binding) deliver(snap store.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	if b.has && snap.Version <= b.latest.Version {
		return
	}
	b.latest = snap
	b.has = true

	// Single-slot coalescing: drop the undelivered predecessor, then the
	// send below cannot block.
	select {
	case <-b.updates:
	default:
	}
	b.updates <- snap
}
