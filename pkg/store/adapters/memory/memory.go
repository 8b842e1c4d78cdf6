// Package memory implements an in-process document store. It backs tests
// and single-process deployments; documents live only as long as the
// process does.
package memory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/pushpin-forge/pushpin/pkg/pushpinurl"
	"github.com/pushpin-forge/pushpin/pkg/store"
)

// Store is a map-backed document store with per-document and store-wide
// listener fan-out. Safe for concurrent use.
type Store struct {
	mu           sync.Mutex
	logger       hclog.Logger
	documents    map[pushpinurl.DocumentID]*document
	listeners    map[pushpinurl.DocumentID]map[int]store.ListenerFunc
	allListeners map[int]store.ListenerFunc
	nextToken    int
}

type document struct {
	version  uint64
	mimeType string
	fields   map[string]any
}

// Option is a functional option for creating a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		documents:    make(map[pushpinurl.DocumentID]*document),
		listeners:    make(map[pushpinurl.DocumentID]map[int]store.ListenerFunc),
		allListeners: make(map[int]store.ListenerFunc),
		logger: hclog.New(&hclog.LoggerOptions{
			Name: "store.memory",
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates a new document with a generated identity at version 1.
func (s *Store) Create(mimeType string, fields map[string]any) (pushpinurl.DocumentID, error) {
	id := pushpinurl.DocumentID(uuid.New().String())
	if err := s.CreateWithID(id, mimeType, fields); err != nil {
		return "", err
	}
	return id, nil
}

// CreateWithID creates a document under a caller-chosen identity. Used when
// replaying documents that already have an identity (sync arrival, tests).
func (s *Store) CreateWithID(id pushpinurl.DocumentID, mimeType string, fields map[string]any) error {
	if err := id.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if _, exists := s.documents[id]; exists {
		s.mu.Unlock()
		return fmt.Errorf("document %s already exists", id)
	}
	doc := &document{
		version:  1,
		mimeType: mimeType,
		fields:   store.CloneFields(fields),
	}
	s.documents[id] = doc
	snap := s.snapshotLocked(id, doc)
	targets := s.listenersLocked(id)
	s.mu.Unlock()

	s.logger.Debug("document created", "id", id, "mime_type", mimeType)
	s.notify(snap, targets)
	return nil
}

// Latest returns the current snapshot, or false when the document has not
// arrived yet.
func (s *Store) Latest(id pushpinurl.DocumentID) (store.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return store.Snapshot{}, false
	}
	return s.snapshotLocked(id, doc), true
}

// Subscribe registers a listener for one document. The document does not
// need to exist yet; the listener fires once it arrives.
func (s *Store) Subscribe(id pushpinurl.DocumentID, fn store.ListenerFunc) store.UnsubscribeFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.nextToken
	s.nextToken++
	if s.listeners[id] == nil {
		s.listeners[id] = make(map[int]store.ListenerFunc)
	}
	s.listeners[id][token] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if m, ok := s.listeners[id]; ok {
			delete(m, token)
			if len(m) == 0 {
				delete(s.listeners, id)
			}
		}
	}
}

// SubscribeAll registers a store-wide listener covering every document.
func (s *Store) SubscribeAll(fn store.ListenerFunc) store.UnsubscribeFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.nextToken
	s.nextToken++
	s.allListeners[token] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.allListeners, token)
	}
}

// Change applies a mutation and notifies listeners with the new snapshot.
// The mutation is validated against a copy first; a malformed mutator
// leaves the document untouched.
func (s *Store) Change(id pushpinurl.DocumentID, m store.Mutator) error {
	s.mu.Lock()
	doc, ok := s.documents[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("change %s: %w", id, store.ErrNotFound)
	}

	next, err := store.ApplyMutator(doc.fields, m)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	doc.fields = next
	doc.version++
	snap := s.snapshotLocked(id, doc)
	targets := s.listenersLocked(id)
	s.mu.Unlock()

	s.logger.Debug("document changed", "id", id, "version", snap.Version)
	s.notify(snap, targets)
	return nil
}

// Len returns the number of documents held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.documents)
}

func (s *Store) snapshotLocked(id pushpinurl.DocumentID, doc *document) store.Snapshot {
	return store.Snapshot{
		ID:       id,
		Version:  doc.version,
		MIMEType: doc.mimeType,
		Fields:   store.CloneFields(doc.fields),
	}
}

// listenersLocked snapshots the listener set so delivery happens outside
// the store lock.
func (s *Store) listenersLocked(id pushpinurl.DocumentID) []store.ListenerFunc {
	var targets []store.ListenerFunc
	for _, fn := range s.listeners[id] {
		targets = append(targets, fn)
	}
	for _, fn := range s.allListeners {
		targets = append(targets, fn)
	}
	return targets
}

func (s *Store) notify(snap store.Snapshot, targets []store.ListenerFunc) {
	for _, fn := range targets {
		fn(snap)
	}
}

var (
	_ store.Client        = (*Store)(nil)
	_ store.AllSubscriber = (*Store)(nil)
)
