// Package sqlite implements a document store persisted in a local SQLite
// database via GORM. It gives a single-node deployment durable documents
// while keeping the in-process listener fan-out of the memory adapter;
// cross-process change propagation belongs to the feed bridge, not to this
// adapter.
package sqlite

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pushpin-forge/pushpin/pkg/pushpinurl"
	"github.com/pushpin-forge/pushpin/pkg/store"
)

// DocumentRecord is the GORM model for one synchronized document. Fields
// are stored JSON-encoded; the resolution layer never queries inside them.
type DocumentRecord struct {
	ID        string `gorm:"primaryKey"`
	Version   uint64 `gorm:"not null"`
	MIMEType  string
	Fields    string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default pluralized name.
func (DocumentRecord) TableName() string {
	return "documents"
}

// Store is a SQLite-backed document store.
type Store struct {
	db     *gorm.DB
	logger hclog.Logger

	mu           sync.Mutex
	listeners    map[pushpinurl.DocumentID]map[int]store.ListenerFunc
	allListeners map[int]store.ListenerFunc
	nextToken    int
}

// Option is a functional option for creating a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	db, err := gorm.Open(sqlitedriver.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return New(db, opts...)
}

// New wraps an existing GORM connection and migrates the schema.
func New(db *gorm.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	s := &Store{
		db:           db,
		listeners:    make(map[pushpinurl.DocumentID]map[int]store.ListenerFunc),
		allListeners: make(map[int]store.ListenerFunc),
		logger: hclog.New(&hclog.LoggerOptions{
			Name: "store.sqlite",
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := db.AutoMigrate(&DocumentRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate document schema: %w", err)
	}
	return s, nil
}

// Create allocates a new document with a generated identity at version 1.
func (s *Store) Create(mimeType string, fields map[string]any) (pushpinurl.DocumentID, error) {
	id := pushpinurl.DocumentID(uuid.New().String())
	if err := s.CreateWithID(id, mimeType, fields); err != nil {
		return "", err
	}
	return id, nil
}

// CreateWithID creates a document under a caller-chosen identity.
func (s *Store) CreateWithID(id pushpinurl.DocumentID, mimeType string, fields map[string]any) error {
	if err := id.Validate(); err != nil {
		return err
	}
	encoded, err := encodeFields(fields)
	if err != nil {
		return err
	}

	record := DocumentRecord{
		ID:       id.String(),
		Version:  1,
		MIMEType: mimeType,
		Fields:   encoded,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to create document %s: %w", id, err)
	}

	s.logger.Debug("document created", "id", id, "mime_type", mimeType)
	s.notify(store.Snapshot{
		ID:       id,
		Version:  1,
		MIMEType: mimeType,
		Fields:   store.CloneFields(fields),
	})
	return nil
}

// Latest returns the current snapshot, or false when the document is not in
// the database.
func (s *Store) Latest(id pushpinurl.DocumentID) (store.Snapshot, bool) {
	var record DocumentRecord
	err := s.db.First(&record, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.Snapshot{}, false
	}
	if err != nil {
		s.logger.Error("failed to load document", "id", id, "error", err)
		return store.Snapshot{}, false
	}

	snap, err := recordToSnapshot(record)
	if err != nil {
		s.logger.Error("failed to decode document fields", "id", id, "error", err)
		return store.Snapshot{}, false
	}
	return snap, true
}

// Subscribe registers a listener for one document. The document does not
// need to exist yet.
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

// Change applies a mutation inside a transaction, bumping the version, and
// notifies in-process listeners with the new snapshot.
func (s *Store) Change(id pushpinurl.DocumentID, m store.Mutator) error {
	var snap store.Snapshot

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var record DocumentRecord
		if err := tx.First(&record, "id = ?", id.String()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("change %s: %w", id, store.ErrNotFound)
			}
			return fmt.Errorf("failed to load document %s: %w", id, err)
		}

		fields, err := decodeFields(record.Fields)
		if err != nil {
			return fmt.Errorf("failed to decode document %s: %w", id, err)
		}

		next, err := store.ApplyMutator(fields, m)
		if err != nil {
			return err
		}

		encoded, err := encodeFields(next)
		if err != nil {
			return err
		}

		record.Version++
		record.Fields = encoded
		if err := tx.Save(&record).Error; err != nil {
			return fmt.Errorf("failed to save document %s: %w", id, err)
		}

		snap = store.Snapshot{
			ID:       id,
			Version:  record.Version,
			MIMEType: record.MIMEType,
			Fields:   next,
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("document changed", "id", id, "version", snap.Version)
	s.notify(snap)
	return nil
}

func (s *Store) notify(snap store.Snapshot) {
	s.mu.Lock()
	var targets []store.ListenerFunc
	for _, fn := range s.listeners[snap.ID] {
		targets = append(targets, fn)
	}
	for _, fn := range s.allListeners {
		targets = append(targets, fn)
	}
	s.mu.Unlock()

	for _, fn := range targets {
		fn(snap)
	}
}

func encodeFields(fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode document fields: %w", err)
	}
	return string(data), nil
}

func decodeFields(encoded string) (map[string]any, error) {
	if encoded == "" {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(encoded), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func recordToSnapshot(record DocumentRecord) (store.Snapshot, error) {
	fields, err := decodeFields(record.Fields)
	if err != nil {
		return store.Snapshot{}, err
	}
	return store.Snapshot{
		ID:       pushpinurl.DocumentID(record.ID),
		Version:  record.Version,
		MIMEType: record.MIMEType,
		Fields:   fields,
	}, nil
}

var (
	_ store.Client        = (*Store)(nil)
	_ store.AllSubscriber = (*Store)(nil)
)
