// Package hyperfile addresses binary payloads (audio clips, avatars) by
// content hash.
//
// A hyperfile URL is an opaque reference of the form
// "hyperfile://<sha256-hex>". The resolution layer never interprets the
// referenced bytes; it only passes the string through to renderers. Store
// is a content-addressed blob store over an afero filesystem, so tests run
// against an in-memory fs and production against the OS fs.
package hyperfile

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// Scheme is the URL scheme for blob references.
const Scheme = "hyperfile"

const prefix = Scheme + "://"

var (
	// ErrInvalidURL is returned when a blob reference cannot be decoded.
	ErrInvalidURL = errors.New("invalid hyperfile url")

	// ErrNotFound is returned when the referenced blob is not in the
	// store.
	ErrNotFound = errors.New("blob not found")
)

// Url is a decoded blob reference: the sha256 hash of the payload, hex
// encoded.
type Url struct {
	hash string
}

// Create builds a Url from a hex-encoded sha256 hash.
func Create(hash string) (Url, error) {
	hash = strings.ToLower(hash)
	if len(hash) != sha256.Size*2 {
		return Url{}, fmt.Errorf("%w: hash must be %d hex characters", ErrInvalidURL, sha256.Size*2)
	}
	if _, err := hex.DecodeString(hash); err != nil {
		return Url{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return Url{hash: hash}, nil
}

// Parse decodes a blob reference string.
func Parse(s string) (Url, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, prefix) {
		return Url{}, fmt.Errorf("%w: missing %s prefix: %s", ErrInvalidURL, prefix, s)
	}
	return Create(strings.TrimPrefix(s, prefix))
}

// Hash returns the hex-encoded content hash.
func (u Url) Hash() string {
	return u.hash
}

// IsZero returns true for the zero Url.
func (u Url) IsZero() bool {
	return u.hash == ""
}

// Equal returns true if two references address the same content.
func (u Url) Equal(other Url) bool {
	return u.hash == other.hash
}

// String returns the canonical wire form "hyperfile://<hash>".
func (u Url) String() string {
	return prefix + u.hash
}

// MarshalJSON encodes the Url as its string form.
func (u Url) MarshalJSON() ([]byte, error) {
	if u.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(u.String())
}

// UnmarshalJSON decodes a Url from its string form.
func (u *Url) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Store is a content-addressed blob store. Blobs are laid out as
// {dir}/{hash[:2]}/{hash} so one directory never accumulates every blob.
type Store struct {
	fs     afero.Fs
	dir    string
	logger hclog.Logger
}

// StoreOption is a functional option for creating a Store.
type StoreOption func(*Store)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a blob store rooted at dir on the given filesystem.
func NewStore(fs afero.Fs, dir string, opts ...StoreOption) (*Store, error) {
	if fs == nil {
		return nil, fmt.Errorf("filesystem is required")
	}
	if dir == "" {
		return nil, fmt.Errorf("blob directory is required")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	s := &Store{
		fs:  fs,
		dir: dir,
		logger: hclog.New(&hclog.LoggerOptions{
			Name: "hyperfile",
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Write stores a payload and returns its content-addressed reference.
// Writing the same bytes twice yields the same Url and touches the
// filesystem only once.
func (s *Store) Write(data []byte) (Url, error) {
	sum := sha256.Sum256(data)
	u := Url{hash: hex.EncodeToString(sum[:])}

	p := s.path(u)
	if exists, err := afero.Exists(s.fs, p); err != nil {
		return Url{}, fmt.Errorf("failed to probe blob %s: %w", u.hash, err)
	} else if exists {
		return u, nil
	}

	if err := s.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return Url{}, fmt.Errorf("failed to create blob shard: %w", err)
	}
	if err := afero.WriteFile(s.fs, p, data, 0o644); err != nil {
		return Url{}, fmt.Errorf("failed to write blob %s: %w", u.hash, err)
	}

	s.logger.Debug("blob stored", "hash", u.hash, "bytes", len(data))
	return u, nil
}

// Read returns the payload a reference addresses.
func (s *Store) Read(u Url) ([]byte, error) {
	if u.IsZero() {
		return nil, fmt.Errorf("%w: zero url", ErrInvalidURL)
	}
	data, err := afero.ReadFile(s.fs, s.path(u))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("blob %s: %w", u.hash, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", u.hash, err)
	}
	return data, nil
}

// Exists reports whether the referenced blob is in the store.
func (s *Store) Exists(u Url) (bool, error) {
	if u.IsZero() {
		return false, fmt.Errorf("%w: zero url", ErrInvalidURL)
	}
	return afero.Exists(s.fs, s.path(u))
}

func (s *Store) path(u Url) string {
	return path.Join(s.dir, u.hash[:2], u.hash)
}
