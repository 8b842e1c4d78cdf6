package content

import (
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Registry is the authoritative table of registered content types. It is
// populated during startup by each content-type module and read-mostly
// afterwards; replace-by-name is atomic under the registry lock.
type Registry struct {
	mu     sync.RWMutex
	logger hclog.Logger
	byName map[string]*entry
	// order preserves first-registration order for the MIME scan.
	// Replacing a descriptor keeps its original position so that
	// re-registration cannot silently change inference for overlapping
	// matchers.
	order []*entry
}

type entry struct {
	descriptor Descriptor
}

// RegistryOption is a functional option for creating a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		byName: make(map[string]*entry),
		logger: hclog.New(&hclog.LoggerOptions{
			Name: "content.registry",
		}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register inserts or replaces the descriptor under its name. Last write
// wins; at most one descriptor is registered per name at any time. A
// descriptor that fails validation is rejected with ErrInvalidDescriptor
// and the registry is left unchanged.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		r.logger.Warn("rejected type registration", "name", d.Name, "error", err)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[d.Name]; ok {
		existing.descriptor = d
		r.logger.Debug("replaced content type", "name", d.Name)
		return nil
	}

	e := &entry{descriptor: d}
	r.byName[d.Name] = e
	r.order = append(r.order, e)
	r.logger.Debug("registered content type", "name", d.Name, "contexts", len(d.Variants))
	return nil
}

// LookupByName returns the descriptor registered under name.
func (r *Registry) LookupByName(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return e.descriptor, true
}

// LookupByMIME scans descriptors in first-registration order and returns
// the first whose matcher accepts the MIME type. First registered wins on
// ambiguous overlap; that tie-break is part of the registry contract.
func (r *Registry) LookupByMIME(mimeType string) (Descriptor, bool) {
	if mimeType == "" {
		return Descriptor{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.order {
		if e.descriptor.MatchMIME == nil {
			continue
		}
		if e.descriptor.MatchMIME(mimeType) {
			return e.descriptor, true
		}
	}
	return Descriptor{}, false
}

// Names returns registered type names in first-registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.order))
	for _, e := range r.order {
		names = append(names, e.descriptor.Name)
	}
	return names
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// defaultRegistry is the process-wide table populated by content-type
// modules at startup. It lives for the process lifetime; there is no
// teardown.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register registers a descriptor with the process-wide registry.
func Register(d Descriptor) error {
	return defaultRegistry.Register(d)
}

// LookupByName looks up a descriptor by name in the process-wide registry.
func LookupByName(name string) (Descriptor, bool) {
	return defaultRegistry.LookupByName(name)
}

// LookupByMIME infers a descriptor from a MIME type using the process-wide
// registry.
func LookupByMIME(mimeType string) (Descriptor, bool) {
	return defaultRegistry.LookupByMIME(mimeType)
}
