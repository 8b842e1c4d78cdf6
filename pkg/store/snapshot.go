package store

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/pushpin-forge/pushpin/pkg/pushpinurl"
)

// Snapshot is an immutable, versioned view of one document's fields at a
// point in time. Versions are monotonic per document: a snapshot with a
// higher version strictly supersedes every lower-versioned snapshot of the
// same document.
//
// MIMEType is the only field the resolution layer interprets; everything in
// Fields belongs to renderers.
type Snapshot struct {
	// ID identifies the document this snapshot belongs to.
	ID pushpinurl.DocumentID

	// Version is the document's monotonic change counter, starting at 1.
	Version uint64

	// MIMEType is the content-derived MIME type, if the store knows one.
	MIMEType string

	// Fields holds the document's type-specific data. Treat as read-only;
	// adapters hand out defensive copies.
	Fields map[string]any
}

// IsZero returns true for the zero Snapshot.
func (s Snapshot) IsZero() bool {
	return s.ID.IsZero() && s.Version == 0
}

// Field returns one named field and whether it was present.
func (s Snapshot) Field(name string) (any, bool) {
	v, ok := s.Fields[name]
	return v, ok
}

// StringField returns a field as a string, or empty string when the field
// is absent or not a string.
func (s Snapshot) StringField(name string) string {
	if v, ok := s.Fields[name]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// Decode maps the snapshot's fields onto a typed struct using json tags.
func (s Snapshot) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return fmt.Errorf("failed to build field decoder: %w", err)
	}
	if err := dec.Decode(s.Fields); err != nil {
		return fmt.Errorf("failed to decode snapshot fields: %w", err)
	}
	return nil
}

// CloneFields deep-copies a field map so snapshots stay immutable after
// delivery. Nested maps and slices are copied; scalar values are shared.
func CloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneFields(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
