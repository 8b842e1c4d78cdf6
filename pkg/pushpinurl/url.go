package pushpinurl

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Scheme is the URL scheme shared by every document address.
const Scheme = "pushpin"

// prefix is the literal every well-formed address starts with.
const prefix = Scheme + "://"

// ErrInvalidURL is returned when an address string cannot be decoded.
// It is fatal to the single Parse call and is never retried by this layer.
var ErrInvalidURL = errors.New("invalid pushpin url")

// DocumentID is an opaque, globally unique identifier for one synchronized
// document. IDs are produced by the document store and never fabricated by
// this layer; the only structural constraints are that an ID is non-empty
// and contains no path separator, so it occupies exactly one URL segment.
type DocumentID string

// String returns the string form of the ID.
func (id DocumentID) String() string {
	return string(id)
}

// IsZero returns true if the ID is unset.
func (id DocumentID) IsZero() bool {
	return id == ""
}

// Validate checks that the ID can occupy a URL segment.
func (id DocumentID) Validate() error {
	if id == "" {
		return fmt.Errorf("%w: empty document id", ErrInvalidURL)
	}
	if err := validateSegment(string(id)); err != nil {
		return fmt.Errorf("%w: document id %q: %v", ErrInvalidURL, id, err)
	}
	return nil
}

// Url is a decoded pushpin address: an optional declared type, the document
// identity, and any extra path segments. Two Urls are equal iff their
// decoded tuples are equal. The zero Url is not a valid address.
type Url struct {
	docType  string
	id       DocumentID
	segments []string
}

// Create builds a Url from its parts. docType may be empty to indicate
// "infer from content". Create is pure and fails only when the document ID
// or a segment is not syntactically valid.
func Create(docType string, id DocumentID, segments ...string) (Url, error) {
	if err := id.Validate(); err != nil {
		return Url{}, err
	}
	if docType != "" {
		if err := validateSegment(docType); err != nil {
			return Url{}, fmt.Errorf("%w: type %q: %v", ErrInvalidURL, docType, err)
		}
	}
	for _, seg := range segments {
		if seg == "" {
			return Url{}, fmt.Errorf("%w: empty path segment", ErrInvalidURL)
		}
		if err := validateSegment(seg); err != nil {
			return Url{}, fmt.Errorf("%w: segment %q: %v", ErrInvalidURL, seg, err)
		}
	}
	return Url{
		docType:  docType,
		id:       id,
		segments: append([]string(nil), segments...),
	}, nil
}

// Parse decodes an address string. It fails with ErrInvalidURL when the
// scheme prefix is absent, the document ID segment is empty, or the string
// is otherwise malformed. Leading and trailing whitespace is trimmed; no
// other normalization is performed.
func Parse(s string) (Url, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Url{}, fmt.Errorf("%w: empty string", ErrInvalidURL)
	}
	if !strings.HasPrefix(s, prefix) {
		return Url{}, fmt.Errorf("%w: missing %s prefix: %s", ErrInvalidURL, prefix, s)
	}

	rest := strings.TrimPrefix(s, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) < 2 {
		return Url{}, fmt.Errorf("%w: missing document id segment: %s", ErrInvalidURL, s)
	}

	docType := parts[0]
	id := DocumentID(parts[1])
	segments := parts[2:]

	for _, seg := range segments {
		if seg == "" {
			return Url{}, fmt.Errorf("%w: empty path segment: %s", ErrInvalidURL, s)
		}
	}

	return Create(docType, id, segments...)
}

// Type returns the declared content type, or empty string when the type is
// to be inferred from the document's content.
func (u Url) Type() string {
	return u.docType
}

// HasType returns true if the address declares a content type.
func (u Url) HasType() bool {
	return u.docType != ""
}

// ID returns the document identity.
func (u Url) ID() DocumentID {
	return u.id
}

// Segments returns a copy of the extra path segments, in order.
func (u Url) Segments() []string {
	if len(u.segments) == 0 {
		return nil
	}
	return append([]string(nil), u.segments...)
}

// IsZero returns true for the zero Url.
func (u Url) IsZero() bool {
	return u.docType == "" && u.id.IsZero() && len(u.segments) == 0
}

// Equal returns true if two Urls decode to the same tuple.
func (u Url) Equal(other Url) bool {
	if u.docType != other.docType || u.id != other.id {
		return false
	}
	if len(u.segments) != len(other.segments) {
		return false
	}
	for i := range u.segments {
		if u.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// String encodes the address in its canonical wire form:
// "pushpin://type/documentId[/segment]*". The type segment is empty when
// the type is inferred. Parse(u.String()) round-trips every well-formed u.
func (u Url) String() string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(u.docType)
	b.WriteByte('/')
	b.WriteString(string(u.id))
	for _, seg := range u.segments {
		b.WriteByte('/')
		b.WriteString(seg)
	}
	return b.String()
}

// MarshalJSON encodes the Url as its string form. Documents reference one
// another by URL inside stored fields, so the JSON form matches the wire
// form exactly.
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

// validateSegment rejects strings that cannot occupy a single URL segment.
func validateSegment(s string) error {
	if strings.ContainsAny(s, "/ \t\r\n") {
		return errors.New("contains separator or whitespace")
	}
	return nil
}
