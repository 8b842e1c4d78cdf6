package content

import (
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrInvalidDescriptor is returned when a descriptor cannot be registered:
// no usable context variant, a malformed name, or inconsistent sizing.
// Registration failures are logged and rejected; they never crash the
// process.
var ErrInvalidDescriptor = errors.New("invalid type descriptor")

// typeNameRe constrains type names to URL-segment-safe lowercase tokens,
// since a declared type travels inside a pushpin URL.
var typeNameRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Sizing holds the static layout bounds a renderer declares for the
// window-chrome collaborator. The resolution layer passes them through
// without interpretation. Max bounds of 0 mean unbounded.
type Sizing struct {
	MinWidth      int
	MinHeight     int
	DefaultWidth  int
	DefaultHeight int
	MaxWidth      int
	MaxHeight     int
}

// Validate checks internal consistency of the sizing bounds.
func (s Sizing) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.MinWidth, validation.Required, validation.Min(1)),
		validation.Field(&s.MinHeight, validation.Required, validation.Min(1)),
		validation.Field(&s.DefaultWidth, validation.Required, validation.Min(s.MinWidth)),
		validation.Field(&s.DefaultHeight, validation.Required, validation.Min(s.MinHeight)),
		validation.Field(&s.MaxWidth, validation.When(s.MaxWidth != 0, validation.Min(s.DefaultWidth))),
		validation.Field(&s.MaxHeight, validation.When(s.MaxHeight != 0, validation.Min(s.DefaultHeight))),
	)
}

// Descriptor is the registration record for one content type: how to render
// it per mount context, how to recognize it from a MIME type, and how to
// size it. Descriptors are data records, not subclasses; the open-ended set
// of types lives entirely in the registry table.
type Descriptor struct {
	// Name is the unique registry key and the token that appears in the
	// type segment of a pushpin URL.
	Name string

	// Variants maps each supported mount context to the factory that
	// builds the renderer for it. At least one variant is required.
	Variants map[Context]RendererFactory

	// MatchMIME reports whether a content-derived MIME type belongs to
	// this type. Optional; types without a matcher are never inferred,
	// only addressed by declared name.
	MatchMIME func(mimeType string) bool

	// Sizing is the static layout metadata passed through to the layout
	// collaborator.
	Sizing Sizing
}

// Validate checks that the descriptor is registrable.
func (d Descriptor) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Match(typeNameRe)),
		validation.Field(&d.Variants, validation.Required, validation.Length(1, 0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}

	for ctx, factory := range d.Variants {
		if !ctx.IsValid() {
			return fmt.Errorf("%w: unknown context %q", ErrInvalidDescriptor, ctx)
		}
		if factory == nil {
			return fmt.Errorf("%w: nil factory for context %q", ErrInvalidDescriptor, ctx)
		}
	}

	if err := d.Sizing.Validate(); err != nil {
		return fmt.Errorf("%w: sizing: %v", ErrInvalidDescriptor, err)
	}
	return nil
}

// SupportsContext returns true if the descriptor has a variant for the
// given mount context.
func (d Descriptor) SupportsContext(ctx Context) bool {
	_, ok := d.Variants[ctx]
	return ok
}

// Contexts returns the supported mount contexts in canonical enum order.
func (d Descriptor) Contexts() []Context {
	var out []Context
	for _, ctx := range ValidContexts() {
		if d.SupportsContext(ctx) {
			out = append(out, ctx)
		}
	}
	return out
}
