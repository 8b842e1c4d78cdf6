// Package content implements the capability-based type registry: the table
// that maps a content type name, or an inferred MIME pattern, to renderer
// variants and sizing constraints.
//
// Each content-type module builds a Descriptor and registers it during
// startup. Registration is idempotent per name (last write wins) and a
// descriptor must support at least one mount context. MIME inference is a
// deliberate first-match-wins linear scan in registration order; overlap
// between matchers is resolved by whichever type registered first, and that
// ordering is a documented, tested property of the registry.
package content
