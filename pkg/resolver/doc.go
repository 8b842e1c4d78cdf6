// Package resolver maps a pushpin URL plus a mount context to a concrete
// renderer instance.
//
// Resolution decodes the URL, determines the effective content type
// (declared in the URL, or inferred from the document's own MIME type once
// a snapshot exists), selects the context-appropriate renderer variant from
// the registry, and instantiates it bound to the live document through the
// subscription manager.
//
// Unresolvable cases are recoverable outcomes the caller branches on, not
// errors: Pending while type inference waits for a first snapshot,
// UnknownType when no descriptor claims the type, UnsupportedContext when
// the type has no variant for the requested placement. Only a malformed URL
// is an error.
//
// Resolution is deterministic (the same URL, context, and registry state
// always select the same variant) and happens once per Resolve call: an
// already-mounted renderer is never re-resolved behind the caller's back.
package resolver
