// Package contenttypes ships the built-in content-type modules: text,
// image, audio, contact, and a generic fallback.
//
// Each module is a plain Descriptor plus concrete renderers; RegisterAll
// installs the whole set into a registry during startup. Registration order
// inside RegisterAll is the tie-break order for MIME inference when
// matchers overlap.
package contenttypes
