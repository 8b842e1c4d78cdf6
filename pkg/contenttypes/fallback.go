package contenttypes

import (
	"github.com/pushpin-forge/pushpin/pkg/content"
)

// TypeFallback is the registry name of the generic placeholder type.
// Callers mount it when resolution yields UnknownType: it renders in every
// context and interprets nothing beyond the document's MIME type.
const TypeFallback = "fallback"

// Fallback returns the placeholder content-type descriptor. It has no MIME
// matcher so it can never win inference over a real type; it is only
// mounted by explicit name.
func Fallback() content.Descriptor {
	factory := func(doc content.Document, bind content.BindFunc) (content.Renderer, error) {
		return &FallbackRenderer{doc: doc}, nil
	}
	variants := make(map[content.Context]content.RendererFactory)
	for _, ctx := range content.ValidContexts() {
		variants[ctx] = factory
	}
	return content.Descriptor{
		Name:     TypeFallback,
		Variants: variants,
		Sizing: content.Sizing{
			MinWidth:      80,
			MinHeight:     60,
			DefaultWidth:  200,
			DefaultHeight: 160,
		},
	}
}

// FallbackRenderer is a blank placeholder for unrenderable documents.
type FallbackRenderer struct {
	doc content.Document
}

// MIMEType reports the document's MIME type so the placeholder can label
// what it cannot render, or empty string while no snapshot exists.
func (r *FallbackRenderer) MIMEType() string {
	snap, ok := r.doc.Snapshot()
	if !ok {
		return ""
	}
	return snap.MIMEType
}

// Close releases the renderer.
func (r *FallbackRenderer) Close() error {
	return nil
}
