package contenttypes

import (
	"strings"

	"github.com/pushpin-forge/pushpin/pkg/content"
	"github.com/pushpin-forge/pushpin/pkg/store"
)

// TypeText is the registry name of the text content type.
const TypeText = "text"

// fieldText is the document field holding the text body.
const fieldText = "text"

// Text returns the text content-type descriptor.
func Text() content.Descriptor {
	factory := func(doc content.Document, bind content.BindFunc) (content.Renderer, error) {
		return &TextRenderer{doc: doc}, nil
	}
	return content.Descriptor{
		Name: TypeText,
		Variants: map[content.Context]content.RendererFactory{
			content.ContextWorkspace: factory,
			content.ContextBoard:     factory,
			content.ContextList:      factory,
		},
		MatchMIME: func(mimeType string) bool {
			return strings.HasPrefix(mimeType, "text/")
		},
		Sizing: content.Sizing{
			MinWidth:      120,
			MinHeight:     80,
			DefaultWidth:  320,
			DefaultHeight: 240,
		},
	}
}

// TextRenderer renders a collaborative text document.
type TextRenderer struct {
	doc content.Document
}

// Content returns the current text body, or empty string while the
// document has no snapshot.
func (r *TextRenderer) Content() string {
	snap, ok := r.doc.Snapshot()
	if !ok {
		return ""
	}
	return snap.StringField(fieldText)
}

// SetContent submits a mutation replacing the text body.
func (r *TextRenderer) SetContent(text string) error {
	return r.doc.Change(SetText(text))
}

// Close releases the renderer. The primary binding belongs to the handle
// that mounted it.
func (r *TextRenderer) Close() error {
	return nil
}

// SetText is a mutator replacing the text body of a document.
func SetText(text string) store.Mutator {
	return func(fields map[string]any) error {
		fields[fieldText] = text
		return nil
	}
}
