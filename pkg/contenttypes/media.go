package contenttypes

import (
	"strings"

	"github.com/pushpin-forge/pushpin/pkg/content"
)

// TypeImage and TypeAudio are the registry names of the binary media
// content types. Both render an opaque hyperfile reference; the bytes
// behind it belong to the blob store and are never interpreted here.
const (
	TypeImage = "image"
	TypeAudio = "audio"
)

// fieldHyperfileURL is the document field carrying the blob reference.
const fieldHyperfileURL = "hyperfileUrl"

// Image returns the image content-type descriptor.
func Image() content.Descriptor {
	factory := func(doc content.Document, bind content.BindFunc) (content.Renderer, error) {
		return &MediaRenderer{doc: doc}, nil
	}
	return content.Descriptor{
		Name: TypeImage,
		Variants: map[content.Context]content.RendererFactory{
			content.ContextWorkspace: factory,
			content.ContextBoard:     factory,
			content.ContextList:      factory,
		},
		MatchMIME: func(mimeType string) bool {
			return strings.HasPrefix(mimeType, "image/")
		},
		Sizing: content.Sizing{
			MinWidth:      100,
			MinHeight:     100,
			DefaultWidth:  300,
			DefaultHeight: 300,
		},
	}
}

// Audio returns the audio content-type descriptor.
func Audio() content.Descriptor {
	factory := func(doc content.Document, bind content.BindFunc) (content.Renderer, error) {
		return &MediaRenderer{doc: doc}, nil
	}
	return content.Descriptor{
		Name: TypeAudio,
		Variants: map[content.Context]content.RendererFactory{
			content.ContextWorkspace: factory,
			content.ContextBoard:     factory,
		},
		MatchMIME: func(mimeType string) bool {
			return strings.HasPrefix(mimeType, "audio/")
		},
		Sizing: content.Sizing{
			MinWidth:      200,
			MinHeight:     60,
			DefaultWidth:  420,
			DefaultHeight: 80,
			MaxHeight:     120,
		},
	}
}

// MediaRenderer renders a document whose payload lives in the blob store.
type MediaRenderer struct {
	doc content.Document
}

// HyperfileURL returns the opaque blob reference from the current
// snapshot, or empty string while the document has no snapshot or carries
// no payload yet.
func (r *MediaRenderer) HyperfileURL() string {
	snap, ok := r.doc.Snapshot()
	if !ok {
		return ""
	}
	return snap.StringField(fieldHyperfileURL)
}

// Close releases the renderer.
func (r *MediaRenderer) Close() error {
	return nil
}
