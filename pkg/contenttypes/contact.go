package contenttypes

import (
	"sync"

	"github.com/pushpin-forge/pushpin/pkg/content"
	"github.com/pushpin-forge/pushpin/pkg/pushpinurl"
	"github.com/pushpin-forge/pushpin/pkg/store"
)

// TypeContact is the registry name of the contact content type.
const TypeContact = "contact"

// Contact document fields.
const (
	fieldName        = "name"
	fieldColor       = "color"
	fieldAvatarDocID = "avatarDocId"
)

// DefaultAvatarURL is the blob reference rendered when a contact has no
// avatar document. It addresses the empty payload, which every blob store
// can serve, so avatar resolution always yields something renderable.
const DefaultAvatarURL = "hyperfile://e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// Contact returns the contact content-type descriptor. Contacts are
// created explicitly, never inferred from MIME, so the descriptor has no
// matcher.
func Contact() content.Descriptor {
	factory := func(doc content.Document, bind content.BindFunc) (content.Renderer, error) {
		return &ContactRenderer{doc: doc, bind: bind}, nil
	}
	return content.Descriptor{
		Name: TypeContact,
		Variants: map[content.Context]content.RendererFactory{
			content.ContextWorkspace: factory,
			content.ContextBoard:     factory,
			content.ContextList:      factory,
			content.ContextBadge:     factory,
		},
		Sizing: content.Sizing{
			MinWidth:      60,
			MinHeight:     60,
			DefaultWidth:  120,
			DefaultHeight: 120,
			MaxWidth:      240,
			MaxHeight:     240,
		},
	}
}

// ContactRenderer renders a contact document. The avatar is a
// cross-document reference: once the avatar document's id is known from a
// contact snapshot, the renderer binds to it independently of the contact
// binding.
type ContactRenderer struct {
	doc  content.Document
	bind content.BindFunc

	mu       sync.Mutex
	avatarID pushpinurl.DocumentID
	avatar   content.Document
}

// Name returns the contact's display name.
func (r *ContactRenderer) Name() string {
	snap, ok := r.doc.Snapshot()
	if !ok {
		return ""
	}
	return snap.StringField(fieldName)
}

// Color returns the contact's presence color.
func (r *ContactRenderer) Color() string {
	snap, ok := r.doc.Snapshot()
	if !ok {
		return ""
	}
	return snap.StringField(fieldColor)
}

// AvatarURL returns the blob reference for the contact's avatar. When the
// contact references no avatar document, or the referenced document has not
// arrived yet, it falls back to DefaultAvatarURL rather than failing.
func (r *ContactRenderer) AvatarURL() string {
	avatar := r.avatarDoc()
	if avatar == nil {
		return DefaultAvatarURL
	}
	snap, ok := avatar.Snapshot()
	if !ok {
		return DefaultAvatarURL
	}
	if url := snap.StringField(fieldHyperfileURL); url != "" {
		return url
	}
	return DefaultAvatarURL
}

// avatarDoc returns the live binding to the referenced avatar document,
// establishing or re-pointing it lazily as the reference becomes known or
// changes across contact snapshots.
func (r *ContactRenderer) avatarDoc() content.Document {
	snap, ok := r.doc.Snapshot()
	if !ok {
		return nil
	}
	refID := pushpinurl.DocumentID(snap.StringField(fieldAvatarDocID))

	r.mu.Lock()
	defer r.mu.Unlock()

	if refID.IsZero() {
		return nil
	}
	if r.avatar != nil && r.avatarID == refID {
		return r.avatar
	}
	if r.avatar != nil {
		_ = r.avatar.Close()
		r.avatar = nil
	}

	avatar, err := r.bind(refID)
	if err != nil {
		return nil
	}
	r.avatarID = refID
	r.avatar = avatar
	return avatar
}

// Close releases the avatar binding, if any. Idempotent.
func (r *ContactRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.avatar != nil {
		err := r.avatar.Close()
		r.avatar = nil
		return err
	}
	return nil
}

// SetAvatar is a mutator pointing a contact at an avatar document.
func SetAvatar(id pushpinurl.DocumentID) store.Mutator {
	return func(fields map[string]any) error {
		if err := id.Validate(); err != nil {
			return err
		}
		fields[fieldAvatarDocID] = id.String()
		return nil
	}
}

// SetName is a mutator replacing a contact's display name.
func SetName(name string) store.Mutator {
	return func(fields map[string]any) error {
		fields[fieldName] = name
		return nil
	}
}
