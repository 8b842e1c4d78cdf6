package contenttypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushpin-forge/pushpin/pkg/content"
	"github.com/pushpin-forge/pushpin/pkg/pushpinurl"
	"github.com/pushpin-forge/pushpin/pkg/store/adapters/memory"
	"github.com/pushpin-forge/pushpin/pkg/subscription"
)

func newBound(t *testing.T, s *memory.Store, id pushpinurl.DocumentID) (content.Document, content.BindFunc) {
	t.Helper()
	m, err := subscription.NewManager(s)
	require.NoError(t, err)

	b, err := m.Bind(id)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	bind := func(id pushpinurl.DocumentID) (content.Document, error) {
		bound, err := m.Bind(id)
		if err != nil {
			return nil, err
		}
		return bound, nil
	}
	return b, bind
}

func TestRegisterAll(t *testing.T) {
	r := content.NewRegistry()
	require.NoError(t, RegisterAll(r))

	assert.Equal(t, []string{TypeText, TypeImage, TypeAudio, TypeContact, TypeFallback}, r.Names())

	t.Run("mime inference", func(t *testing.T) {
		d, ok := r.LookupByMIME("audio/mp3")
		require.True(t, ok)
		assert.Equal(t, TypeAudio, d.Name)

		d, ok = r.LookupByMIME("image/png")
		require.True(t, ok)
		assert.Equal(t, TypeImage, d.Name)

		d, ok = r.LookupByMIME("text/markdown")
		require.True(t, ok)
		assert.Equal(t, TypeText, d.Name)

		_, ok = r.LookupByMIME("application/octet-stream")
		assert.False(t, ok)
	})

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, RegisterAll(r))
		assert.Equal(t, 5, r.Len())
	})
}

func TestTextRenderer(t *testing.T) {
	s := memory.New()
	require.NoError(t, s.CreateWithID("doc1", "text/plain", map[string]any{"text": "hello"}))
	doc, bind := newBound(t, s, "doc1")

	renderer, err := Text().Variants[content.ContextWorkspace](doc, bind)
	require.NoError(t, err)
	text := renderer.(*TextRenderer)
	defer text.Close()

	assert.Equal(t, "hello", text.Content())

	require.NoError(t, text.SetContent("edited"))
	assert.Equal(t, "edited", text.Content())
}

func TestMediaRenderer(t *testing.T) {
	t.Run("exposes the blob reference", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, s.CreateWithID("doc1", "audio/mp3",
			map[string]any{"hyperfileUrl": "hyperfile://abc"}))
		doc, bind := newBound(t, s, "doc1")

		renderer, err := Audio().Variants[content.ContextWorkspace](doc, bind)
		require.NoError(t, err)
		media := renderer.(*MediaRenderer)
		defer media.Close()

		assert.Equal(t, "hyperfile://abc", media.HyperfileURL())
	})

	t.Run("no snapshot yet", func(t *testing.T) {
		s := memory.New()
		doc, bind := newBound(t, s, "doc1")

		renderer, err := Audio().Variants[content.ContextWorkspace](doc, bind)
		require.NoError(t, err)
		media := renderer.(*MediaRenderer)
		defer media.Close()

		assert.Equal(t, "", media.HyperfileURL())
	})
}

func TestContactRenderer(t *testing.T) {
	t.Run("renders name and color", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, s.CreateWithID("contact1", "",
			map[string]any{"name": "Ada", "color": "#ff0088"}))
		doc, bind := newBound(t, s, "contact1")

		renderer, err := Contact().Variants[content.ContextBadge](doc, bind)
		require.NoError(t, err)
		contact := renderer.(*ContactRenderer)
		defer contact.Close()

		assert.Equal(t, "Ada", contact.Name())
		assert.Equal(t, "#ff0088", contact.Color())
	})

	t.Run("avatar resolved through a cross-document binding", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, s.CreateWithID("avatar1", "image/png",
			map[string]any{"hyperfileUrl": "hyperfile://abc"}))
		require.NoError(t, s.CreateWithID("contact1", "",
			map[string]any{"name": "Ada", "avatarDocId": "avatar1"}))
		doc, bind := newBound(t, s, "contact1")

		renderer, err := Contact().Variants[content.ContextWorkspace](doc, bind)
		require.NoError(t, err)
		contact := renderer.(*ContactRenderer)
		defer contact.Close()

		assert.Equal(t, "hyperfile://abc", contact.AvatarURL())
	})

	t.Run("absent avatar reference falls back to the default", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, s.CreateWithID("contact1", "",
			map[string]any{"name": "Ada"}))
		doc, bind := newBound(t, s, "contact1")

		renderer, err := Contact().Variants[content.ContextWorkspace](doc, bind)
		require.NoError(t, err)
		contact := renderer.(*ContactRenderer)
		defer contact.Close()

		assert.Equal(t, DefaultAvatarURL, contact.AvatarURL())
	})

	t.Run("referenced avatar not yet arrived falls back", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, s.CreateWithID("contact1", "",
			map[string]any{"name": "Ada", "avatarDocId": "avatar-later"}))
		doc, bind := newBound(t, s, "contact1")

		renderer, err := Contact().Variants[content.ContextWorkspace](doc, bind)
		require.NoError(t, err)
		contact := renderer.(*ContactRenderer)
		defer contact.Close()

		assert.Equal(t, DefaultAvatarURL, contact.AvatarURL())

		// The avatar arriving later flips resolution without re-mounting.
		require.NoError(t, s.CreateWithID("avatar-later", "image/png",
			map[string]any{"hyperfileUrl": "hyperfile://late"}))
		assert.Equal(t, "hyperfile://late", contact.AvatarURL())
	})

	t.Run("avatar id arriving in a later snapshot binds lazily", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, s.CreateWithID("avatar1", "image/png",
			map[string]any{"hyperfileUrl": "hyperfile://abc"}))
		require.NoError(t, s.CreateWithID("contact1", "",
			map[string]any{"name": "Ada"}))
		doc, bind := newBound(t, s, "contact1")

		renderer, err := Contact().Variants[content.ContextWorkspace](doc, bind)
		require.NoError(t, err)
		contact := renderer.(*ContactRenderer)
		defer contact.Close()

		assert.Equal(t, DefaultAvatarURL, contact.AvatarURL())

		require.NoError(t, s.Change("contact1", SetAvatar("avatar1")))
		assert.Equal(t, "hyperfile://abc", contact.AvatarURL())
	})
}

func TestFallbackRenderer(t *testing.T) {
	s := memory.New()
	require.NoError(t, s.CreateWithID("doc1", "application/x-unknown", nil))
	doc, bind := newBound(t, s, "doc1")

	d := Fallback()
	assert.Nil(t, d.MatchMIME, "fallback must never win mime inference")
	assert.Len(t, d.Variants, len(content.ValidContexts()))

	renderer, err := d.Variants[content.ContextList](doc, bind)
	require.NoError(t, err)
	fb := renderer.(*FallbackRenderer)
	defer fb.Close()

	assert.Equal(t, "application/x-unknown", fb.MIMEType())
}

func TestMutators(t *testing.T) {
	t.Run("SetAvatar validates the id", func(t *testing.T) {
		fields := map[string]any{}
		err := SetAvatar("")(fields)
		assert.Error(t, err)
		assert.Empty(t, fields)
	})

	t.Run("SetName", func(t *testing.T) {
		fields := map[string]any{}
		require.NoError(t, SetName("Grace")(fields))
		assert.Equal(t, "Grace", fields["name"])
	})
}
