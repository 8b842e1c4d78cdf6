package pushpinurl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	t.Run("typed url", func(t *testing.T) {
		u, err := Create("audio", "doc123")
		require.NoError(t, err)

		assert.Equal(t, "audio", u.Type())
		assert.True(t, u.HasType())
		assert.Equal(t, DocumentID("doc123"), u.ID())
		assert.Nil(t, u.Segments())
	})

	t.Run("untyped url infers from content", func(t *testing.T) {
		u, err := Create("", "doc123")
		require.NoError(t, err)

		assert.False(t, u.HasType())
		assert.Equal(t, "pushpin:///doc123", u.String())
	})

	t.Run("extra segments preserved in order", func(t *testing.T) {
		u, err := Create("board", "doc123", "cards", "42")
		require.NoError(t, err)

		assert.Equal(t, []string{"cards", "42"}, u.Segments())
		assert.Equal(t, "pushpin://board/doc123/cards/42", u.String())
	})

	t.Run("empty document id rejected", func(t *testing.T) {
		_, err := Create("audio", "")
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("document id with separator rejected", func(t *testing.T) {
		_, err := Create("audio", "a/b")
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("empty segment rejected", func(t *testing.T) {
		_, err := Create("audio", "doc123", "")
		assert.ErrorIs(t, err, ErrInvalidURL)
	})
}

func TestParse(t *testing.T) {
	t.Run("typed url", func(t *testing.T) {
		u, err := Parse("pushpin://audio/doc123")
		require.NoError(t, err)

		assert.Equal(t, "audio", u.Type())
		assert.Equal(t, DocumentID("doc123"), u.ID())
	})

	t.Run("untyped url", func(t *testing.T) {
		u, err := Parse("pushpin:///doc123")
		require.NoError(t, err)

		assert.False(t, u.HasType())
		assert.Equal(t, DocumentID("doc123"), u.ID())
	})

	t.Run("whitespace trimmed", func(t *testing.T) {
		u, err := Parse("  pushpin://text/doc123\n")
		require.NoError(t, err)

		assert.Equal(t, "text", u.Type())
	})

	t.Run("not a url at all", func(t *testing.T) {
		_, err := Parse("not-a-valid-url")
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		_, err := Parse("https://audio/doc123")
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("missing document id segment", func(t *testing.T) {
		_, err := Parse("pushpin://audio")
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("empty document id", func(t *testing.T) {
		_, err := Parse("pushpin://audio/")
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("empty extra segment", func(t *testing.T) {
		_, err := Parse("pushpin://board/doc123//x")
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("empty string", func(t *testing.T) {
		_, err := Parse("")
		assert.ErrorIs(t, err, ErrInvalidURL)
	})
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		docType  string
		id       DocumentID
		segments []string
	}{
		{"typed", "audio", "doc123", nil},
		{"untyped", "", "doc123", nil},
		{"uuid id", "contact", "550e8400-e29b-41d4-a716-446655440000", nil},
		{"one segment", "board", "doc123", []string{"cards"}},
		{"many segments", "board", "doc123", []string{"cards", "42", "notes"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := Create(tc.docType, tc.id, tc.segments...)
			require.NoError(t, err)

			parsed, err := Parse(u.String())
			require.NoError(t, err)

			assert.True(t, parsed.Equal(u), "Parse(%q) != original", u.String())
			assert.Equal(t, u.String(), parsed.String())
		})
	}
}

func TestUrl_Equal(t *testing.T) {
	a, err := Create("audio", "doc123", "x")
	require.NoError(t, err)

	t.Run("equal tuples", func(t *testing.T) {
		b, err := Create("audio", "doc123", "x")
		require.NoError(t, err)
		assert.True(t, a.Equal(b))
	})

	t.Run("different type", func(t *testing.T) {
		b, err := Create("image", "doc123", "x")
		require.NoError(t, err)
		assert.False(t, a.Equal(b))
	})

	t.Run("different id", func(t *testing.T) {
		b, err := Create("audio", "doc456", "x")
		require.NoError(t, err)
		assert.False(t, a.Equal(b))
	})

	t.Run("different segments", func(t *testing.T) {
		b, err := Create("audio", "doc123", "y")
		require.NoError(t, err)
		assert.False(t, a.Equal(b))
	})
}

func TestUrl_JSON(t *testing.T) {
	t.Run("round-trips through JSON", func(t *testing.T) {
		u, err := Create("contact", "doc123")
		require.NoError(t, err)

		data, err := json.Marshal(u)
		require.NoError(t, err)
		assert.Equal(t, `"pushpin://contact/doc123"`, string(data))

		var decoded Url
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, decoded.Equal(u))
	})

	t.Run("zero url marshals as null", func(t *testing.T) {
		data, err := json.Marshal(Url{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
	})

	t.Run("invalid string rejected", func(t *testing.T) {
		var u Url
		err := json.Unmarshal([]byte(`"nope"`), &u)
		assert.ErrorIs(t, err, ErrInvalidURL)
	})
}

func TestDocumentID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, DocumentID("doc123").Validate())
		assert.False(t, DocumentID("doc123").IsZero())
	})

	t.Run("zero", func(t *testing.T) {
		var id DocumentID
		assert.True(t, id.IsZero())
		assert.ErrorIs(t, id.Validate(), ErrInvalidURL)
	})
}
