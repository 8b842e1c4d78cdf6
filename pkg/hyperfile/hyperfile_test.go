package hyperfile

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emptyHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func TestParse(t *testing.T) {
	t.Run("valid reference", func(t *testing.T) {
		u, err := Parse("hyperfile://" + emptyHash)
		require.NoError(t, err)
		assert.Equal(t, emptyHash, u.Hash())
		assert.Equal(t, "hyperfile://"+emptyHash, u.String())
	})

	t.Run("uppercase hash normalized", func(t *testing.T) {
		u, err := Parse("hyperfile://" + strings.ToUpper(emptyHash))
		require.NoError(t, err)
		assert.Equal(t, emptyHash, u.Hash())
	})

	t.Run("missing prefix", func(t *testing.T) {
		_, err := Parse(emptyHash)
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("wrong hash length", func(t *testing.T) {
		_, err := Parse("hyperfile://abc123")
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("non-hex hash", func(t *testing.T) {
		_, err := Parse("hyperfile://" + strings.Repeat("z", 64))
		assert.ErrorIs(t, err, ErrInvalidURL)
	})
}

func TestStore(t *testing.T) {
	newTestStore := func(t *testing.T) *Store {
		t.Helper()
		s, err := NewStore(afero.NewMemMapFs(), "blobs")
		require.NoError(t, err)
		return s
	}

	t.Run("write then read round-trips", func(t *testing.T) {
		s := newTestStore(t)
		payload := []byte("some audio bytes")

		u, err := s.Write(payload)
		require.NoError(t, err)

		got, err := s.Read(u)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("same bytes yield the same url", func(t *testing.T) {
		s := newTestStore(t)

		a, err := s.Write([]byte("payload"))
		require.NoError(t, err)
		b, err := s.Write([]byte("payload"))
		require.NoError(t, err)

		assert.True(t, a.Equal(b))
	})

	t.Run("different bytes yield different urls", func(t *testing.T) {
		s := newTestStore(t)

		a, err := s.Write([]byte("one"))
		require.NoError(t, err)
		b, err := s.Write([]byte("two"))
		require.NoError(t, err)

		assert.False(t, a.Equal(b))
	})

	t.Run("missing blob", func(t *testing.T) {
		s := newTestStore(t)

		u, err := Create(emptyHash)
		require.NoError(t, err)

		_, err = s.Read(u)
		assert.ErrorIs(t, err, ErrNotFound)

		exists, err := s.Exists(u)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("exists after write", func(t *testing.T) {
		s := newTestStore(t)

		u, err := s.Write([]byte("payload"))
		require.NoError(t, err)

		exists, err := s.Exists(u)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("requires fs and dir", func(t *testing.T) {
		_, err := NewStore(nil, "blobs")
		assert.Error(t, err)

		_, err = NewStore(afero.NewMemMapFs(), "")
		assert.Error(t, err)
	})
}
