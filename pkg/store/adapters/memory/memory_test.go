package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushpin-forge/pushpin/pkg/store"
)

func TestStore_CreateAndLatest(t *testing.T) {
	s := New()

	t.Run("create generates an identity", func(t *testing.T) {
		id, err := s.Create("text/plain", map[string]any{"text": "hello"})
		require.NoError(t, err)
		assert.False(t, id.IsZero())

		snap, ok := s.Latest(id)
		require.True(t, ok)
		assert.Equal(t, uint64(1), snap.Version)
		assert.Equal(t, "text/plain", snap.MIMEType)
		assert.Equal(t, "hello", snap.StringField("text"))
	})

	t.Run("unknown document is absent, not an error", func(t *testing.T) {
		_, ok := s.Latest("missing")
		assert.False(t, ok)
	})

	t.Run("create with explicit id", func(t *testing.T) {
		require.NoError(t, s.CreateWithID("doc123", "audio/mp3", nil))

		snap, ok := s.Latest("doc123")
		require.True(t, ok)
		assert.Equal(t, "audio/mp3", snap.MIMEType)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		err := s.CreateWithID("doc123", "audio/mp3", nil)
		assert.Error(t, err)
	})
}

func TestStore_Change(t *testing.T) {
	t.Run("bumps version and applies fields", func(t *testing.T) {
		s := New()
		id, err := s.Create("text/plain", map[string]any{"text": "v1"})
		require.NoError(t, err)

		require.NoError(t, s.Change(id, func(fields map[string]any) error {
			fields["text"] = "v2"
			return nil
		}))

		snap, ok := s.Latest(id)
		require.True(t, ok)
		assert.Equal(t, uint64(2), snap.Version)
		assert.Equal(t, "v2", snap.StringField("text"))
	})

	t.Run("unknown document", func(t *testing.T) {
		s := New()
		err := s.Change("missing", func(fields map[string]any) error { return nil })
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("invalid mutation leaves the document unchanged", func(t *testing.T) {
		s := New()
		id, err := s.Create("text/plain", map[string]any{"text": "v1"})
		require.NoError(t, err)

		err = s.Change(id, nil)
		assert.ErrorIs(t, err, store.ErrInvalidMutation)

		snap, _ := s.Latest(id)
		assert.Equal(t, uint64(1), snap.Version)
		assert.Equal(t, "v1", snap.StringField("text"))
	})
}

func TestStore_Subscribe(t *testing.T) {
	t.Run("listener fires on change", func(t *testing.T) {
		s := New()
		id, err := s.Create("text/plain", map[string]any{"text": "v1"})
		require.NoError(t, err)

		var got []store.Snapshot
		unsub := s.Subscribe(id, func(snap store.Snapshot) {
			got = append(got, snap)
		})
		defer unsub()

		require.NoError(t, s.Change(id, func(fields map[string]any) error {
			fields["text"] = "v2"
			return nil
		}))

		require.Len(t, got, 1)
		assert.Equal(t, uint64(2), got[0].Version)
	})

	t.Run("listener fires when a subscribed document arrives", func(t *testing.T) {
		s := New()

		var got []store.Snapshot
		unsub := s.Subscribe("doc123", func(snap store.Snapshot) {
			got = append(got, snap)
		})
		defer unsub()

		require.NoError(t, s.CreateWithID("doc123", "text/plain", nil))

		require.Len(t, got, 1)
		assert.Equal(t, uint64(1), got[0].Version)
	})

	t.Run("unsubscribe stops delivery and is idempotent", func(t *testing.T) {
		s := New()
		id, err := s.Create("text/plain", nil)
		require.NoError(t, err)

		var count int
		unsub := s.Subscribe(id, func(store.Snapshot) { count++ })

		unsub()
		unsub()

		require.NoError(t, s.Change(id, func(fields map[string]any) error {
			fields["text"] = "x"
			return nil
		}))
		assert.Equal(t, 0, count)
	})

	t.Run("delivered snapshots are defensive copies", func(t *testing.T) {
		s := New()
		id, err := s.Create("text/plain", map[string]any{"text": "v1"})
		require.NoError(t, err)

		var captured store.Snapshot
		unsub := s.Subscribe(id, func(snap store.Snapshot) { captured = snap })
		defer unsub()

		require.NoError(t, s.Change(id, func(fields map[string]any) error {
			fields["text"] = "v2"
			return nil
		}))

		captured.Fields["text"] = "tampered"
		snap, _ := s.Latest(id)
		assert.Equal(t, "v2", snap.StringField("text"))
	})
}

func TestStore_SubscribeAll(t *testing.T) {
	s := New()

	var got []store.Snapshot
	unsub := s.SubscribeAll(func(snap store.Snapshot) {
		got = append(got, snap)
	})
	defer unsub()

	idA, err := s.Create("text/plain", nil)
	require.NoError(t, err)
	idB, err := s.Create("audio/mp3", nil)
	require.NoError(t, err)
	require.NoError(t, s.Change(idA, func(fields map[string]any) error {
		fields["text"] = "x"
		return nil
	}))

	require.Len(t, got, 3)
	assert.Equal(t, idA, got[0].ID)
	assert.Equal(t, idB, got[1].ID)
	assert.Equal(t, idA, got[2].ID)
	assert.Equal(t, uint64(2), got[2].Version)
}
