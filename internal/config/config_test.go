package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("full configuration", func(t *testing.T) {
		path := writeConfig(t, `
log_level = "debug"

store {
  driver = "sqlite"
  path   = "pushpin.db"
}

blob {
  dir = "blobs"
}

feed {
  enabled = true
  brokers = ["broker-1:19092", "broker-2:19092"]
  topic   = "pushpin.document-changes"
}
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "sqlite", cfg.Store.Driver)
		assert.Equal(t, "pushpin.db", cfg.Store.Path)
		assert.Equal(t, "blobs", cfg.Blob.Dir)
		assert.True(t, cfg.Feed.Enabled)
		assert.Equal(t, []string{"broker-1:19092", "broker-2:19092"}, cfg.Feed.Brokers)
	})

	t.Run("defaults fill in missing blocks", func(t *testing.T) {
		path := writeConfig(t, ``)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "memory", cfg.Store.Driver)
		assert.Equal(t, "blobs", cfg.Blob.Dir)
		assert.False(t, cfg.Feed.Enabled)
		assert.Equal(t, "pushpin.document-changes", cfg.Feed.Topic)
	})

	t.Run("environment overrides win", func(t *testing.T) {
		t.Setenv(EnvFeedBrokers, "env-1:9092, env-2:9092")
		t.Setenv(EnvFeedTopic, "env.topic")

		path := writeConfig(t, `
feed {
  brokers = ["file:19092"]
  topic   = "file.topic"
}
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, []string{"env-1:9092", "env-2:9092"}, cfg.Feed.Brokers)
		assert.Equal(t, "env.topic", cfg.Feed.Topic)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
		assert.Error(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("bad log level", func(t *testing.T) {
		path := writeConfig(t, `log_level = "loud"`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "LogLevel")
	})

	t.Run("bad store driver", func(t *testing.T) {
		path := writeConfig(t, `
store {
  driver = "postgres"
}
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "store")
	})

	t.Run("sqlite requires a path", func(t *testing.T) {
		path := writeConfig(t, `
store {
  driver = "sqlite"
}
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "path")
	})

	t.Run("enabled feed requires brokers", func(t *testing.T) {
		cfg := Default()
		cfg.Feed.Enabled = true
		cfg.Feed.Brokers = nil
		assert.Error(t, cfg.Validate())
	})
}
