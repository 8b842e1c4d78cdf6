// Package config loads and validates the application's HCL configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Environment variable overrides for the change feed. They take precedence
// over the configuration file when set.
const (
	EnvFeedBrokers = "PUSHPIN_FEED_BROKERS"
	EnvFeedTopic   = "PUSHPIN_FEED_TOPIC"
)

// Config is the top-level application configuration.
type Config struct {
	// LogLevel is the minimum log level (trace, debug, info, warn, error).
	LogLevel string `hcl:"log_level,optional"`

	Store *StoreConfig `hcl:"store,block"`
	Blob  *BlobConfig  `hcl:"blob,block"`
	Feed  *FeedConfig  `hcl:"feed,block"`
}

// StoreConfig selects and configures the document store adapter.
type StoreConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `hcl:"driver"`

	// Path is the sqlite database file. Ignored by the memory driver.
	Path string `hcl:"path,optional"`
}

// BlobConfig configures the content-addressed blob store.
type BlobConfig struct {
	Dir string `hcl:"dir"`
}

// FeedConfig configures the document change feed.
type FeedConfig struct {
	Enabled bool     `hcl:"enabled,optional"`
	Brokers []string `hcl:"brokers,optional"`
	Topic   string   `hcl:"topic,optional"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Store:    &StoreConfig{Driver: "memory"},
		Blob:     &BlobConfig{Dir: "blobs"},
		Feed: &FeedConfig{
			Brokers: []string{"localhost:19092"},
			Topic:   "pushpin.document-changes",
		},
	}
}

// Load reads the configuration from an HCL file, fills in defaults, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("configuration file path is required")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}

	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.Store == nil {
		cfg.Store = def.Store
	}
	if cfg.Blob == nil {
		cfg.Blob = def.Blob
	}
	if cfg.Feed == nil {
		cfg.Feed = def.Feed
	}
	if len(cfg.Feed.Brokers) == 0 {
		cfg.Feed.Brokers = def.Feed.Brokers
	}
	if cfg.Feed.Topic == "" {
		cfg.Feed.Topic = def.Feed.Topic
	}
}

func applyEnvOverrides(cfg *Config) {
	if brokers := os.Getenv(EnvFeedBrokers); brokers != "" {
		cfg.Feed.Brokers = splitBrokers(brokers)
	}
	if topic := os.Getenv(EnvFeedTopic); topic != "" {
		cfg.Feed.Topic = topic
	}
}

func splitBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel,
			validation.Required,
			validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.Store, validation.Required),
		validation.Field(&c.Blob, validation.Required),
	); err != nil {
		return err
	}
	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := validation.ValidateStruct(c.Blob,
		validation.Field(&c.Blob.Dir, validation.Required),
	); err != nil {
		return fmt.Errorf("blob: %w", err)
	}
	if c.Feed != nil && c.Feed.Enabled {
		if err := validation.ValidateStruct(c.Feed,
			validation.Field(&c.Feed.Brokers, validation.Required, validation.Length(1, 0)),
			validation.Field(&c.Feed.Topic, validation.Required),
		); err != nil {
			return fmt.Errorf("feed: %w", err)
		}
	}
	return nil
}

func (s *StoreConfig) validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Driver,
			validation.Required,
			validation.In("memory", "sqlite")),
		validation.Field(&s.Path,
			validation.Required.When(s.Driver == "sqlite").
				Error("path is required for the sqlite driver")),
	)
}
