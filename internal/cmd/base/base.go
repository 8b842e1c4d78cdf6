// Package base carries the shared state and runtime wiring for CLI commands.
package base

import (
	"bytes"
	"flag"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/pushpin-forge/pushpin/internal/config"
	"github.com/pushpin-forge/pushpin/pkg/content"
	"github.com/pushpin-forge/pushpin/pkg/contenttypes"
	"github.com/pushpin-forge/pushpin/pkg/resolver"
	"github.com/pushpin-forge/pushpin/pkg/store"
	"github.com/pushpin-forge/pushpin/pkg/store/adapters/memory"
	"github.com/pushpin-forge/pushpin/pkg/store/adapters/sqlite"
	"github.com/pushpin-forge/pushpin/pkg/subscription"
)

// Command is embedded by every CLI command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	flagConfig string
}

// FlagSet wraps the standard flag set so commands can append usage text to
// their help output.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet returns a flag set with the shared -config flag installed.
func (c *Command) NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.StringVar(&c.flagConfig, "config", "", "Path to an HCL configuration file")
	return &FlagSet{FlagSet: f}
}

// Help returns the rendered flag usage, for appending to command help text.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	f.SetOutput(&buf)
	f.PrintDefaults()
	return "\n\nOptions:\n\n" + buf.String()
}

// Runtime is the wired-up application a command operates on.
type Runtime struct {
	Config   *config.Config
	Client   store.Client
	Registry *content.Registry
	Manager  *subscription.Manager
	Resolver *resolver.Resolver
}

// LoadRuntime builds the runtime from the -config flag, defaulting to the
// in-memory store when no file is given.
func (c *Command) LoadRuntime() (*Runtime, error) {
	cfg := config.Default()
	if c.flagConfig != "" {
		loaded, err := config.Load(c.flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if level := hclog.LevelFromString(cfg.LogLevel); level != hclog.NoLevel {
		c.Log.SetLevel(level)
	}

	client, err := openStore(cfg, c.Log)
	if err != nil {
		return nil, err
	}

	registry := content.NewRegistry(content.WithLogger(c.Log))
	if err := contenttypes.RegisterAll(registry); err != nil {
		return nil, fmt.Errorf("failed to register content types: %w", err)
	}

	manager, err := subscription.NewManager(client, subscription.WithLogger(c.Log))
	if err != nil {
		return nil, err
	}

	res, err := resolver.New(registry, manager, resolver.WithLogger(c.Log))
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Config:   cfg,
		Client:   client,
		Registry: registry,
		Manager:  manager,
		Resolver: res,
	}, nil
}

func openStore(cfg *config.Config, log hclog.Logger) (store.Client, error) {
	switch cfg.Store.Driver {
	case "memory":
		return memory.New(memory.WithLogger(log)), nil
	case "sqlite":
		s, err := sqlite.Open(cfg.Store.Path, sqlite.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}
