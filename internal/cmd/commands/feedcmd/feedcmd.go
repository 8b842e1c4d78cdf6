// Package feedcmd implements the command that runs the change feed bridge.
package feedcmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pushpin-forge/pushpin/internal/cmd/base"
	"github.com/pushpin-forge/pushpin/pkg/feed"
)

// Command forwards every document change from the configured store to the
// configured Redpanda/Kafka topic until interrupted.
type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Run the document change feed"
}

func (c *Command) Flags() *base.FlagSet {
	return c.NewFlagSet(flag.NewFlagSet("feed", flag.ExitOnError))
}

func (c *Command) Help() string {
	return `Usage: pushpin feed -config=<path>

  Publishes every document change in the configured store to the change
  feed topic. Requires feed { enabled = true } in the configuration.
  Stops on SIGINT or SIGTERM.` + c.Flags().Help()
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	rt, err := c.LoadRuntime()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading runtime: %v", err))
		return 1
	}
	if rt.Config.Feed == nil || !rt.Config.Feed.Enabled {
		c.UI.Error("the change feed is disabled in the configuration")
		return 1
	}

	publisher, err := feed.NewPublisher(feed.PublisherConfig{
		Brokers: rt.Config.Feed.Brokers,
		Topic:   rt.Config.Feed.Topic,
	}, feed.WithLogger(c.Log))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating publisher: %v", err))
		return 1
	}
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		c.Log.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if err := publisher.Ping(ctx); err != nil {
		c.UI.Error(fmt.Sprintf("error reaching brokers: %v", err))
		return 1
	}

	bridge, err := feed.NewBridge(rt.Client, publisher, feed.WithBridgeLogger(c.Log))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating bridge: %v", err))
		return 1
	}

	c.UI.Info(fmt.Sprintf("forwarding document changes to %s", rt.Config.Feed.Topic))
	if err := bridge.Run(ctx); err != nil {
		c.UI.Error(fmt.Sprintf("bridge failed: %v", err))
		return 1
	}
	return 0
}
