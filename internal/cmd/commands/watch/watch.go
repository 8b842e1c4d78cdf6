// Package watch implements the command that follows a document's snapshots.
package watch

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pushpin-forge/pushpin/internal/cmd/base"
	"github.com/pushpin-forge/pushpin/pkg/pushpinurl"
	"github.com/pushpin-forge/pushpin/pkg/store"
)

// Command binds to a document and prints each snapshot until interrupted.
type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Watch a document for changes"
}

func (c *Command) Flags() *base.FlagSet {
	return c.NewFlagSet(flag.NewFlagSet("watch", flag.ExitOnError))
}

func (c *Command) Help() string {
	return `Usage: pushpin watch <url>

  Binds to the document and prints every snapshot as it arrives, starting
  with the current one if the document is already loaded. Stops on SIGINT
  or SIGTERM.` + c.Flags().Help()
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("exactly one URL argument is required")
		return 1
	}

	u, err := pushpinurl.Parse(f.Arg(0))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error parsing URL: %v", err))
		return 1
	}

	rt, err := c.LoadRuntime()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading runtime: %v", err))
		return 1
	}

	binding, err := rt.Manager.Bind(u.ID())
	if err != nil {
		c.UI.Error(fmt.Sprintf("error binding document: %v", err))
		return 1
	}
	defer binding.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		c.Log.Info("received signal, stopping", "signal", sig)
		cancel()
	}()

	if _, ok := binding.Snapshot(); !ok {
		c.UI.Output("waiting for the document to arrive...")
	}

	for {
		select {
		case <-ctx.Done():
			return 0
		case snap, ok := <-binding.Updates():
			if !ok {
				return 0
			}
			c.printSnapshot(snap)
		}
	}
}

func (c *Command) printSnapshot(snap store.Snapshot) {
	fields, err := json.Marshal(snap.Fields)
	if err != nil {
		fields = []byte("{}")
	}
	c.UI.Output(fmt.Sprintf("version=%d mime=%q fields=%s",
		snap.Version, snap.MIMEType, fields))
}
