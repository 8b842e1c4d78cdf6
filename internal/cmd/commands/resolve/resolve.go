// Package resolve implements the command that resolves a document URL to a
// renderer.
package resolve

import (
	"flag"
	"fmt"

	"github.com/pushpin-forge/pushpin/internal/cmd/base"
	"github.com/pushpin-forge/pushpin/pkg/content"
	"github.com/pushpin-forge/pushpin/pkg/resolver"
)

// Command resolves a URL in a mount context and prints the outcome.
type Command struct {
	*base.Command

	flagContext string
}

func (c *Command) Synopsis() string {
	return "Resolve a document URL"
}

func (c *Command) Flags() *base.FlagSet {
	f := c.NewFlagSet(flag.NewFlagSet("resolve", flag.ExitOnError))

	f.StringVar(&c.flagContext, "context", "workspace",
		"Mount context (workspace, board, list, badge)",
	)

	return f
}

func (c *Command) Help() string {
	return `Usage: pushpin resolve [options] <url>

  Resolves a document URL in a mount context and prints the outcome.` + c.Flags().Help()
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

	rt, err := c.LoadRuntime()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading runtime: %v", err))
		return 1
	}

	handle, err := rt.Resolver.ResolveString(f.Arg(0), content.Context(c.flagContext))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error resolving URL: %v", err))
		return 1
	}
	defer handle.Close()

	c.UI.Output(fmt.Sprintf("outcome: %s", handle.Outcome()))

	switch handle.Outcome() {
	case resolver.OutcomeMounted:
		d, _ := handle.Descriptor()
		c.UI.Output(fmt.Sprintf("type:    %s", d.Name))
		if sizing, ok := handle.Sizing(); ok {
			c.UI.Output(fmt.Sprintf("sizing:  default %dx%d",
				sizing.DefaultWidth, sizing.DefaultHeight))
		}
	case resolver.OutcomePending:
		c.UI.Output("the document has not arrived yet; try again later")
	case resolver.OutcomeUnknownType:
		c.UI.Output("no registered type can render this document")
	case resolver.OutcomeUnsupportedContext:
		if d, ok := handle.Descriptor(); ok {
			c.UI.Output(fmt.Sprintf("type %s has no %s variant", d.Name, handle.Context()))
		}
	}
	return 0
}
