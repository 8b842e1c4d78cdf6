// Package create implements the command that creates a new document.
package create

import (
	"flag"
	"fmt"

	"github.com/pushpin-forge/pushpin/internal/cmd/base"
	"github.com/pushpin-forge/pushpin/pkg/pushpinurl"
)

// Command creates a document in the store and prints its URL.
type Command struct {
	*base.Command

	flagType string
	flagMIME string
}

func (c *Command) Synopsis() string {
	return "Create a new document"
}

func (c *Command) Flags() *base.FlagSet {
	f := c.NewFlagSet(flag.NewFlagSet("create", flag.ExitOnError))

	f.StringVar(&c.flagType, "type", "",
		"Content type name embedded in the printed URL. Empty leaves the "+
			"type to MIME inference at resolution time",
	)
	f.StringVar(&c.flagMIME, "mime", "",
		"MIME type recorded on the document",
	)

	return f
}

func (c *Command) Help() string {
	return `Usage: pushpin create [-type=<name>] [-mime=<mime>]

  Creates an empty document in the configured store and prints its URL.` + c.Flags().Help()
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

	if c.flagType != "" {
		if _, ok := rt.Registry.LookupByName(c.flagType); !ok {
			c.UI.Error(fmt.Sprintf("unknown content type: %s", c.flagType))
			return 1
		}
	}

	id, err := rt.Client.Create(c.flagMIME, map[string]any{})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating document: %v", err))
		return 1
	}

	u, err := pushpinurl.Create(c.flagType, id)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error building URL: %v", err))
		return 1
	}

	c.UI.Output(u.String())
	return 0
}
