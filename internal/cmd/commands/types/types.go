// Package types implements the command listing registered content types.
package types

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/pushpin-forge/pushpin/internal/cmd/base"
	"github.com/pushpin-forge/pushpin/pkg/content"
)

// Command lists the registered content types with their contexts and sizing.
type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "List registered content types"
}

func (c *Command) Flags() *base.FlagSet {
	return c.NewFlagSet(flag.NewFlagSet("types", flag.ExitOnError))
}

func (c *Command) Help() string {
	return `Usage: pushpin types

  Lists every registered content type in registration order, with the mount
  contexts it supports and its sizing bounds.` + c.Flags().Help()
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

	for _, name := range rt.Registry.Names() {
		d, ok := rt.Registry.LookupByName(name)
		if !ok {
			continue
		}
		c.UI.Output(fmt.Sprintf("%s\n  contexts: %s\n  sizing:   %s",
			d.Name, contexts(d), sizing(d.Sizing)))
	}
	return 0
}

func contexts(d content.Descriptor) string {
	names := make([]string, 0, len(d.Variants))
	for ctx := range d.Variants {
		names = append(names, ctx.String())
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func sizing(s content.Sizing) string {
	out := fmt.Sprintf("min %dx%d, default %dx%d",
		s.MinWidth, s.MinHeight, s.DefaultWidth, s.DefaultHeight)
	if s.MaxWidth != 0 || s.MaxHeight != 0 {
		out += fmt.Sprintf(", max %dx%d", s.MaxWidth, s.MaxHeight)
	}
	return out
}
