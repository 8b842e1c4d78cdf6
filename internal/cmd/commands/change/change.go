// Package change implements the command that applies a mutation from a YAML
// file to a document.
package change

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pushpin-forge/pushpin/internal/cmd/base"
	"github.com/pushpin-forge/pushpin/pkg/pushpinurl"
)

// Command applies field changes described in a YAML file.
type Command struct {
	*base.Command

	flagFile string
}

func (c *Command) Synopsis() string {
	return "Apply a mutation to a document"
}

func (c *Command) Flags() *base.FlagSet {
	f := c.NewFlagSet(flag.NewFlagSet("change", flag.ExitOnError))

	f.StringVar(&c.flagFile, "file", "",
		"YAML file whose top-level mapping is merged into the document's fields",
	)

	return f
}

func (c *Command) Help() string {
	return `Usage: pushpin change -file=<path> <url>

  Reads a YAML mapping and merges it into the document's fields as one
  atomic mutation. Keys mapped to null are removed.` + c.Flags().Help()
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
	if c.flagFile == "" {
		c.UI.Error("a mutation file is required (-file)")
		return 1
	}

	u, err := pushpinurl.Parse(f.Arg(0))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error parsing URL: %v", err))
		return 1
	}

	raw, err := os.ReadFile(c.flagFile)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error reading mutation file: %v", err))
		return 1
	}

	var changes map[string]any
	if err := yaml.Unmarshal(raw, &changes); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing mutation file: %v", err))
		return 1
	}
	if len(changes) == 0 {
		c.UI.Error("the mutation file contains no changes")
		return 1
	}

	rt, err := c.LoadRuntime()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading runtime: %v", err))
		return 1
	}

	err = rt.Client.Change(u.ID(), func(fields map[string]any) error {
		for k, v := range changes {
			if v == nil {
				delete(fields, k)
				continue
			}
			fields[k] = v
		}
		return nil
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error applying mutation: %v", err))
		return 1
	}

	c.UI.Output(fmt.Sprintf("applied %d field change(s) to %s", len(changes), u.ID()))
	return 0
}
