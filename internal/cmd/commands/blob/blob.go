// Package blob implements the commands for moving bytes in and out of the
// content-addressed blob store.
package blob

import (
	"flag"
	"fmt"
	"os"

	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/pushpin-forge/pushpin/internal/cmd/base"
	"github.com/pushpin-forge/pushpin/pkg/hyperfile"
)

// Command groups the blob subcommands.
type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Store and fetch opaque blobs"
}

func (c *Command) Help() string {
	return `Usage: pushpin blob <subcommand> [options] [args]

  This command groups subcommands for the content-addressed blob store.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

func openStore(c *base.Command) (*hyperfile.Store, error) {
	rt, err := c.LoadRuntime()
	if err != nil {
		return nil, err
	}
	return hyperfile.NewStore(afero.NewOsFs(), rt.Config.Blob.Dir, hyperfile.WithLogger(c.Log))
}

// PutCommand writes a file into the blob store and prints its URL.
type PutCommand struct {
	*base.Command
}

func (c *PutCommand) Synopsis() string {
	return "Write a file into the blob store"
}

func (c *PutCommand) Flags() *base.FlagSet {
	return c.NewFlagSet(flag.NewFlagSet("blob put", flag.ExitOnError))
}

func (c *PutCommand) Help() string {
	return `Usage: pushpin blob put <file>

  Writes the file's bytes into the blob store and prints the hyperfile URL
  addressing them.` + c.Flags().Help()
}

func (c *PutCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("exactly one file argument is required")
		return 1
	}

	data, err := os.ReadFile(f.Arg(0))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error reading file: %v", err))
		return 1
	}

	store, err := openStore(c.Command)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error opening blob store: %v", err))
		return 1
	}

	u, err := store.Write(data)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error writing blob: %v", err))
		return 1
	}

	c.UI.Output(u.String())
	return 0
}

// GetCommand reads a blob and writes its bytes to stdout.
type GetCommand struct {
	*base.Command
}

func (c *GetCommand) Synopsis() string {
	return "Read a blob from the blob store"
}

func (c *GetCommand) Flags() *base.FlagSet {
	return c.NewFlagSet(flag.NewFlagSet("blob get", flag.ExitOnError))
}

func (c *GetCommand) Help() string {
	return `Usage: pushpin blob get <hyperfile-url>

  Reads the addressed blob and writes its bytes to standard output.` + c.Flags().Help()
}

func (c *GetCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("exactly one URL argument is required")
		return 1
	}

	u, err := hyperfile.Parse(f.Arg(0))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error parsing URL: %v", err))
		return 1
	}

	store, err := openStore(c.Command)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error opening blob store: %v", err))
		return 1
	}

	data, err := store.Read(u)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error reading blob: %v", err))
		return 1
	}

	if _, err := os.Stdout.Write(data); err != nil {
		c.UI.Error(fmt.Sprintf("error writing output: %v", err))
		return 1
	}
	return 0
}
