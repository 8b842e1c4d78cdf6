// Package version implements the version command.
package version

import (
	"github.com/pushpin-forge/pushpin/internal/cmd/base"
	buildversion "github.com/pushpin-forge/pushpin/internal/version"
)

// Command prints the build version.
type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return `Usage: pushpin version

  Prints the version of this binary.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(buildversion.Version)
	return 0
}
