package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/pushpin-forge/pushpin/internal/cmd/base"
	"github.com/pushpin-forge/pushpin/internal/cmd/commands/blob"
	"github.com/pushpin-forge/pushpin/internal/cmd/commands/change"
	"github.com/pushpin-forge/pushpin/internal/cmd/commands/create"
	"github.com/pushpin-forge/pushpin/internal/cmd/commands/feedcmd"
	"github.com/pushpin-forge/pushpin/internal/cmd/commands/resolve"
	"github.com/pushpin-forge/pushpin/internal/cmd/commands/types"
	"github.com/pushpin-forge/pushpin/internal/cmd/commands/urlcmd"
	versioncmd "github.com/pushpin-forge/pushpin/internal/cmd/commands/version"
	"github.com/pushpin-forge/pushpin/internal/cmd/commands/watch"
)

// Commands is the mapping of all available CLI commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	newBase := func(name string) *base.Command {
		return &base.Command{
			Log: log.Named(name),
			UI:  ui,
		}
	}

	Commands = map[string]cli.CommandFactory{
		"url parse": func() (cli.Command, error) {
			return &urlcmd.ParseCommand{Command: newBase("url")}, nil
		},
		"url create": func() (cli.Command, error) {
			return &urlcmd.CreateCommand{Command: newBase("url")}, nil
		},
		"url": func() (cli.Command, error) {
			return &urlcmd.Command{Command: newBase("url")}, nil
		},
		"blob": func() (cli.Command, error) {
			return &blob.Command{Command: newBase("blob")}, nil
		},
		"blob put": func() (cli.Command, error) {
			return &blob.PutCommand{Command: newBase("blob")}, nil
		},
		"blob get": func() (cli.Command, error) {
			return &blob.GetCommand{Command: newBase("blob")}, nil
		},
		"types": func() (cli.Command, error) {
			return &types.Command{Command: newBase("types")}, nil
		},
		"create": func() (cli.Command, error) {
			return &create.Command{Command: newBase("create")}, nil
		},
		"resolve": func() (cli.Command, error) {
			return &resolve.Command{Command: newBase("resolve")}, nil
		},
		"change": func() (cli.Command, error) {
			return &change.Command{Command: newBase("change")}, nil
		},
		"feed": func() (cli.Command, error) {
			return &feedcmd.Command{Command: newBase("feed")}, nil
		},
		"watch": func() (cli.Command, error) {
			return &watch.Command{Command: newBase("watch")}, nil
		},
		"version": func() (cli.Command, error) {
			return &versioncmd.Command{Command: newBase("version")}, nil
		},
	}
}
