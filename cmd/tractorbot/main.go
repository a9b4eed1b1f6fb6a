package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Join    JoinCmd          `cmd:"" help:"Join a room and play until the session ends"`
	Spawn   SpawnCmd         `cmd:"" help:"Spawn several agents against the same room"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tractorbot"),
		kong.Description("Autonomous agent for multiplayer tractor card games"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
