package main

import (
	"codeberg.org/mutker/kweeb/internal/cli"
	"codeberg.org/mutker/kweeb/internal/desktop"
	"codeberg.org/mutker/kweeb/internal/logger"
	"codeberg.org/mutker/kweeb/internal/topology"
)

// Set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	cli.Execute(cli.Platform{
		Input: func(log logger.Logger) cli.InputHook {
			return desktop.NewHookSampler(log)
		},
		Displays: func() topology.Source {
			return desktop.NewScreenSource()
		},
	})
}
