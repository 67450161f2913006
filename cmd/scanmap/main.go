package main

import (
	"github.com/arnvid/scanmap/cmd/cli"
)

// Build information, overridden by ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildTime)
	cli.Execute()
}
