package main

import (
	"os"

	"github.com/codemauri/taskify/pkg/cli"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cli.Version = Version
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
