package main

import (
	"os"

	"github.com/swanchain/go-swan-sdk/build"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:                 "mock-orchestrator",
		Usage:                "An in-memory orchestrator for exercising the swan sdk without the real service.",
		EnableBashCompletion: true,
		Version:              build.UserVersion(),
		Commands: []*cli.Command{
			runCmd,
		},
	}
	app.Setup()

	if err := app.Run(os.Args); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
	}
}
