package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/swanchain/go-swan-sdk/build"
	"github.com/urfave/cli/v2"
)

const (
	FlagSwanRepo = "swan-repo"
	FlagOutput   = "output"
	FlagNoColor  = "no-color"
)

func main() {
	app := &cli.App{
		Name:                 "swan-cli",
		Usage:                "Rent hardware, pay for it on chain and deploy applications onto the Swan computing network.",
		EnableBashCompletion: true,
		Version:              build.UserVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    FlagSwanRepo,
				EnvVars: []string{"SWAN_PATH"},
				Usage:   "directory holding config.toml and .env",
				Value:   "~/.swan/sdk",
			},
			&cli.StringFlag{
				Name:    FlagOutput,
				Aliases: []string{"o"},
				Usage:   "output format: table or yaml",
				Value:   "table",
			},
			&cli.BoolFlag{
				Name:  FlagNoColor,
				Usage: "disable colored output",
			},
		},
		Before: func(cctx *cli.Context) error {
			if cctx.Bool(FlagNoColor) {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			hardwareCmd,
			taskCmd,
			privateCmd,
			contractCmd,
		},
	}
	app.Setup()

	if err := app.Run(os.Args); err != nil {
		os.Stderr.WriteString(color.RedString("Error: ") + err.Error() + "\n")
		os.Exit(1)
	}
}
