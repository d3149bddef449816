package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/swanchain/go-swan-sdk/conf"
	"github.com/swanchain/go-swan-sdk/sdk"
	"github.com/swanchain/go-swan-sdk/util"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"
)

func repoPath(cctx *cli.Context) (string, error) {
	return homedir.Expand(cctx.String(FlagSwanRepo))
}

func loadConfig(cctx *cli.Context) (*conf.SwanConfig, error) {
	repo, err := repoPath(cctx)
	if err != nil {
		return nil, err
	}
	cfg, err := conf.Load(repo)
	if err != nil {
		return nil, fmt.Errorf("load config failed, error: %w", err)
	}
	return cfg, nil
}

// newClient connects to the orchestrator; withChain also verifies the
// contract info and dials the rpc.
func newClient(cctx *cli.Context, withChain bool) (*sdk.Client, error) {
	cfg, err := loadConfig(cctx)
	if err != nil {
		return nil, err
	}
	var options []sdk.Option
	if !withChain {
		options = append(options, sdk.WithoutChain())
	}
	return sdk.New(util.ReqContext(), cfg, options...)
}

// render prints v as yaml when asked, otherwise the table.
func render(cctx *cli.Context, v interface{}, table *VisualTable) error {
	switch cctx.String(FlagOutput) {
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	case "table", "":
		return table.Generate(os.Stdout, cctx.Bool(FlagNoColor))
	default:
		return fmt.Errorf("unknown output format %q", cctx.String(FlagOutput))
	}
}

func formatTime(unix int64) string {
	if unix == 0 {
		return "-"
	}
	return time.Unix(unix, 0).Format("2006-01-02 15:04:05")
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
