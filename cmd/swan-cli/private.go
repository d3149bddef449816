package main

import (
	"fmt"
	"path/filepath"

	"github.com/swanchain/go-swan-sdk/conf"
	"github.com/swanchain/go-swan-sdk/private"
	"github.com/swanchain/go-swan-sdk/sdk"
	"github.com/swanchain/go-swan-sdk/util"
	"github.com/urfave/cli/v2"
)

var privateCmd = &cli.Command{
	Name:  "private",
	Usage: "Build and deploy encrypted private projects",
	Subcommands: []*cli.Command{
		privateBuild,
		privateList,
		privateShow,
		privateDeploy,
		privateDelete,
	},
}

func openTokenStore(cctx *cli.Context, cfg *conf.SwanConfig) (*private.TokenStore, error) {
	storePath := cfg.STORAGE.TokenStorePath
	if storePath == "" {
		repo, err := repoPath(cctx)
		if err != nil {
			return nil, err
		}
		storePath = filepath.Join(repo, "tokens")
	}
	return private.OpenTokenStore(storePath)
}

var privateBuild = &cli.Command{
	Name:      "build",
	Usage:     "Pack, encrypt and upload a project directory",
	ArgsUsage: "<project path>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "name the token is stored under, defaults to the directory name"},
		&cli.StringSliceFlag{Name: "exclude", Usage: "directory names left out of the archive"},
	},
	Action: func(cctx *cli.Context) error {
		projectPath := cctx.Args().First()
		if projectPath == "" {
			return fmt.Errorf("project path is required")
		}
		cfg, err := loadConfig(cctx)
		if err != nil {
			return err
		}
		store, err := openTokenStore(cctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		project := private.NewProject(projectPath, sdk.NewUploader(cfg))
		if excludes := cctx.StringSlice("exclude"); len(excludes) > 0 {
			project.ExcludeDirs = append(project.ExcludeDirs, excludes...)
		}
		token, err := project.Build(util.ReqContext())
		if err != nil {
			return err
		}

		name := cctx.String("name")
		if name == "" {
			name = filepath.Base(filepath.Clean(projectPath))
		}
		if err = store.Put(name, *token); err != nil {
			return err
		}
		return render(cctx, map[string]string{"name": name, "download_uri": token.DownloadURI},
			NewVisualTable([]string{"NAME", "DOWNLOAD URI"}, [][]string{{name, token.DownloadURI}}, nil))
	},
}

var privateList = &cli.Command{
	Name:  "list",
	Usage: "List stored project tokens",
	Action: func(cctx *cli.Context) error {
		cfg, err := loadConfig(cctx)
		if err != nil {
			return err
		}
		store, err := openTokenStore(cctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		names, err := store.List()
		if err != nil {
			return err
		}
		var data [][]string
		for _, name := range names {
			token, err := store.Get(name)
			if err != nil {
				return err
			}
			data = append(data, []string{name, token.DownloadURI})
		}
		return render(cctx, names, NewVisualTable([]string{"NAME", "DOWNLOAD URI"}, data, nil))
	},
}

var privateShow = &cli.Command{
	Name:      "show",
	Usage:     "Print a stored token in its shareable encoding",
	ArgsUsage: "<name>",
	Action: func(cctx *cli.Context) error {
		cfg, err := loadConfig(cctx)
		if err != nil {
			return err
		}
		store, err := openTokenStore(cctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		token, err := store.Get(cctx.Args().First())
		if err != nil {
			return err
		}
		encoded, err := token.Encode()
		if err != nil {
			return err
		}
		fmt.Println(encoded)
		return nil
	},
}

var privateDeploy = &cli.Command{
	Name:      "deploy",
	Usage:     "Hand a project to the node running it",
	ArgsUsage: "<name>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "node-url", Required: true},
		&cli.StringFlag{Name: "token", Usage: "encoded token, used instead of the store"},
	},
	Action: func(cctx *cli.Context) error {
		cfg, err := loadConfig(cctx)
		if err != nil {
			return err
		}

		var token private.ProjectToken
		if encoded := cctx.String("token"); encoded != "" {
			if token, err = private.DecodeProjectToken(encoded); err != nil {
				return err
			}
		} else {
			store, err := openTokenStore(cctx, cfg)
			if err != nil {
				return err
			}
			token, err = store.Get(cctx.Args().First())
			store.Close()
			if err != nil {
				return err
			}
		}

		if err = private.NewTask(cctx.String("node-url"), token).DeployTask(util.ReqContext(), cfg.RetryPolicy()); err != nil {
			return err
		}
		fmt.Printf("project handed to %s\n", cctx.String("node-url"))
		return nil
	},
}

var privateDelete = &cli.Command{
	Name:      "delete",
	Usage:     "Remove a stored token",
	ArgsUsage: "<name>",
	Action: func(cctx *cli.Context) error {
		cfg, err := loadConfig(cctx)
		if err != nil {
			return err
		}
		store, err := openTokenStore(cctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Delete(cctx.Args().First())
	},
}
