package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/swanchain/go-swan-sdk/constants"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/task"
	"github.com/swanchain/go-swan-sdk/util"
	"github.com/swanchain/go-swan-sdk/yaml"
	"github.com/urfave/cli/v2"
)

var taskCmd = &cli.Command{
	Name:  "task",
	Usage: "Manage tasks on the orchestrator",
	Subcommands: []*cli.Command{
		taskCreate,
		taskPay,
		taskRenew,
		taskTerminate,
		taskInfo,
		taskURL,
		taskList,
		taskEstimate,
	},
}

var durationFlag = &cli.DurationFlag{
	Name:  "duration",
	Usage: "rental duration, at least 1h",
	Value: time.Hour,
}

var autoPayFlag = &cli.BoolFlag{
	Name:  "auto-pay",
	Usage: "pay on chain with the configured private key",
}

var taskCreate = &cli.Command{
	Name:  "create",
	Usage: "Create a task",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "instance-type", Aliases: []string{"i"}},
		&cli.StringFlag{Name: "region", Aliases: []string{"r"}},
		durationFlag,
		&cli.DurationFlag{Name: "start-in"},
		&cli.StringFlag{Name: "job-source-uri"},
		&cli.StringFlag{Name: "image", Usage: "premade application image"},
		&cli.StringFlag{Name: "repo-uri"},
		&cli.StringFlag{Name: "repo-branch"},
		&cli.StringSliceFlag{Name: "preferred-cp"},
		&cli.StringFlag{Name: "manifest", Aliases: []string{"f"}, Usage: "task manifest file, replaces the other task flags"},
		autoPayFlag,
	},
	Action: func(cctx *cli.Context) error {
		var manifest *yaml.TaskManifest
		if path := cctx.String("manifest"); path != "" {
			m, err := yaml.HandlerYaml(path)
			if err != nil {
				return err
			}
			manifest = m
		}
		autoPay := cctx.Bool("auto-pay") || (manifest != nil && manifest.AutoPay)
		client, err := newClient(cctx, autoPay)
		if err != nil {
			return err
		}
		defer client.Close()

		opts := task.CreateTaskOptions{
			WalletAddress:   client.Config.WALLET.Address,
			InstanceType:    cctx.String("instance-type"),
			Region:          cctx.String("region"),
			Duration:        cctx.Duration("duration"),
			StartIn:         cctx.Duration("start-in"),
			JobSourceURI:    cctx.String("job-source-uri"),
			AppRepoImage:    cctx.String("image"),
			RepoURI:         cctx.String("repo-uri"),
			RepoBranch:      cctx.String("repo-branch"),
			AutoPay:         autoPay,
			PrivateKey:      client.Config.WALLET.PrivateKey,
			PreferredCpList: cctx.StringSlice("preferred-cp"),
		}
		if manifest != nil {
			manifest.AutoPay = autoPay
			if opts, err = manifest.CreateOptions(client.Config.WALLET.Address, client.Config.WALLET.PrivateKey); err != nil {
				return err
			}
		}

		result, err := client.Lifecycle.CreateTask(util.ReqContext(), opts)
		if err != nil {
			if uuid := models.TaskUUIDOf(err); uuid != "" {
				if opts.InstanceType == "" {
					opts.InstanceType = constants.DEFAULT_INSTANCE_TYPE
				}
				fmt.Println(color.YellowString("task %s was created but not paid, retry with: swan-cli task pay -i %s %s", uuid, opts.InstanceType, uuid))
			}
			return err
		}

		data := [][]string{{result.TaskUuid, result.InstanceType, result.Price, result.Task.Status, result.TxHash, result.TxHashApprove, result.Amount}}
		header := []string{"TASK UUID", "INSTANCE TYPE", "PRICE/HOUR", "STATUS", "TX HASH", "APPROVE TX", "AMOUNT"}
		return render(cctx, result, NewVisualTable(header, data, nil))
	},
}

var taskPay = &cli.Command{
	Name:      "pay",
	Usage:     "Pay for and validate a created task",
	ArgsUsage: "<task uuid>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "instance-type", Aliases: []string{"i"}, Required: true},
		durationFlag,
	},
	Action: func(cctx *cli.Context) error {
		taskUUID := cctx.Args().First()
		if taskUUID == "" {
			return fmt.Errorf("task uuid is required")
		}
		client, err := newClient(cctx, true)
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := client.Lifecycle.PayAndValidate(util.ReqContext(), taskUUID, cctx.String("instance-type"),
			cctx.Duration("duration"), client.Config.WALLET.PrivateKey)
		if err != nil {
			return err
		}
		data := [][]string{{taskUUID, result.TxHash, result.TxHashApprove, result.Amount.String()}}
		return render(cctx, result, NewVisualTable([]string{"TASK UUID", "TX HASH", "APPROVE TX", "AMOUNT"}, data, nil))
	},
}

var taskRenew = &cli.Command{
	Name:      "renew",
	Usage:     "Extend a task",
	ArgsUsage: "<task uuid>",
	Flags: []cli.Flag{
		durationFlag,
		&cli.StringFlag{Name: "tx-hash", Usage: "hash of a payment made outside the cli"},
		&cli.StringFlag{Name: "instance-type", Aliases: []string{"i"}},
		autoPayFlag,
	},
	Action: func(cctx *cli.Context) error {
		taskUUID := cctx.Args().First()
		if taskUUID == "" {
			return fmt.Errorf("task uuid is required")
		}
		autoPay := cctx.Bool("auto-pay")
		client, err := newClient(cctx, autoPay)
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := client.Lifecycle.RenewTask(util.ReqContext(), task.RenewTaskOptions{
			TaskUUID:     taskUUID,
			Duration:     cctx.Duration("duration"),
			TxHash:       cctx.String("tx-hash"),
			AutoPay:      autoPay,
			PrivateKey:   client.Config.WALLET.PrivateKey,
			InstanceType: cctx.String("instance-type"),
		})
		if err != nil {
			return err
		}
		data := [][]string{{result.TaskUuid, strconv.Itoa(result.Duration), result.TxHash, result.TxHashApprove, result.Amount}}
		return render(cctx, result, NewVisualTable([]string{"TASK UUID", "DURATION", "TX HASH", "APPROVE TX", "AMOUNT"}, data, nil))
	},
}

var taskTerminate = &cli.Command{
	Name:      "terminate",
	Usage:     "Terminate a task",
	ArgsUsage: "<task uuid>",
	Action: func(cctx *cli.Context) error {
		taskUUID := cctx.Args().First()
		if taskUUID == "" {
			return fmt.Errorf("task uuid is required")
		}
		client, err := newClient(cctx, false)
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := client.Lifecycle.TerminateTask(util.ReqContext(), taskUUID)
		if err != nil {
			return err
		}
		data := [][]string{{taskUUID, result.TaskStatus, strconv.FormatBool(result.Retryable)}}
		rowColor := []RowColor{{row: 0, column: []int{1}, color: []tablewriter.Colors{statusColor(result.TaskStatus)}}}
		return render(cctx, result, NewVisualTable([]string{"TASK UUID", "STATUS", "RETRYABLE"}, data, rowColor))
	},
}

var taskInfo = &cli.Command{
	Name:      "info",
	Usage:     "Show a task with its jobs and orders",
	ArgsUsage: "<task uuid>",
	Action: func(cctx *cli.Context) error {
		taskUUID := cctx.Args().First()
		if taskUUID == "" {
			return fmt.Errorf("task uuid is required")
		}
		client, err := newClient(cctx, false)
		if err != nil {
			return err
		}
		defer client.Close()

		info, err := client.Lifecycle.GetDeploymentInfo(util.ReqContext(), taskUUID)
		if err != nil {
			return err
		}

		var data [][]string
		var rowColorList []RowColor
		for i, job := range info.Jobs {
			uri, _ := job.RealURI()
			data = append(data, []string{job.Uuid, job.Status, job.Hardware, job.CpAccountAddress, uri, formatTime(job.EndAt)})
			rowColorList = append(rowColorList, RowColor{row: i, column: []int{1}, color: []tablewriter.Colors{statusColor(job.Status)}})
		}
		fmt.Printf("task %s  status %s  hardware %s  ends %s\n", info.Task.Uuid, info.Task.Status,
			info.Task.TaskDetail.Hardware, formatTime(info.Task.EndAt))
		return render(cctx, info, NewVisualTable([]string{"JOB UUID", "STATUS", "HARDWARE", "PROVIDER", "URL", "END AT"}, data, rowColorList))
	},
}

var taskURL = &cli.Command{
	Name:      "url",
	Usage:     "Print the deployed application urls",
	ArgsUsage: "<task uuid>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "wait", Usage: "poll until a provider publishes an url"},
	},
	Action: func(cctx *cli.Context) error {
		taskUUID := cctx.Args().First()
		if taskUUID == "" {
			return fmt.Errorf("task uuid is required")
		}
		client, err := newClient(cctx, false)
		if err != nil {
			return err
		}
		defer client.Close()

		var urls []string
		if cctx.Bool("wait") {
			urls, err = client.Lifecycle.WaitForRealURL(util.ReqContext(), taskUUID, client.WaitPolicy())
		} else {
			urls, err = client.Lifecycle.GetRealURL(util.ReqContext(), taskUUID)
		}
		if err != nil {
			return err
		}
		var data [][]string
		for _, u := range urls {
			data = append(data, []string{u})
		}
		return render(cctx, urls, NewVisualTable([]string{"URL"}, data, nil))
	},
}

var taskList = &cli.Command{
	Name:  "list",
	Usage: "List the tasks of the configured wallet",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "page", Value: 1},
		&cli.IntFlag{Name: "size"},
	},
	Action: func(cctx *cli.Context) error {
		client, err := newClient(cctx, false)
		if err != nil {
			return err
		}
		defer client.Close()

		list, err := client.Lifecycle.GetTaskList(util.ReqContext(), client.Config.WALLET.Address, cctx.Int("page"), cctx.Int("size"))
		if err != nil {
			return err
		}

		var data [][]string
		var rowColorList []RowColor
		for i, t := range list.List {
			data = append(data, []string{t.Uuid, t.Status, t.TaskDetail.Hardware, t.TaskDetail.Requirements.Region, formatTime(t.CreatedAt), formatTime(t.EndAt)})
			rowColorList = append(rowColorList, RowColor{row: i, column: []int{1}, color: []tablewriter.Colors{statusColor(t.Status)}})
		}
		header := []string{"TASK UUID", "STATUS", "HARDWARE", "REGION", "CREATED AT", "END AT"}
		if err = render(cctx, list, NewVisualTable(header, data, rowColorList)); err != nil {
			return err
		}
		if cctx.String(FlagOutput) != "yaml" {
			fmt.Printf("page %d/%d, %d tasks\n", list.Page, list.TotalPage, list.Total)
		}
		return nil
	},
}

var taskEstimate = &cli.Command{
	Name:  "estimate",
	Usage: "Estimate the cost of renting an instance type",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "instance-type", Aliases: []string{"i"}, Required: true},
		durationFlag,
	},
	Action: func(cctx *cli.Context) error {
		client, err := newClient(cctx, false)
		if err != nil {
			return err
		}
		defer client.Close()

		amount, err := client.Lifecycle.EstimatePayment(cctx.String("instance-type"), cctx.Duration("duration"))
		if err != nil {
			return err
		}
		data := [][]string{{cctx.String("instance-type"), cctx.Duration("duration").String(), amount.String()}}
		return render(cctx, map[string]string{
			"instance_type": cctx.String("instance-type"),
			"duration":      cctx.Duration("duration").String(),
			"amount":        amount.String(),
		}, NewVisualTable([]string{"INSTANCE TYPE", "DURATION", "AMOUNT"}, data, nil))
	},
}
