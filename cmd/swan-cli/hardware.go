package main

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/swanchain/go-swan-sdk/catalog"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/urfave/cli/v2"
)

var hardwareCmd = &cli.Command{
	Name:  "hardware",
	Usage: "Inspect the hardware catalog",
	Subcommands: []*cli.Command{
		hardwareList,
	},
}

var hardwareList = &cli.Command{
	Name:  "list",
	Usage: "List hardware configurations",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "region",
			Usage: "only show hardware available in region",
		},
	},
	Action: func(cctx *cli.Context) error {
		client, err := newClient(cctx, false)
		if err != nil {
			return err
		}
		defer client.Close()

		var list []models.HardwareConfig
		if region := cctx.String("region"); region != "" {
			list = client.Catalog.Available(region)
		} else {
			list = client.Catalog.List()
		}

		var data [][]string
		var rowColorList []RowColor
		for i, hw := range list {
			shape := "-"
			if spec, ok := catalog.SpecOf(hw.Name); ok {
				shape = spec.String()
			}
			data = append(data, []string{itoa(hw.ID), hw.Name, hw.Type, shape, hw.Price, hw.Status, strings.Join(hw.Region, ",")})
			rowColorList = append(rowColorList, RowColor{
				row:    i,
				column: []int{5},
				color:  []tablewriter.Colors{statusColor(hw.Status)},
			})
		}

		header := []string{"ID", "NAME", "TYPE", "SPEC", "PRICE/HOUR", "STATUS", "REGION"}
		return render(cctx, list, NewVisualTable(header, data, rowColorList))
	},
}
