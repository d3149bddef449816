package main

import (
	"bytes"
	"io"

	"github.com/acarl005/stripansi"
	"github.com/olekukonko/tablewriter"
)

type VisualTable struct {
	Header   []string
	Data     [][]string
	RowColor []RowColor
}

type RowColor struct {
	row    int
	column []int
	color  []tablewriter.Colors
}

func NewVisualTable(header []string, data [][]string, rowColor []RowColor) *VisualTable {
	return &VisualTable{
		Header:   header,
		Data:     data,
		RowColor: rowColor,
	}
}

// Generate renders into w; plain drops the ANSI color codes.
func (v *VisualTable) Generate(w io.Writer, plain bool) error {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)

	for index, datum := range v.Data {
		var rowColors []tablewriter.Colors
		for _, rowColor := range v.RowColor {
			if index == rowColor.row {
				for dIndex := range datum {
					var defaultFlag = true
					for n, colIndex := range rowColor.column {
						if dIndex == colIndex {
							rowColors = append(rowColors, rowColor.color[n])
							defaultFlag = false
						}
					}
					if defaultFlag {
						rowColors = append(rowColors, tablewriter.Colors{})
					}
				}
			}
		}
		table.Rich(v.Data[index], rowColors)
	}

	table.SetHeader(v.Header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.Render()

	out := buf.String()
	if plain {
		out = stripansi.Strip(out)
	}
	_, err := io.WriteString(w, out)
	return err
}

// statusColor highlights a task, job or hardware status column.
func statusColor(status string) tablewriter.Colors {
	switch status {
	case "available", "running", "Running", "paid", "payment_consumed":
		return tablewriter.Colors{tablewriter.Bold, tablewriter.FgGreenColor}
	case "unavailable", "terminated", "Cancelled", "Ended":
		return tablewriter.Colors{tablewriter.Bold, tablewriter.FgRedColor}
	default:
		return tablewriter.Colors{tablewriter.Normal, tablewriter.FgYellowColor}
	}
}
