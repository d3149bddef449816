package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/olekukonko/tablewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualTablePlainDropsColor(t *testing.T) {
	table := NewVisualTable([]string{"NAME", "STATUS"}, [][]string{{"C1ae.small", "available"}}, []RowColor{
		{row: 0, column: []int{1}, color: []tablewriter.Colors{statusColor("available")}},
	})

	var colored, plain bytes.Buffer
	require.NoError(t, table.Generate(&colored, false))
	require.NoError(t, table.Generate(&plain, true))

	assert.Contains(t, colored.String(), "\x1b[")
	assert.NotContains(t, plain.String(), "\x1b[")
	assert.True(t, strings.Contains(plain.String(), "C1ae.small"))
	assert.True(t, strings.Contains(plain.String(), "available"))
}
