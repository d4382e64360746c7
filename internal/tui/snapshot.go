package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cortexai/sqlconsole/internal/view"
	teatable "github.com/evertras/bubble-table/table"
)

const (
	minColumnWidth = 6
	maxColumnWidth = 40
	tablePageSize  = 15
)

// RenderSnapshot draws the results area of the console. It renders nothing
// until a cycle has settled.
func RenderSnapshot(s view.Snapshot, width int) string {
	if !s.Results {
		return ""
	}
	if width <= 0 {
		width = 100
	}

	var b strings.Builder

	if len(s.Tags) > 0 {
		tags := make([]string, len(s.Tags))
		for i, t := range s.Tags {
			tags[i] = tagStyle.Render(t)
		}
		b.WriteString(mutedStyle.Render("Context ") + lipgloss.JoinHorizontal(lipgloss.Top, tags...))
		b.WriteString("\n\n")
	}

	if s.ErrorShown && s.Error != "" {
		b.WriteString(errorStyle.Width(width).Render(s.Error))
		b.WriteString("\n\n")
	}

	if s.SQL != "" {
		b.WriteString(titleStyle.Render("SQL"))
		b.WriteString("\n")
		b.WriteString(sqlStyle.Width(max(width-4, 20)).Render(s.SQL))
		b.WriteString("\n")
	}

	if s.Explanation != "" {
		b.WriteString(mutedStyle.Width(width).Render(s.Explanation))
		b.WriteString("\n")
	}

	if len(s.Header) > 0 {
		b.WriteString("\n")
		b.WriteString(renderTable(s.Header, s.Rows))
		b.WriteString("\n")
	}

	if s.ChartShown && s.Chart != "" {
		b.WriteString("\n")
		b.WriteString(chartStyle.Render(fmt.Sprintf("Chart: %s", s.Chart)))
		b.WriteString("\n")
	}

	return b.String()
}

func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}

	columns := make([]teatable.Column, len(header))
	for i, h := range header {
		columns[i] = teatable.NewColumn(columnKey(i), h, min(max(widths[i], minColumnWidth), maxColumnWidth))
	}

	tableRows := make([]teatable.Row, 0, len(rows))
	for _, row := range rows {
		data := teatable.RowData{}
		for i, c := range row {
			if i < len(header) {
				data[columnKey(i)] = c
			}
		}
		tableRows = append(tableRows, teatable.NewRow(data))
	}

	t := teatable.New(columns).WithRows(tableRows)
	if len(tableRows) > tablePageSize {
		t = t.WithPageSize(tablePageSize)
	}
	return t.View()
}

func columnKey(i int) string {
	return fmt.Sprintf("c%d", i)
}
