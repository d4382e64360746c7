package models

import (
	"encoding/json"
	"strconv"
)

// Cell is a single JSON scalar from a result row.
// Numbers decode as json.Number so their text survives unchanged.
type Cell = any

// ContextEntry is one schema table the backend used as context
type ContextEntry struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns,omitempty"`
}

// TableResult holds tabular query results. Every row is expected to have
// len(Columns) cells.
type TableResult struct {
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// ColumnIndex returns the index of the first column named name, or -1.
func (t TableResult) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of column idx in row order. Rows too short to
// hold the column contribute nil.
func (t TableResult) Column(idx int) []Cell {
	out := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// ChartType names a chart kind requested by the backend
type ChartType string

const (
	ChartBar     ChartType = "bar"
	ChartLine    ChartType = "line"
	ChartPie     ChartType = "pie"
	ChartArea    ChartType = "area"
	ChartScatter ChartType = "scatter"
)

// ChartSpec describes how a TableResult should be charted
type ChartSpec struct {
	ChartType ChartType `json:"chart_type"`
	XColumn   string    `json:"x_column"`
	YColumns  []string  `json:"y_columns"`
	Labels    []string  `json:"labels,omitempty"`
	Title     string    `json:"title"`
}

// QueryResponse is returned by POST /api/query. Every field may be absent.
type QueryResponse struct {
	Context     []ContextEntry `json:"context"`
	SQL         *string        `json:"sql,omitempty"`
	Explanation *string        `json:"explanation,omitempty"`
	Error       *string        `json:"error,omitempty"`
	Results     *TableResult   `json:"results,omitempty"`
	ChartConfig *ChartSpec     `json:"chart_config,omitempty"`
}

// ErrorText returns the backend error, or "" when absent.
func (r *QueryResponse) ErrorText() string {
	if r == nil || r.Error == nil {
		return ""
	}
	return *r.Error
}

// CellText renders a cell as plain text.
func CellText(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// StringPtr is a convenience for building responses in tests and handlers.
func StringPtr(s string) *string {
	return &s
}
