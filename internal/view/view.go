// Package view abstracts the output surfaces of the query console so the
// controller and renderers can run without a concrete display.
package view

// Surface names one region of the console output
type Surface string

const (
	// Toggleable surfaces
	Loading Surface = "loading"
	Results Surface = "results"
	Error   Surface = "error"
	Chart   Surface = "chart"

	// Content surfaces
	Context     Surface = "context"
	SQL         Surface = "sql"
	Explanation Surface = "explanation"
	Table       Surface = "table"
)

// View is the set of operations the console performs on its output.
type View interface {
	Show(s Surface)
	Hide(s Surface)
	SetText(s Surface, text string)
	// Clear empties a surface: tags for Context, header and rows for Table,
	// text for everything else.
	Clear(s Surface)
	AppendTag(text string)
	SetHeader(columns []string)
	AppendRow(cells []string)
}
