// Package render projects a backend QueryResponse onto the console surfaces.
package render

import (
	"strings"

	"github.com/cortexai/sqlconsole/internal/models"
	"github.com/cortexai/sqlconsole/internal/view"
	"github.com/rs/zerolog/log"
)

// FallbackSQL is shown when the backend produced no SQL
const FallbackSQL = "Could not generate SQL."

// NormalizeSQL collapses every whitespace run to one space and trims the ends.
func NormalizeSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

// Renderer writes one response to a View. It holds no state between calls.
type Renderer struct {
	view view.View
}

func NewRenderer(v view.View) *Renderer {
	return &Renderer{view: v}
}

// Render writes context tags, SQL, explanation, error and table. Each part
// is rendered independently, so a backend error never hides the table.
func (r *Renderer) Render(resp *models.QueryResponse) {
	if resp == nil {
		resp = &models.QueryResponse{}
	}

	for _, c := range resp.Context {
		r.view.AppendTag(c.Table)
	}

	sql := ""
	if resp.SQL != nil {
		sql = NormalizeSQL(*resp.SQL)
	}
	if sql == "" {
		sql = FallbackSQL
	}
	r.view.SetText(view.SQL, sql)

	explanation := ""
	if resp.Explanation != nil {
		explanation = *resp.Explanation
	}
	r.view.SetText(view.Explanation, explanation)

	if msg := resp.ErrorText(); msg != "" {
		r.view.SetText(view.Error, msg)
		r.view.Show(view.Error)
	}

	if resp.Results != nil {
		r.renderTable(resp.Results)
	}
}

func (r *Renderer) renderTable(t *models.TableResult) {
	r.view.SetHeader(t.Columns)

	malformed := 0
	for _, row := range t.Rows {
		if len(row) != len(t.Columns) {
			malformed++
		}
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = models.CellText(c)
		}
		r.view.AppendRow(cells)
	}

	if malformed > 0 {
		log.Warn().
			Int("columns", len(t.Columns)).
			Int("malformed_rows", malformed).
			Msg("result rows do not match column count")
	}
}
