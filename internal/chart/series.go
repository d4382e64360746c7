// Package chart maps tabular results to plotted series and owns the single
// live chart shown by the console.
package chart

import (
	"errors"
	"fmt"

	"github.com/cortexai/sqlconsole/internal/models"
)

var (
	ErrMissingAxis     = errors.New("chart: axis column not found")
	ErrNoValidSeries   = errors.New("chart: no valid series")
	ErrUnsupportedType = errors.New("chart: unsupported chart type")
)

// MissingAxisError reports which axis column could not be resolved
type MissingAxisError struct {
	Axis   string
	Column string
}

func (e *MissingAxisError) Error() string {
	return fmt.Sprintf("chart: %s axis column %q not found", e.Axis, e.Column)
}

func (e *MissingAxisError) Is(target error) bool {
	return target == ErrMissingAxis
}

// Series is one named sequence of values plotted against shared labels
type Series struct {
	Label  string
	Values []models.Cell
}

// Mapping is the result of mapping a table onto a chart spec.
type Mapping struct {
	Labels []models.Cell
	Series []Series
}

// Map resolves the spec's x and y columns against the table. Unknown y
// columns are skipped; series keep the order of spec.YColumns.
func Map(spec models.ChartSpec, table models.TableResult) (Mapping, error) {
	xIdx := table.ColumnIndex(spec.XColumn)
	if xIdx < 0 {
		return Mapping{}, &MissingAxisError{Axis: "x", Column: spec.XColumn}
	}

	m := Mapping{Labels: table.Column(xIdx)}
	for i, col := range spec.YColumns {
		idx := table.ColumnIndex(col)
		if idx < 0 {
			continue
		}
		label := col
		if i < len(spec.Labels) && spec.Labels[i] != "" {
			label = spec.Labels[i]
		}
		m.Series = append(m.Series, Series{Label: label, Values: table.Column(idx)})
	}

	if len(m.Series) == 0 {
		return Mapping{}, ErrNoValidSeries
	}
	return m, nil
}
