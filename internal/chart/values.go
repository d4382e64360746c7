package chart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/cortexai/sqlconsole/internal/models"
)

// Float converts a result cell to a plottable value. Cells with no numeric
// reading plot as 0.
func Float(c models.Cell) float64 {
	var f float64
	switch v := c.(type) {
	case json.Number:
		f, _ = v.Float64()
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case bool:
		if v {
			f = 1
		}
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
