package models_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/cortexai/sqlconsole/internal/models"
)

func TestNewQueryRequest(t *testing.T) {
	req, err := models.NewQueryRequest("  top customers \n")
	if err != nil {
		t.Fatalf("NewQueryRequest: %v", err)
	}
	if req.Query != "top customers" {
		t.Errorf("Query = %q", req.Query)
	}

	for _, raw := range []string{"", " ", "\t\n"} {
		if _, err := models.NewQueryRequest(raw); !errors.Is(err, models.ErrEmptyQuery) {
			t.Errorf("NewQueryRequest(%q) err = %v, want ErrEmptyQuery", raw, err)
		}
	}
}

func TestCellText(t *testing.T) {
	tests := []struct {
		name string
		in   models.Cell
		want string
	}{
		{"nil", nil, ""},
		{"string", "<b>x</b>", "<b>x</b>"},
		{"json number", json.Number("1.50"), "1.50"},
		{"float", 2.5, "2.5"},
		{"whole float", float64(3), "3"},
		{"int", 7, "7"},
		{"bool", false, "false"},
		{"object", map[string]any{"a": 1}, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := models.CellText(tt.in); got != tt.want {
				t.Errorf("CellText(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTableResultColumns(t *testing.T) {
	table := models.TableResult{
		Columns: []string{"a", "b", "a"},
		Rows:    [][]models.Cell{{1, 2, 3}, {4}},
	}
	if idx := table.ColumnIndex("a"); idx != 0 {
		t.Errorf("ColumnIndex(a) = %d, want first match 0", idx)
	}
	if idx := table.ColumnIndex("z"); idx != -1 {
		t.Errorf("ColumnIndex(z) = %d, want -1", idx)
	}
	col := table.Column(1)
	if len(col) != 2 || col[0] != 2 || col[1] != nil {
		t.Errorf("Column(1) = %v", col)
	}
}

func TestQueryResponseErrorText(t *testing.T) {
	var nilResp *models.QueryResponse
	if nilResp.ErrorText() != "" {
		t.Error("nil response should have no error text")
	}
	resp := models.QueryResponse{Error: models.StringPtr("boom")}
	if resp.ErrorText() != "boom" {
		t.Errorf("ErrorText = %q", resp.ErrorText())
	}
}
