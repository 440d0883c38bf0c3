package parser

import (
	"testing"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
)

func TestCell(t *testing.T) {
	grid := models.Grid{
		{"a", "b", "c"},
		{"d"},
		nil,
		{"", "e"},
	}

	tests := []struct {
		row, col int
		value    string
		ok       bool
	}{
		{0, 0, "a", true},
		{0, 2, "c", true},
		{1, 0, "d", true},
		{1, 1, "", false},
		{2, 0, "", false},
		{3, 0, "", true},
		{3, 1, "e", true},
		{-1, 0, "", false},
		{0, -1, "", false},
		{4, 0, "", false},
		{100, 100, "", false},
	}

	for _, tt := range tests {
		value, ok := Cell(grid, tt.row, tt.col)
		if value != tt.value || ok != tt.ok {
			t.Errorf("Cell(%d, %d) = (%q, %v), expected (%q, %v)",
				tt.row, tt.col, value, ok, tt.value, tt.ok)
		}
	}

	if got := CellText(nil, 0, 0); got != "" {
		t.Errorf("CellText(nil) = %q, expected empty", got)
	}
}
