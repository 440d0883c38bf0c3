package parser

import (
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
)

// Cell returns the value at (row, col) and whether that cell exists.
// Out-of-range coordinates never fail.
func Cell(grid models.Grid, row, col int) (string, bool) {
	if row < 0 || row >= len(grid) {
		return "", false
	}
	r := grid[row]
	if col < 0 || col >= len(r) {
		return "", false
	}
	return r[col], true
}

// CellText returns the value at (row, col), or "" when the cell is absent.
func CellText(grid models.Grid, row, col int) string {
	v, _ := Cell(grid, row, col)
	return v
}
