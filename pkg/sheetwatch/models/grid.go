// Package models defines data structures for sheet snapshots, product blocks
// and the persisted dashboard memory.
package models

// Grid is an untyped snapshot of a sheet tab.
// Rows may differ in length; row 0, column 0 is the top-left cell.
type Grid [][]string

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int {
	return len(g)
}

// Width returns the length of the longest row.
func (g Grid) Width() int {
	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}
