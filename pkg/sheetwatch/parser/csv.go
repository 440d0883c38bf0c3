package parser

import (
	"strings"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
)

// ParseCSV tokenizes a CSV export into a grid.
// Quoted fields may contain separators and line breaks, and "" inside quotes
// is a literal quote. Rows end at \r\n, \n or a lone \r. Rows keep their own
// length.
func ParseCSV(text string) models.Grid {
	var (
		grid    models.Grid
		row     []string
		field   strings.Builder
		quoted  bool
		started bool
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		grid = append(grid, row)
		row = nil
		started = false
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]
		var next byte
		if i+1 < len(text) {
			next = text[i+1]
		}
		started = true

		switch {
		case ch == '"' && quoted && next == '"':
			field.WriteByte('"')
			i++
		case ch == '"':
			quoted = !quoted
		case quoted:
			field.WriteByte(ch)
		case ch == ',':
			endField()
		case ch == '\r' && next == '\n':
			endRow()
			i++
		case ch == '\n' || ch == '\r':
			endRow()
		default:
			field.WriteByte(ch)
		}
	}
	if started {
		endRow()
	}
	return grid
}
