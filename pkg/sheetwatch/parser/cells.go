package parser

import (
	"strconv"
	"strings"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"github.com/xuri/excelize/v2"
)

// GridFromWorkbook reads a sheet of an xlsx workbook as a grid.
// An empty sheetName selects the first sheet.
func GridFromWorkbook(f *excelize.File, sheetName string) (models.Grid, error) {
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	return models.Grid(rows), nil
}

// TypedRows converts table rows to CellRows with numbers parsed.
// Row numbers count the header as row 1. Empty cells are left out.
func TypedRows(t models.Table) []models.CellRow {
	result := make([]models.CellRow, 0, len(t.Rows))
	for i, row := range t.Rows {
		cellMap := make(map[string]interface{}, len(row))
		for _, key := range t.Headers {
			v := row[key]
			if v == "" {
				continue
			}
			cellMap[key] = parseValue(v)
		}
		result = append(result, models.CellRow{
			R: i + 2,
			C: cellMap,
		})
	}
	return result
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	t := strings.TrimSpace(s)
	// Try integer first
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}
	// Return as string
	return s
}
