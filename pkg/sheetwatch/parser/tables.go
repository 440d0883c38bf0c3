package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"github.com/xuri/excelize/v2"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// Keywords used to pick special columns, matched against lower-cased headers.
var (
	nameColumnKeywords    = []string{"tên chiến dịch", "name"}
	statusColumnKeywords  = []string{"trạng thái", "status"}
	updatedColumnKeywords = []string{"updated", "cập nhật"}
	noteColumnKeywords    = []string{"lỗi", "error", "ghi chú", "cảnh báo"}
)

// ParseTable turns a grid into a header-keyed table.
// The first row is the header; blank headers become "Col_<index>".
func ParseTable(grid models.Grid) models.Table {
	if len(grid) == 0 {
		return models.Table{Headers: []string{}, Rows: []models.RowData{}}
	}

	headers := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		key := strings.TrimSpace(h)
		if key == "" {
			key = fmt.Sprintf("Col_%d", i)
		}
		headers[i] = key
	}

	rows := make([]models.RowData, 0, len(grid)-1)
	for _, row := range grid[1:] {
		data := make(models.RowData, len(headers))
		for i, key := range headers {
			if i < len(row) {
				data[key] = row[i]
			} else {
				data[key] = ""
			}
		}
		rows = append(rows, data)
	}

	return models.Table{
		Headers:   headers,
		Rows:      rows,
		Roles:     DetectColumnRoles(headers),
		DataRange: DetectTableRange(grid, DefaultTableParams()),
	}
}

// DetectColumnRoles picks the name, status, updated and note columns by
// keyword. The note column falls back to the last header.
func DetectColumnRoles(headers []string) models.ColumnRoles {
	var roles models.ColumnRoles
	if len(headers) == 0 {
		return roles
	}
	roles.Name = findHeader(headers, nameColumnKeywords[:1])
	if roles.Name == "" {
		roles.Name = findHeader(headers, nameColumnKeywords[1:])
	}
	roles.Status = findHeader(headers, statusColumnKeywords)
	roles.Updated = findHeader(headers, updatedColumnKeywords)
	roles.Note = findHeader(headers, noteColumnKeywords)
	if roles.Note == "" {
		roles.Note = headers[len(headers)-1]
	}
	return roles
}

func findHeader(headers []string, keywords []string) string {
	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return h
			}
		}
	}
	return ""
}

// DetectTableRange reports the A1 range (e.g. "A1:D10") bounding the
// non-empty cells of grid when they are dense enough to be a table.
// It returns "" otherwise.
func DetectTableRange(grid models.Grid, params TableDetectionParams) string {
	if len(grid) == 0 {
		return ""
	}

	minRow, maxRow, minCol, maxCol := findDataBounds(grid)
	if minRow < 0 {
		return ""
	}

	totalCells := (maxRow - minRow + 1) * (maxCol - minCol + 1)
	nonEmptyCells := countNonEmptyCells(grid, minRow, maxRow, minCol, maxCol)

	if nonEmptyCells < params.MinNonemptyCells {
		return ""
	}

	density := float64(nonEmptyCells) / float64(totalCells)
	if density < params.DensityMin {
		return ""
	}

	startCell, _ := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	endCell, _ := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(grid models.Grid) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range grid {
		for colIdx, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(grid models.Grid, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(grid); rowIdx++ {
		row := grid[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if strings.TrimSpace(row[colIdx]) != "" {
				count++
			}
		}
	}
	return count
}
